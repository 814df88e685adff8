// Package provider implements the host side of the function value-exchange
// protocol: it owns the input document, the string interner, the output
// builder, and the log sink for one invocation.
//
// A Context is created per invocation from the input payload (JSON or
// msgpack) and answers the read, intern, write, and log operations the guest
// issues. The engine package adapts these operations to WASM host imports;
// the api package calls them directly when guest code runs natively.
//
// Read operations communicate in NaN-boxed words (see the nanbox package)
// and never fail hard: a mistyped or out-of-range request is answered with
// an Error-tagged word. Write operations return a status code from the
// closed set in the abi package; the first non-success status leaves the
// builder unusable for the rest of the invocation.
//
// A Context is not safe for concurrent use and must not outlive its
// invocation.
package provider
