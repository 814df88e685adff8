// Package api is the guest-side surface of the function value-exchange
// protocol: input navigation, string interning, output building, and
// logging over one invocation context.
//
// When compiled natively the Context is bound to a provider.Context and
// every operation is a direct call; when compiled for wasip1 the same
// operations go through the host imports of the selected protocol revision.
// The revision is fixed at build time, never chosen per call.
//
// Input values are navigated lazily. A Value is a cheap 8-byte handle;
// reading a property or element is one host operation, and scalar content
// is only materialized by the As* accessors. Mistyped accesses return
// (zero, false) or an Error-kind Value, never a panic.
//
// Output is written strictly in document order through the Write* methods.
// WriteObject and WriteArray wrap the open/fill/finish sequence; Finalize
// seals the output and is required exactly once per invocation.
package api
