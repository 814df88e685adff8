// Package engine runs compiled function modules against the host-side
// provider using wazero.
//
// An Engine wraps one wazero runtime and is reusable across functions and
// invocations. LoadFunction compiles a module and detects its protocol
// revision from the import namespaces; Invoke binds a fresh provider
// context to one run of the module and returns the finalized output with
// the collected logs.
//
// Host functions are registered once per revision namespace. Per-invocation
// state travels through the context.Context handed to wazero, so concurrent
// invocations of the same function never share a provider context.
package engine
