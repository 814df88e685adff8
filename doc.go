// Package functionruntime implements the value-exchange protocol between a
// sandboxed, single-invocation WASM function and its host.
//
// Values cross the boundary as 64-bit NaN-boxed words; structured output is
// produced through a strictly sequenced builder. Both halves of the boundary
// live in this repository:
//
//	function-runtime/
//	├── abi/        Protocol constants: namespaces, import names, write statuses
//	├── nanbox/     NaN-box codec and the read-side error code set
//	├── api/        Guest-facing SDK: Context, Value navigation, output writes
//	├── provider/   Host side: document arena, interner, output state machine
//	├── engine/     wazero host-module binding and guest invocation
//	├── errors/     Structured error types for debugging
//	└── cmd/run/    Runner CLI with batch and interactive modes
//
// # Quick Start
//
// Run a function natively (no wasm) against a JSON input:
//
//	pctx, err := provider.NewContext([]byte(`{"cart":{"lines":[]}}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fctx := api.NewContext(pctx)
//	lines := fctx.Input().GetProp("cart").GetProp("lines")
//	// ... navigate, then build output:
//	fctx.WriteObject(1, func() error {
//	    fctx.WriteString("errors")
//	    return fctx.WriteArray(0, func() error { return nil })
//	})
//	fctx.Finalize()
//	out, _ := pctx.FinalizeJSON()
//
// Or load a compiled guest and let the engine drive the exchange:
//
//	eng, _ := engine.New(ctx)
//	defer eng.Close(ctx)
//	fn, _ := eng.LoadFunction(ctx, wasmBytes)
//	res, _ := fn.Invoke(ctx, inputJSON)
//	fmt.Println(string(res.Output))
//
// # Execution Model
//
// One provider context serves exactly one synchronous invocation. Raw values
// reference context-owned storage and must never be carried across contexts;
// the engine creates a fresh context per Invoke. Nothing at this layer
// suspends, retries, or times out.
package functionruntime

// Val is the raw 64-bit NaN-boxed word exchanged across the call boundary.
// It is opaque to callers except through the nanbox codec.
type Val = uint64

// InternedStringID identifies a string registered with the context's
// interner. IDs are positional, valid only for the context that produced
// them, and never content-deduplicated: interning the same bytes twice
// yields two distinct, independently valid IDs.
type InternedStringID = uint32
