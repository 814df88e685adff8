package engine

import (
	"context"
	"sync/atomic"

	wazeroapi "github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/function-runtime/abi"
	"github.com/wippyai/function-runtime/errors"
	"github.com/wippyai/function-runtime/provider"
)

// Per-invocation state travels on the context.Context that wazero threads
// through every host call.

type providerKey struct{}

func withProvider(ctx context.Context, p *provider.Context) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

func providerFromContext(ctx context.Context) *provider.Context {
	p, _ := ctx.Value(providerKey{}).(*provider.Context)
	if p == nil {
		panic("host call outside an invocation")
	}
	return p
}

const (
	i32 = wazeroapi.ValueTypeI32
	i64 = wazeroapi.ValueTypeI64
	f64 = wazeroapi.ValueTypeF64
)

// hostFunc describes one export of the revision host module, in the wire
// signature of revision 2. Revision 1 prepends a context handle parameter.
type hostFunc struct {
	name    string
	params  []wazeroapi.ValueType
	results []wazeroapi.ValueType
	fn      func(ctx context.Context, mod wazeroapi.Module, stack []uint64)
}

func readGuestBytes(mod wazeroapi.Module, ptr, length uint32) []byte {
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		panic("guest pointer out of memory bounds")
	}
	return data
}

func hostFuncs() []hostFunc {
	return []hostFunc{
		{
			name:    abi.FuncInputGet,
			results: []wazeroapi.ValueType{i64},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = providerFromContext(ctx).InputGet()
			},
		},
		{
			name:    abi.FuncInputGetValLen,
			params:  []wazeroapi.ValueType{i64},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).InputGetValLen(stack[0]))
			},
		},
		{
			name:   abi.FuncInputReadUTF8Str,
			params: []wazeroapi.ValueType{i32, i32, i32},
			fn: func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				src, out, length := uint32(stack[0]), uint32(stack[1]), uint32(stack[2])
				data, ok := providerFromContext(ctx).InputReadUTF8Str(src, length)
				if !ok {
					return
				}
				if !mod.Memory().Write(out, data) {
					panic("guest output buffer out of memory bounds")
				}
			},
		},
		{
			name:    abi.FuncInputGetObjProp,
			params:  []wazeroapi.ValueType{i64, i32, i32},
			results: []wazeroapi.ValueType{i64},
			fn: func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				name := string(readGuestBytes(mod, uint32(stack[1]), uint32(stack[2])))
				stack[0] = providerFromContext(ctx).InputGetObjProp(stack[0], name)
			},
		},
		{
			name:    abi.FuncInputGetInternedObjProp,
			params:  []wazeroapi.ValueType{i64, i32},
			results: []wazeroapi.ValueType{i64},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = providerFromContext(ctx).InputGetInternedObjProp(stack[0], uint32(stack[1]))
			},
		},
		{
			name:    abi.FuncInputGetAtIndex,
			params:  []wazeroapi.ValueType{i64, i32},
			results: []wazeroapi.ValueType{i64},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = providerFromContext(ctx).InputGetAtIndex(stack[0], uint32(stack[1]))
			},
		},
		{
			name:    abi.FuncInputGetObjKeyAtIndex,
			params:  []wazeroapi.ValueType{i64, i32},
			results: []wazeroapi.ValueType{i64},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = providerFromContext(ctx).InputGetObjKeyAtIndex(stack[0], uint32(stack[1]))
			},
		},
		{
			name:    abi.FuncOutputNewBool,
			params:  []wazeroapi.ValueType{i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewBool(stack[0] != 0))
			},
		},
		{
			name:    abi.FuncOutputNewNull,
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewNull())
			},
		},
		{
			name:    abi.FuncOutputNewI32,
			params:  []wazeroapi.ValueType{i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewI32(int32(uint32(stack[0]))))
			},
		},
		{
			name:    abi.FuncOutputNewF64,
			params:  []wazeroapi.ValueType{f64},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewF64(wazeroapi.DecodeF64(stack[0])))
			},
		},
		{
			name:    abi.FuncOutputNewUTF8Str,
			params:  []wazeroapi.ValueType{i32, i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				s := string(readGuestBytes(mod, uint32(stack[0]), uint32(stack[1])))
				stack[0] = uint64(providerFromContext(ctx).OutputNewUTF8Str(s))
			},
		},
		{
			name:    abi.FuncOutputNewInternedUTF8Str,
			params:  []wazeroapi.ValueType{i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewInternedUTF8Str(uint32(stack[0])))
			},
		},
		{
			name:    abi.FuncOutputNewObject,
			params:  []wazeroapi.ValueType{i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewObject(uint32(stack[0])))
			},
		},
		{
			name:    abi.FuncOutputFinishObject,
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputFinishObject())
			},
		},
		{
			name:    abi.FuncOutputNewArray,
			params:  []wazeroapi.ValueType{i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputNewArray(uint32(stack[0])))
			},
		},
		{
			name:    abi.FuncOutputFinishArray,
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputFinishArray())
			},
		},
		{
			name:    abi.FuncOutputFinalize,
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = uint64(providerFromContext(ctx).OutputFinalize())
			},
		},
		{
			name:    abi.FuncInternUTF8Str,
			params:  []wazeroapi.ValueType{i32, i32},
			results: []wazeroapi.ValueType{i32},
			fn: func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				s := string(readGuestBytes(mod, uint32(stack[0]), uint32(stack[1])))
				stack[0] = uint64(providerFromContext(ctx).InternUTF8Str(s))
			},
		},
		{
			name:   abi.FuncLogNewUTF8Str,
			params: []wazeroapi.ValueType{i32, i32},
			fn: func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				s := string(readGuestBytes(mod, uint32(stack[0]), uint32(stack[1])))
				providerFromContext(ctx).LogUTF8Str(s)
				Logger().Debug("guest log", zap.String("message", s))
			},
		},
	}
}

// ensureHostModule instantiates the host module for a revision namespace
// once per engine.
func (e *Engine) ensureHostModule(ctx context.Context, rev revision) error {
	e.hostMu.Lock()
	defer e.hostMu.Unlock()

	namespace := rev.namespace()
	if e.hostRegistered[namespace] {
		return nil
	}

	builder := e.runtime.NewHostModuleBuilder(namespace)
	for _, hf := range hostFuncs() {
		params, handler := hf.params, hf.fn
		if rev == revisionV1 {
			// revision 1 prepends the context handle; every handle of an
			// invocation resolves to its provider context, so the handle is
			// dropped before dispatch
			params = append([]wazeroapi.ValueType{i64}, params...)
			nParams := len(params)
			inner := handler
			handler = func(ctx context.Context, mod wazeroapi.Module, stack []uint64) {
				copy(stack, stack[1:nParams])
				inner(ctx, mod, stack)
			}
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(wazeroapi.GoModuleFunc(handler), params, hf.results).
			Export(hf.name)
	}

	if rev == revisionV1 {
		var handleCounter atomic.Uint64
		builder.NewFunctionBuilder().
			WithGoModuleFunction(wazeroapi.GoModuleFunc(func(ctx context.Context, _ wazeroapi.Module, stack []uint64) {
				stack[0] = handleCounter.Add(1)
			}), nil, []wazeroapi.ValueType{i64}).
			Export(abi.FuncContextNew)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Registration(errors.PhaseHost, namespace, "*", err)
	}
	e.hostRegistered[namespace] = true
	return nil
}
