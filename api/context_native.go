//go:build !wasip1

package api

import (
	"github.com/wippyai/function-runtime/abi"
	"github.com/wippyai/function-runtime/provider"
)

// NewContext binds a Context directly to a host-side provider context.
// This is the in-process path used by tests, examples, and any embedding
// that runs function code natively.
func NewContext(p *provider.Context) *Context {
	return &Context{host: nativeCalls{p: p}}
}

type nativeCalls struct {
	p *provider.Context
}

func (n nativeCalls) inputGet() uint64 {
	return n.p.InputGet()
}

func (n nativeCalls) inputGetValLen(val uint64) uint32 {
	return n.p.InputGetValLen(val)
}

func (n nativeCalls) inputReadUTF8Str(ptr, length uint32) []byte {
	data, ok := n.p.InputReadUTF8Str(ptr, length)
	if !ok {
		return nil
	}
	return data
}

func (n nativeCalls) inputGetObjProp(val uint64, name string) uint64 {
	return n.p.InputGetObjProp(val, name)
}

func (n nativeCalls) inputGetInternedObjProp(val uint64, id uint32) uint64 {
	return n.p.InputGetInternedObjProp(val, id)
}

func (n nativeCalls) inputGetAtIndex(val uint64, index uint32) uint64 {
	return n.p.InputGetAtIndex(val, index)
}

func (n nativeCalls) inputGetObjKeyAtIndex(val uint64, index uint32) uint64 {
	return n.p.InputGetObjKeyAtIndex(val, index)
}

func (n nativeCalls) outputNewBool(v bool) abi.WriteStatus {
	return n.p.OutputNewBool(v)
}

func (n nativeCalls) outputNewNull() abi.WriteStatus {
	return n.p.OutputNewNull()
}

func (n nativeCalls) outputNewI32(v int32) abi.WriteStatus {
	return n.p.OutputNewI32(v)
}

func (n nativeCalls) outputNewF64(v float64) abi.WriteStatus {
	return n.p.OutputNewF64(v)
}

func (n nativeCalls) outputNewUTF8Str(s string) abi.WriteStatus {
	return n.p.OutputNewUTF8Str(s)
}

func (n nativeCalls) outputNewInternedUTF8Str(id uint32) abi.WriteStatus {
	return n.p.OutputNewInternedUTF8Str(id)
}

func (n nativeCalls) outputNewObject(length uint32) abi.WriteStatus {
	return n.p.OutputNewObject(length)
}

func (n nativeCalls) outputFinishObject() abi.WriteStatus {
	return n.p.OutputFinishObject()
}

func (n nativeCalls) outputNewArray(length uint32) abi.WriteStatus {
	return n.p.OutputNewArray(length)
}

func (n nativeCalls) outputFinishArray() abi.WriteStatus {
	return n.p.OutputFinishArray()
}

func (n nativeCalls) outputFinalize() abi.WriteStatus {
	return n.p.OutputFinalize()
}

func (n nativeCalls) internUTF8Str(s string) uint32 {
	return n.p.InternUTF8Str(s)
}

func (n nativeCalls) logNewUTF8Str(s string) {
	n.p.LogUTF8Str(s)
}
