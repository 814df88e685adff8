//go:build wasip1 && function_abi_v1

package api

import (
	"unsafe"

	"github.com/wippyai/function-runtime/abi"
)

// Revision 1 imports: the context is an explicit handle obtained from
// context_new and threaded through every call.

//go:wasmimport wippy_function_v1 wippy_function_context_new
func rawContextNew() uint64

//go:wasmimport wippy_function_v1 wippy_function_input_get
func rawInputGet(ctx uint64) uint64

//go:wasmimport wippy_function_v1 wippy_function_input_get_val_len
func rawInputGetValLen(ctx, val uint64) uint32

//go:wasmimport wippy_function_v1 wippy_function_input_read_utf8_str
func rawInputReadUTF8Str(ctx uint64, src uint32, out *byte, length uint32)

//go:wasmimport wippy_function_v1 wippy_function_input_get_obj_prop
func rawInputGetObjProp(ctx, val uint64, ptr *byte, length uint32) uint64

//go:wasmimport wippy_function_v1 wippy_function_input_get_interned_obj_prop
func rawInputGetInternedObjProp(ctx, val uint64, id uint32) uint64

//go:wasmimport wippy_function_v1 wippy_function_input_get_at_index
func rawInputGetAtIndex(ctx, val uint64, index uint32) uint64

//go:wasmimport wippy_function_v1 wippy_function_input_get_obj_key_at_index
func rawInputGetObjKeyAtIndex(ctx, val uint64, index uint32) uint64

//go:wasmimport wippy_function_v1 wippy_function_output_new_bool
func rawOutputNewBool(ctx uint64, value uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_null
func rawOutputNewNull(ctx uint64) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_i32
func rawOutputNewI32(ctx uint64, value int32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_f64
func rawOutputNewF64(ctx uint64, value float64) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_utf8_str
func rawOutputNewUTF8Str(ctx uint64, ptr *byte, length uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_interned_utf8_str
func rawOutputNewInternedUTF8Str(ctx uint64, id uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_object
func rawOutputNewObject(ctx uint64, length uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_finish_object
func rawOutputFinishObject(ctx uint64) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_new_array
func rawOutputNewArray(ctx uint64, length uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_finish_array
func rawOutputFinishArray(ctx uint64) uint32

//go:wasmimport wippy_function_v1 wippy_function_output_finalize
func rawOutputFinalize(ctx uint64) uint32

//go:wasmimport wippy_function_v1 wippy_function_intern_utf8_str
func rawInternUTF8Str(ctx uint64, ptr *byte, length uint32) uint32

//go:wasmimport wippy_function_v1 wippy_function_log_new_utf8_str
func rawLogNewUTF8Str(ctx uint64, ptr *byte, length uint32)

// NewContext obtains a fresh context handle from the host.
func NewContext() *Context {
	return &Context{host: wasmCalls{ctx: rawContextNew()}}
}

type wasmCalls struct {
	ctx uint64
}

func (w wasmCalls) inputGet() uint64 {
	return rawInputGet(w.ctx)
}

func (w wasmCalls) inputGetValLen(val uint64) uint32 {
	return rawInputGetValLen(w.ctx, val)
}

func (w wasmCalls) inputReadUTF8Str(ptr, length uint32) []byte {
	if length == 0 {
		return []byte{}
	}
	buf := make([]byte, length)
	rawInputReadUTF8Str(w.ctx, ptr, &buf[0], length)
	return buf
}

func (w wasmCalls) inputGetObjProp(val uint64, name string) uint64 {
	ptr, length := stringArg(name)
	return rawInputGetObjProp(w.ctx, val, ptr, length)
}

func (w wasmCalls) inputGetInternedObjProp(val uint64, id uint32) uint64 {
	return rawInputGetInternedObjProp(w.ctx, val, id)
}

func (w wasmCalls) inputGetAtIndex(val uint64, index uint32) uint64 {
	return rawInputGetAtIndex(w.ctx, val, index)
}

func (w wasmCalls) inputGetObjKeyAtIndex(val uint64, index uint32) uint64 {
	return rawInputGetObjKeyAtIndex(w.ctx, val, index)
}

func (w wasmCalls) outputNewBool(v bool) abi.WriteStatus {
	var word uint32
	if v {
		word = 1
	}
	return abi.WriteStatus(rawOutputNewBool(w.ctx, word))
}

func (w wasmCalls) outputNewNull() abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewNull(w.ctx))
}

func (w wasmCalls) outputNewI32(v int32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewI32(w.ctx, v))
}

func (w wasmCalls) outputNewF64(v float64) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewF64(w.ctx, v))
}

func (w wasmCalls) outputNewUTF8Str(s string) abi.WriteStatus {
	ptr, length := stringArg(s)
	return abi.WriteStatus(rawOutputNewUTF8Str(w.ctx, ptr, length))
}

func (w wasmCalls) outputNewInternedUTF8Str(id uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewInternedUTF8Str(w.ctx, id))
}

func (w wasmCalls) outputNewObject(length uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewObject(w.ctx, length))
}

func (w wasmCalls) outputFinishObject() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinishObject(w.ctx))
}

func (w wasmCalls) outputNewArray(length uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewArray(w.ctx, length))
}

func (w wasmCalls) outputFinishArray() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinishArray(w.ctx))
}

func (w wasmCalls) outputFinalize() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinalize(w.ctx))
}

func (w wasmCalls) internUTF8Str(s string) uint32 {
	ptr, length := stringArg(s)
	return rawInternUTF8Str(w.ctx, ptr, length)
}

func (w wasmCalls) logNewUTF8Str(s string) {
	ptr, length := stringArg(s)
	rawLogNewUTF8Str(w.ctx, ptr, length)
}

var zeroByte byte

// stringArg exposes a string's bytes for one host call. The host copies
// before returning, so the pointer never escapes the call.
func stringArg(s string) (*byte, uint32) {
	if len(s) == 0 {
		return &zeroByte, 0
	}
	return unsafe.StringData(s), uint32(len(s))
}
