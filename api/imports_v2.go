//go:build wasip1 && !function_abi_v1

package api

import (
	"unsafe"

	"github.com/wippyai/function-runtime/abi"
)

// Revision 2 imports: the host binds one implicit context per instance, so
// no handle travels on the wire.

//go:wasmimport wippy_function_v2 wippy_function_input_get
func rawInputGet() uint64

//go:wasmimport wippy_function_v2 wippy_function_input_get_val_len
func rawInputGetValLen(val uint64) uint32

//go:wasmimport wippy_function_v2 wippy_function_input_read_utf8_str
func rawInputReadUTF8Str(src uint32, out *byte, length uint32)

//go:wasmimport wippy_function_v2 wippy_function_input_get_obj_prop
func rawInputGetObjProp(val uint64, ptr *byte, length uint32) uint64

//go:wasmimport wippy_function_v2 wippy_function_input_get_interned_obj_prop
func rawInputGetInternedObjProp(val uint64, id uint32) uint64

//go:wasmimport wippy_function_v2 wippy_function_input_get_at_index
func rawInputGetAtIndex(val uint64, index uint32) uint64

//go:wasmimport wippy_function_v2 wippy_function_input_get_obj_key_at_index
func rawInputGetObjKeyAtIndex(val uint64, index uint32) uint64

//go:wasmimport wippy_function_v2 wippy_function_output_new_bool
func rawOutputNewBool(value uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_null
func rawOutputNewNull() uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_i32
func rawOutputNewI32(value int32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_f64
func rawOutputNewF64(value float64) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_utf8_str
func rawOutputNewUTF8Str(ptr *byte, length uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_interned_utf8_str
func rawOutputNewInternedUTF8Str(id uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_object
func rawOutputNewObject(length uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_finish_object
func rawOutputFinishObject() uint32

//go:wasmimport wippy_function_v2 wippy_function_output_new_array
func rawOutputNewArray(length uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_output_finish_array
func rawOutputFinishArray() uint32

//go:wasmimport wippy_function_v2 wippy_function_output_finalize
func rawOutputFinalize() uint32

//go:wasmimport wippy_function_v2 wippy_function_intern_utf8_str
func rawInternUTF8Str(ptr *byte, length uint32) uint32

//go:wasmimport wippy_function_v2 wippy_function_log_new_utf8_str
func rawLogNewUTF8Str(ptr *byte, length uint32)

// NewContext binds a Context to the instance's implicit host context.
func NewContext() *Context {
	return &Context{host: wasmCalls{}}
}

type wasmCalls struct{}

func (wasmCalls) inputGet() uint64 {
	return rawInputGet()
}

func (wasmCalls) inputGetValLen(val uint64) uint32 {
	return rawInputGetValLen(val)
}

func (wasmCalls) inputReadUTF8Str(ptr, length uint32) []byte {
	if length == 0 {
		return []byte{}
	}
	buf := make([]byte, length)
	rawInputReadUTF8Str(ptr, &buf[0], length)
	return buf
}

func (wasmCalls) inputGetObjProp(val uint64, name string) uint64 {
	ptr, length := stringArg(name)
	return rawInputGetObjProp(val, ptr, length)
}

func (wasmCalls) inputGetInternedObjProp(val uint64, id uint32) uint64 {
	return rawInputGetInternedObjProp(val, id)
}

func (wasmCalls) inputGetAtIndex(val uint64, index uint32) uint64 {
	return rawInputGetAtIndex(val, index)
}

func (wasmCalls) inputGetObjKeyAtIndex(val uint64, index uint32) uint64 {
	return rawInputGetObjKeyAtIndex(val, index)
}

func (wasmCalls) outputNewBool(v bool) abi.WriteStatus {
	var word uint32
	if v {
		word = 1
	}
	return abi.WriteStatus(rawOutputNewBool(word))
}

func (wasmCalls) outputNewNull() abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewNull())
}

func (wasmCalls) outputNewI32(v int32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewI32(v))
}

func (wasmCalls) outputNewF64(v float64) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewF64(v))
}

func (wasmCalls) outputNewUTF8Str(s string) abi.WriteStatus {
	ptr, length := stringArg(s)
	return abi.WriteStatus(rawOutputNewUTF8Str(ptr, length))
}

func (wasmCalls) outputNewInternedUTF8Str(id uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewInternedUTF8Str(id))
}

func (wasmCalls) outputNewObject(length uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewObject(length))
}

func (wasmCalls) outputFinishObject() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinishObject())
}

func (wasmCalls) outputNewArray(length uint32) abi.WriteStatus {
	return abi.WriteStatus(rawOutputNewArray(length))
}

func (wasmCalls) outputFinishArray() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinishArray())
}

func (wasmCalls) outputFinalize() abi.WriteStatus {
	return abi.WriteStatus(rawOutputFinalize())
}

func (wasmCalls) internUTF8Str(s string) uint32 {
	ptr, length := stringArg(s)
	return rawInternUTF8Str(ptr, length)
}

func (wasmCalls) logNewUTF8Str(s string) {
	ptr, length := stringArg(s)
	rawLogNewUTF8Str(ptr, length)
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
