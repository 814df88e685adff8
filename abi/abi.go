// Package abi holds the wire-level constants of the function value-exchange
// protocol: the import namespaces of each protocol revision, the host
// function names, and the closed set of write status codes.
//
// Guest and host never agree on anything beyond what is listed here; the
// NaN-box layout itself lives in the nanbox package.
package abi

// Protocol revisions. v1 carries an explicit context handle on every call;
// v2 binds one implicit context per instance. A guest imports exactly one
// of the two namespaces.
const (
	NamespaceV1 = "wippy_function_v1"
	NamespaceV2 = "wippy_function_v2"
)

// Host import names, shared by both revisions. v1 prepends a context handle
// parameter to every signature and additionally imports FuncContextNew.
const (
	FuncContextNew = "wippy_function_context_new"

	FuncInputGet                = "wippy_function_input_get"
	FuncInputGetValLen          = "wippy_function_input_get_val_len"
	FuncInputReadUTF8Str        = "wippy_function_input_read_utf8_str"
	FuncInputGetObjProp         = "wippy_function_input_get_obj_prop"
	FuncInputGetInternedObjProp = "wippy_function_input_get_interned_obj_prop"
	FuncInputGetAtIndex         = "wippy_function_input_get_at_index"
	FuncInputGetObjKeyAtIndex   = "wippy_function_input_get_obj_key_at_index"

	FuncOutputNewBool            = "wippy_function_output_new_bool"
	FuncOutputNewNull            = "wippy_function_output_new_null"
	FuncOutputNewI32             = "wippy_function_output_new_i32"
	FuncOutputNewF64             = "wippy_function_output_new_f64"
	FuncOutputNewUTF8Str         = "wippy_function_output_new_utf8_str"
	FuncOutputNewInternedUTF8Str = "wippy_function_output_new_interned_utf8_str"
	FuncOutputNewObject          = "wippy_function_output_new_object"
	FuncOutputFinishObject       = "wippy_function_output_finish_object"
	FuncOutputNewArray           = "wippy_function_output_new_array"
	FuncOutputFinishArray        = "wippy_function_output_finish_array"
	FuncOutputFinalize           = "wippy_function_output_finalize"

	FuncInternUTF8Str = "wippy_function_intern_utf8_str"
	FuncLogNewUTF8Str = "wippy_function_log_new_utf8_str"
)

// WriteStatus is the status code returned by every output call. The set is
// closed: hosts must not invent codes, and guests map unknown codes to a
// generic failure rather than panicking.
type WriteStatus uint32

const (
	WriteOK                  WriteStatus = 0
	WriteIoError             WriteStatus = 1
	WriteExpectedKey         WriteStatus = 2
	WriteObjectLengthError   WriteStatus = 3
	WriteValueAlreadyWritten WriteStatus = 4
	WriteNotAnObject         WriteStatus = 5
	WriteValueNotFinished    WriteStatus = 6
	WriteArrayLengthError    WriteStatus = 7
	WriteNotAnArray          WriteStatus = 8
)

func (s WriteStatus) String() string {
	switch s {
	case WriteOK:
		return "ok"
	case WriteIoError:
		return "io error"
	case WriteExpectedKey:
		return "expected key"
	case WriteObjectLengthError:
		return "object length error"
	case WriteValueAlreadyWritten:
		return "value already written"
	case WriteNotAnObject:
		return "not an object"
	case WriteValueNotFinished:
		return "value not finished"
	case WriteArrayLengthError:
		return "array length error"
	case WriteNotAnArray:
		return "not an array"
	default:
		return "unknown status"
	}
}
