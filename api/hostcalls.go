package api

import (
	"github.com/wippyai/function-runtime/abi"
)

// hostCalls is the full operation set a Context needs from its host. The
// native binding wraps a provider.Context; wasip1 builds satisfy it with
// the imports of the revision selected at build time.
type hostCalls interface {
	inputGet() uint64
	inputGetValLen(val uint64) uint32
	inputReadUTF8Str(ptr, length uint32) []byte
	inputGetObjProp(val uint64, name string) uint64
	inputGetInternedObjProp(val uint64, id uint32) uint64
	inputGetAtIndex(val uint64, index uint32) uint64
	inputGetObjKeyAtIndex(val uint64, index uint32) uint64

	outputNewBool(v bool) abi.WriteStatus
	outputNewNull() abi.WriteStatus
	outputNewI32(v int32) abi.WriteStatus
	outputNewF64(v float64) abi.WriteStatus
	outputNewUTF8Str(s string) abi.WriteStatus
	outputNewInternedUTF8Str(id uint32) abi.WriteStatus
	outputNewObject(length uint32) abi.WriteStatus
	outputFinishObject() abi.WriteStatus
	outputNewArray(length uint32) abi.WriteStatus
	outputFinishArray() abi.WriteStatus
	outputFinalize() abi.WriteStatus

	internUTF8Str(s string) uint32
	logNewUTF8Str(s string)
}
