package errors

import (
	"fmt"

	"github.com/wippyai/function-runtime/abi"
)

// statusKinds maps each write status to its error kind. WriteOK has no
// entry; successful calls never build an error.
var statusKinds = map[abi.WriteStatus]Kind{
	abi.WriteIoError:             KindIO,
	abi.WriteExpectedKey:         KindExpectedKey,
	abi.WriteObjectLengthError:   KindObjectLength,
	abi.WriteValueAlreadyWritten: KindValueAlreadyWritten,
	abi.WriteNotAnObject:         KindNotAnObject,
	abi.WriteValueNotFinished:    KindValueNotFinished,
	abi.WriteArrayLengthError:    KindArrayLength,
	abi.WriteNotAnArray:          KindNotAnArray,
}

// WriteFailed converts a non-success write status into a structured error.
// Statuses outside the known set map to KindUnknownStatus so a newer host
// cannot produce an unclassifiable failure.
func WriteFailed(op string, status abi.WriteStatus) *Error {
	kind, ok := statusKinds[status]
	if !ok {
		kind = KindUnknownStatus
	}
	return &Error{
		Phase:  PhaseWrite,
		Kind:   kind,
		Detail: fmt.Sprintf("%s: %s", op, status),
		Value:  status,
	}
}
