// Package nanbox implements the 64-bit NaN-boxed value encoding shared by
// guest and host.
//
// Any word whose quiet-NaN prefix is not fully set is a plain float64 and
// carries its IEEE-754 bits verbatim. Tagged words set the prefix and pack a
// 4-bit tag, a 14-bit inline length, and a 32-bit payload:
//
//	63........50 49..46 45.......32 31........0
//	quiet-NaN     tag    length      payload
//
// Because every tagged word is itself a NaN, real NaN numbers cannot travel
// through the untagged path; Number rejects them at encode time.
package nanbox

import (
	"fmt"
	"math"
)

const (
	// NaNMask is the quiet-NaN prefix every tagged word carries.
	NaNMask uint64 = 0x7FFC_0000_0000_0000

	tagShift = 46
	tagBits  = 0xF
	lenShift = 32
	lenBits  = 0x3FFF
	ptrBits  = 0xFFFF_FFFF

	// MaxInlineLength is the largest length representable in the length
	// field. It doubles as a sentinel: a container or string whose length
	// reads as MaxInlineLength may be longer, and the true length must be
	// fetched from the host.
	MaxInlineLength uint32 = lenBits
)

// Tag identifies the variant of a tagged word.
type Tag uint8

const (
	TagNull   Tag = 0
	TagBool   Tag = 1
	TagNumber Tag = 2 // reserved, never produced by the tagged path
	TagString Tag = 3
	TagObject Tag = 4
	TagArray  Tag = 5
	TagError  Tag = 15
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagObject:
		return "object"
	case TagArray:
		return "array"
	case TagError:
		return "error"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// ErrorCode is the payload of an Error-tagged word. The host answers
// malformed or mistyped read requests with one of these instead of trapping.
type ErrorCode uint32

const (
	ErrDecode               ErrorCode = 0
	ErrNotAnObject          ErrorCode = 1
	ErrByteArrayOutOfBounds ErrorCode = 2
	ErrRead                 ErrorCode = 3
	ErrNotAnArray           ErrorCode = 4
	ErrIndexOutOfBounds     ErrorCode = 5
	ErrNotIndexable         ErrorCode = 6

	// ErrUnknown stands in for any code this build does not know about, so
	// a newer host cannot crash an older guest.
	ErrUnknown ErrorCode = 0xFFFF_FFFF
)

func (c ErrorCode) String() string {
	switch c {
	case ErrDecode:
		return "decode error"
	case ErrNotAnObject:
		return "not an object"
	case ErrByteArrayOutOfBounds:
		return "byte array out of bounds"
	case ErrRead:
		return "read error"
	case ErrNotAnArray:
		return "not an array"
	case ErrIndexOutOfBounds:
		return "index out of bounds"
	case ErrNotIndexable:
		return "not indexable"
	default:
		return "unknown error"
	}
}

// knownErrorCode narrows a raw payload to the closed code set.
func knownErrorCode(raw uint32) ErrorCode {
	if raw <= uint32(ErrNotIndexable) {
		return ErrorCode(raw)
	}
	return ErrUnknown
}

// ValueRef is the decoded view of one word. Exactly the fields implied by
// Tag are meaningful: Bool for TagBool, Number for TagNumber, Len and Ptr
// for TagString/TagObject/TagArray, Err for TagError.
type ValueRef struct {
	Tag    Tag
	Bool   bool
	Number float64
	Len    uint32
	Ptr    uint32
	Err    ErrorCode
}

// Decode splits a raw word into its variant. Words without the quiet-NaN
// prefix decode as numbers; tagged words with an unassigned tag (including
// the reserved number tag) are a decode error.
func Decode(bits uint64) (ValueRef, error) {
	if bits&NaNMask != NaNMask {
		return ValueRef{Tag: TagNumber, Number: math.Float64frombits(bits)}, nil
	}
	tag := Tag(bits >> tagShift & tagBits)
	switch tag {
	case TagNull:
		return ValueRef{Tag: TagNull}, nil
	case TagBool:
		return ValueRef{Tag: TagBool, Bool: bits&ptrBits != 0}, nil
	case TagString, TagObject, TagArray:
		return ValueRef{
			Tag: tag,
			Len: uint32(bits >> lenShift & lenBits),
			Ptr: uint32(bits & ptrBits),
		}, nil
	case TagError:
		return ValueRef{Tag: TagError, Err: knownErrorCode(uint32(bits & ptrBits))}, nil
	default:
		return ValueRef{}, fmt.Errorf("nanbox: cannot decode word with tag %d", tag)
	}
}

func tagged(tag Tag, length, ptr uint32) uint64 {
	if length > MaxInlineLength {
		length = MaxInlineLength
	}
	return NaNMask |
		uint64(tag)<<tagShift |
		uint64(length)<<lenShift |
		uint64(ptr)
}

// Null returns the encoded null word.
func Null() uint64 { return tagged(TagNull, 0, 0) }

// Bool encodes a boolean.
func Bool(v bool) uint64 {
	var payload uint32
	if v {
		payload = 1
	}
	return tagged(TagBool, 0, payload)
}

// Number encodes a float64 as its raw bits. NaN is not encodable: its bit
// patterns collide with the tagged space.
func Number(f float64) (uint64, error) {
	if math.IsNaN(f) {
		return 0, fmt.Errorf("nanbox: NaN is not an encodable number")
	}
	return math.Float64bits(f), nil
}

// String encodes a string reference. Lengths past MaxInlineLength are
// clamped to the sentinel; the reader resolves the true length out of band.
func String(ptr, length uint32) uint64 { return tagged(TagString, length, ptr) }

// Object encodes an object reference with its entry count.
func Object(ptr, length uint32) uint64 { return tagged(TagObject, length, ptr) }

// Array encodes an array reference with its element count.
func Array(ptr, length uint32) uint64 { return tagged(TagArray, length, ptr) }

// Error encodes a read error code.
func Error(code ErrorCode) uint64 { return tagged(TagError, 0, uint32(code)) }
