package api

import (
	"github.com/wippyai/function-runtime/nanbox"
)

// Kind reuses the wire tag set: KindNull, KindBool, KindNumber, KindString,
// KindObject, KindArray, KindError.
type Kind = nanbox.Tag

const (
	KindNull   = nanbox.TagNull
	KindBool   = nanbox.TagBool
	KindNumber = nanbox.TagNumber
	KindString = nanbox.TagString
	KindObject = nanbox.TagObject
	KindArray  = nanbox.TagArray
	KindError  = nanbox.TagError
)

// Value is a handle on one input value. It is a plain 16-byte pair and is
// copied freely; all content stays host-side until an accessor asks for it.
type Value struct {
	ctx  *Context
	word uint64
}

func (v Value) decode() (nanbox.ValueRef, bool) {
	ref, err := nanbox.Decode(v.word)
	if err != nil {
		return nanbox.ValueRef{Tag: nanbox.TagError, Err: nanbox.ErrDecode}, false
	}
	return ref, true
}

// Kind reports the value's variant. Undecodable words report KindError.
func (v Value) Kind() Kind {
	ref, _ := v.decode()
	return ref.Tag
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// AsBool returns the boolean content, with ok false on any other kind.
func (v Value) AsBool() (value, ok bool) {
	ref, valid := v.decode()
	if !valid || ref.Tag != nanbox.TagBool {
		return false, false
	}
	return ref.Bool, true
}

// AsNumber returns the numeric content, with ok false on any other kind.
func (v Value) AsNumber() (float64, bool) {
	ref, valid := v.decode()
	if !valid || ref.Tag != nanbox.TagNumber {
		return 0, false
	}
	return ref.Number, true
}

// AsString materializes the string content, with ok false on any other
// kind.
func (v Value) AsString() (string, bool) {
	ref, valid := v.decode()
	if !valid || ref.Tag != nanbox.TagString {
		return "", false
	}
	data := v.ctx.host.inputReadUTF8Str(ref.Ptr, v.stringLen(ref))
	if data == nil {
		return "", false
	}
	return string(data), true
}

// ReadString copies the string content into buf and returns the number of
// bytes copied. Use Len to size buf; shorter buffers receive a prefix.
func (v Value) ReadString(buf []byte) (int, bool) {
	ref, valid := v.decode()
	if !valid || ref.Tag != nanbox.TagString {
		return 0, false
	}
	length := v.stringLen(ref)
	if int(length) > len(buf) {
		length = uint32(len(buf))
	}
	data := v.ctx.host.inputReadUTF8Str(ref.Ptr, length)
	if data == nil {
		return 0, false
	}
	return copy(buf, data), true
}

func (v Value) stringLen(ref nanbox.ValueRef) uint32 {
	if ref.Len < nanbox.MaxInlineLength {
		return ref.Len
	}
	// at the sentinel the inline field is a floor, ask the host
	return v.ctx.host.inputGetValLen(v.word)
}

// Len returns the byte length of a string or the entry count of a
// container; every other kind has length zero. Lengths at the inline
// sentinel are resolved with one host call.
func (v Value) Len() uint32 {
	ref, valid := v.decode()
	if !valid {
		return 0
	}
	switch ref.Tag {
	case nanbox.TagString, nanbox.TagObject, nanbox.TagArray:
		return v.stringLen(ref)
	default:
		return 0
	}
}

// GetProp returns the named property of an object. Missing properties are
// null; non-objects yield an Error-kind value.
func (v Value) GetProp(name string) Value {
	return Value{ctx: v.ctx, word: v.ctx.host.inputGetObjProp(v.word, name)}
}

// GetInternedProp is GetProp with an interned property name, saving the
// name transfer on hot paths.
func (v Value) GetInternedProp(id InternedStringID) Value {
	return Value{ctx: v.ctx, word: v.ctx.host.inputGetInternedObjProp(v.word, id)}
}

// GetAtIndex returns the index-th element of an array, or the index-th
// entry value of an object.
func (v Value) GetAtIndex(index uint32) Value {
	return Value{ctx: v.ctx, word: v.ctx.host.inputGetAtIndex(v.word, index)}
}

// GetKeyAtIndex returns the index-th key of an object as a string value.
func (v Value) GetKeyAtIndex(index uint32) Value {
	return Value{ctx: v.ctx, word: v.ctx.host.inputGetObjKeyAtIndex(v.word, index)}
}

// AsError returns the read error code carried by an Error-kind value.
func (v Value) AsError() (nanbox.ErrorCode, bool) {
	ref, _ := v.decode()
	if ref.Tag != nanbox.TagError {
		return 0, false
	}
	return ref.Err, true
}
