package provider

import (
	"github.com/wippyai/function-runtime/nanbox"
)

// InputGet returns the NaN-boxed root of the input document.
func (c *Context) InputGet() uint64 {
	return c.boxRef(c.doc.root)
}

// boxRef encodes a node reference into its wire word.
func (c *Context) boxRef(ref uint32) uint64 {
	n, ok := c.doc.node(ref)
	if !ok {
		return nanbox.Error(nanbox.ErrRead)
	}
	switch n.kind {
	case nodeNull:
		return nanbox.Null()
	case nodeBool:
		return nanbox.Bool(n.b)
	case nodeNumber:
		// the document never holds NaN, ingestion rejects it
		w, err := nanbox.Number(n.num)
		if err != nil {
			return nanbox.Error(nanbox.ErrRead)
		}
		return w
	case nodeString:
		return nanbox.String(ref, uint32(len(n.str)))
	case nodeObject:
		return nanbox.Object(ref, uint32(len(n.keyRefs)))
	case nodeArray:
		return nanbox.Array(ref, uint32(len(n.elemRefs)))
	default:
		return nanbox.Error(nanbox.ErrRead)
	}
}

// InputGetValLen returns the byte length of a string or the entry count of
// a container. Every other word, malformed ones included, has length zero.
func (c *Context) InputGetValLen(val uint64) uint32 {
	ref, err := nanbox.Decode(val)
	if err != nil {
		return 0
	}
	switch ref.Tag {
	case nanbox.TagString:
		n, ok := c.doc.node(ref.Ptr)
		if !ok || n.kind != nodeString {
			return 0
		}
		return uint32(len(n.str))
	case nanbox.TagObject:
		n, ok := c.doc.node(ref.Ptr)
		if !ok || n.kind != nodeObject {
			return 0
		}
		return uint32(len(n.keyRefs))
	case nanbox.TagArray:
		n, ok := c.doc.node(ref.Ptr)
		if !ok || n.kind != nodeArray {
			return 0
		}
		return uint32(len(n.elemRefs))
	default:
		return 0
	}
}

// InputReadUTF8Str returns up to length bytes of the string referenced by
// ptr. The second result is false when ptr does not reference a string.
func (c *Context) InputReadUTF8Str(ptr, length uint32) ([]byte, bool) {
	n, ok := c.doc.node(ptr)
	if !ok || n.kind != nodeString {
		return nil, false
	}
	if int(length) > len(n.str) {
		length = uint32(len(n.str))
	}
	return []byte(n.str[:length]), true
}

// InputGetObjProp looks a property up by name. A missing property is Null;
// a non-object receiver is a NotAnObject error word.
func (c *Context) InputGetObjProp(val uint64, name string) uint64 {
	n, errWord := c.objectNode(val)
	if n == nil {
		return errWord
	}
	ref, ok := c.doc.propIndex(n, name)
	if !ok {
		return nanbox.Null()
	}
	return c.boxRef(ref)
}

// InputGetInternedObjProp looks a property up by interned name identifier.
func (c *Context) InputGetInternedObjProp(val uint64, id uint32) uint64 {
	name, ok := c.interner.lookup(id)
	if !ok {
		return nanbox.Error(nanbox.ErrRead)
	}
	return c.InputGetObjProp(val, name)
}

// InputGetAtIndex returns the index-th element of an array, or the index-th
// entry value of an object. Scalars are not indexable.
func (c *Context) InputGetAtIndex(val uint64, index uint32) uint64 {
	ref, err := nanbox.Decode(val)
	if err != nil {
		return nanbox.Error(nanbox.ErrDecode)
	}
	switch ref.Tag {
	case nanbox.TagArray:
		n, ok := c.doc.node(ref.Ptr)
		if !ok || n.kind != nodeArray {
			return nanbox.Error(nanbox.ErrRead)
		}
		if int(index) >= len(n.elemRefs) {
			return nanbox.Error(nanbox.ErrIndexOutOfBounds)
		}
		return c.boxRef(n.elemRefs[index])
	case nanbox.TagObject:
		n, ok := c.doc.node(ref.Ptr)
		if !ok || n.kind != nodeObject {
			return nanbox.Error(nanbox.ErrRead)
		}
		if int(index) >= len(n.valRefs) {
			return nanbox.Error(nanbox.ErrIndexOutOfBounds)
		}
		return c.boxRef(n.valRefs[index])
	default:
		return nanbox.Error(nanbox.ErrNotIndexable)
	}
}

// InputGetObjKeyAtIndex returns the index-th key of an object as a string
// word.
func (c *Context) InputGetObjKeyAtIndex(val uint64, index uint32) uint64 {
	n, errWord := c.objectNode(val)
	if n == nil {
		return errWord
	}
	if int(index) >= len(n.keyRefs) {
		return nanbox.Error(nanbox.ErrIndexOutOfBounds)
	}
	return c.boxRef(n.keyRefs[index])
}

func (c *Context) objectNode(val uint64) (*node, uint64) {
	ref, err := nanbox.Decode(val)
	if err != nil {
		return nil, nanbox.Error(nanbox.ErrDecode)
	}
	if ref.Tag != nanbox.TagObject {
		return nil, nanbox.Error(nanbox.ErrNotAnObject)
	}
	n, ok := c.doc.node(ref.Ptr)
	if !ok || n.kind != nodeObject {
		return nil, nanbox.Error(nanbox.ErrRead)
	}
	return n, nanbox.Null()
}
