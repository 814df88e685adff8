package provider

import (
	"github.com/wippyai/function-runtime/abi"
)

type outKind uint8

const (
	outNull outKind = iota
	outBool
	outInt
	outFloat
	outString
	outObject
	outArray
)

// outNode is one value of the output tree. Containers keep their children
// in write order; object keys live alongside the children slice.
type outNode struct {
	kind     outKind
	b        bool
	i        int32
	f        float64
	s        string
	keys     []string
	children []*outNode
}

// frame tracks one open container. numInserted counts keys and values
// separately for objects, so a balanced object holds length*2 insertions.
type frame struct {
	node        *outNode
	isObject    bool
	length      uint32
	numInserted uint32
	pendingKey  string
}

// outputBuilder enforces the write protocol: exactly one root value, keys
// strictly alternating with values inside objects, declared arity matched
// exactly, nothing written after the root completes.
type outputBuilder struct {
	root      *outNode
	stack     []frame
	done      bool
	finalized bool
}

func (b *outputBuilder) top() *frame {
	return &b.stack[len(b.stack)-1]
}

// writeString handles both object keys and string values: inside an object
// the insertion parity decides which one this is.
func (b *outputBuilder) writeString(s string) abi.WriteStatus {
	if b.done {
		return abi.WriteValueAlreadyWritten
	}
	if len(b.stack) == 0 {
		b.root = &outNode{kind: outString, s: s}
		b.done = true
		return abi.WriteOK
	}
	t := b.top()
	if t.isObject {
		if t.numInserted%2 == 0 {
			if t.numInserted/2 >= t.length {
				return abi.WriteObjectLengthError
			}
			t.pendingKey = s
			t.numInserted++
			return abi.WriteOK
		}
		t.node.keys = append(t.node.keys, t.pendingKey)
		t.node.children = append(t.node.children, &outNode{kind: outString, s: s})
		t.numInserted++
		return abi.WriteOK
	}
	if t.numInserted >= t.length {
		return abi.WriteArrayLengthError
	}
	t.node.children = append(t.node.children, &outNode{kind: outString, s: s})
	t.numInserted++
	return abi.WriteOK
}

// writeValue handles every non-string leaf. Inside an object it is only
// legal at a value position.
func (b *outputBuilder) writeValue(n *outNode) abi.WriteStatus {
	if b.done {
		return abi.WriteValueAlreadyWritten
	}
	if len(b.stack) == 0 {
		b.root = n
		b.done = true
		return abi.WriteOK
	}
	t := b.top()
	if t.isObject {
		if t.numInserted%2 == 0 {
			return abi.WriteExpectedKey
		}
		t.node.keys = append(t.node.keys, t.pendingKey)
		t.node.children = append(t.node.children, n)
		t.numInserted++
		return abi.WriteOK
	}
	if t.numInserted >= t.length {
		return abi.WriteArrayLengthError
	}
	t.node.children = append(t.node.children, n)
	t.numInserted++
	return abi.WriteOK
}

// openContainer places the container like a non-string value, then makes it
// the innermost open frame.
func (b *outputBuilder) openContainer(n *outNode, isObject bool, length uint32) abi.WriteStatus {
	if b.done {
		return abi.WriteValueAlreadyWritten
	}
	if len(b.stack) == 0 {
		b.root = n
	} else {
		t := b.top()
		if t.isObject {
			if t.numInserted%2 == 0 {
				return abi.WriteExpectedKey
			}
			t.node.keys = append(t.node.keys, t.pendingKey)
			t.node.children = append(t.node.children, n)
			t.numInserted++
		} else {
			if t.numInserted >= t.length {
				return abi.WriteArrayLengthError
			}
			t.node.children = append(t.node.children, n)
			t.numInserted++
		}
	}
	b.stack = append(b.stack, frame{node: n, isObject: isObject, length: length})
	return abi.WriteOK
}

// finishObject reports NotAnObject whenever no object is open, including
// after the root completes.
func (b *outputBuilder) finishObject() abi.WriteStatus {
	if len(b.stack) == 0 {
		return abi.WriteNotAnObject
	}
	t := b.top()
	if !t.isObject {
		return abi.WriteNotAnObject
	}
	if t.numInserted != t.length*2 {
		return abi.WriteObjectLengthError
	}
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		b.done = true
	}
	return abi.WriteOK
}

func (b *outputBuilder) finishArray() abi.WriteStatus {
	if len(b.stack) == 0 {
		return abi.WriteNotAnArray
	}
	t := b.top()
	if t.isObject {
		return abi.WriteNotAnArray
	}
	if t.numInserted != t.length {
		return abi.WriteArrayLengthError
	}
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		b.done = true
	}
	return abi.WriteOK
}

func (b *outputBuilder) finalize() abi.WriteStatus {
	if !b.done {
		return abi.WriteValueNotFinished
	}
	b.finalized = true
	return abi.WriteOK
}

// Output operations exposed to the guest.

// OutputNewBool appends a boolean.
func (c *Context) OutputNewBool(v bool) abi.WriteStatus {
	return c.out.writeValue(&outNode{kind: outBool, b: v})
}

// OutputNewNull appends a null.
func (c *Context) OutputNewNull() abi.WriteStatus {
	return c.out.writeValue(&outNode{kind: outNull})
}

// OutputNewI32 appends a 32-bit integer.
func (c *Context) OutputNewI32(v int32) abi.WriteStatus {
	return c.out.writeValue(&outNode{kind: outInt, i: v})
}

// OutputNewF64 appends a float.
func (c *Context) OutputNewF64(v float64) abi.WriteStatus {
	return c.out.writeValue(&outNode{kind: outFloat, f: v})
}

// OutputNewUTF8Str appends a string, serving as a key when the innermost
// open container is an object awaiting one.
func (c *Context) OutputNewUTF8Str(s string) abi.WriteStatus {
	return c.out.writeString(s)
}

// OutputNewInternedUTF8Str appends a previously interned string.
func (c *Context) OutputNewInternedUTF8Str(id uint32) abi.WriteStatus {
	s, ok := c.interner.lookup(id)
	if !ok {
		return abi.WriteIoError
	}
	return c.out.writeString(s)
}

// OutputNewObject opens an object that must receive exactly length entries.
func (c *Context) OutputNewObject(length uint32) abi.WriteStatus {
	return c.out.openContainer(&outNode{kind: outObject}, true, length)
}

// OutputFinishObject closes the innermost open object.
func (c *Context) OutputFinishObject() abi.WriteStatus {
	return c.out.finishObject()
}

// OutputNewArray opens an array that must receive exactly length elements.
func (c *Context) OutputNewArray(length uint32) abi.WriteStatus {
	return c.out.openContainer(&outNode{kind: outArray}, false, length)
}

// OutputFinishArray closes the innermost open array.
func (c *Context) OutputFinishArray() abi.WriteStatus {
	return c.out.finishArray()
}

// OutputFinalize seals the output. It fails with ValueNotFinished while the
// root value is absent or a container is still open.
func (c *Context) OutputFinalize() abi.WriteStatus {
	return c.out.finalize()
}
