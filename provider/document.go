package provider

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/wippyai/function-runtime/errors"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

type nodeKind uint8

const (
	nodeNull nodeKind = iota
	nodeBool
	nodeNumber
	nodeString
	nodeObject
	nodeArray
)

// node is one value in the input document. Containers hold references into
// the same arena; object keys are interned as string nodes so they can be
// handed to the guest by reference.
type node struct {
	kind nodeKind
	b    bool
	num  float64
	str  string

	// object entries in insertion order; keyRefs point at string nodes
	keyRefs []uint32
	valRefs []uint32
	// lazily built on first by-name lookup
	index map[string]uint32

	// array elements
	elemRefs []uint32
}

// document is the arena of input nodes. References are plain indexes; the
// arena is append-only so a reference stays valid for the whole invocation.
type document struct {
	nodes []node
	root  uint32
}

func (d *document) add(n node) uint32 {
	d.nodes = append(d.nodes, n)
	return uint32(len(d.nodes) - 1)
}

func (d *document) node(ref uint32) (*node, bool) {
	if int(ref) >= len(d.nodes) {
		return nil, false
	}
	return &d.nodes[ref], true
}

func parseJSON(data []byte) (*document, error) {
	doc := &document{}
	iter := jsoniter.ParseBytes(jsonConfig, data)
	root, err := doc.readJSON(iter)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "parse input JSON")
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, iter.Error, "parse input JSON")
	}
	doc.root = root
	return doc, nil
}

func (d *document) readJSON(iter *jsoniter.Iterator) (uint32, error) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return d.add(node{kind: nodeNull}), nil
	case jsoniter.BoolValue:
		return d.add(node{kind: nodeBool, b: iter.ReadBool()}), nil
	case jsoniter.NumberValue:
		return d.add(node{kind: nodeNumber, num: iter.ReadFloat64()}), nil
	case jsoniter.StringValue:
		return d.add(node{kind: nodeString, str: iter.ReadString()}), nil
	case jsoniter.ArrayValue:
		var elems []uint32
		var readErr error
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			ref, err := d.readJSON(it)
			if err != nil {
				readErr = err
				return false
			}
			elems = append(elems, ref)
			return true
		})
		if readErr != nil {
			return 0, readErr
		}
		return d.add(node{kind: nodeArray, elemRefs: elems}), nil
	case jsoniter.ObjectValue:
		var keys, vals []uint32
		var readErr error
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			keyRef := d.add(node{kind: nodeString, str: key})
			valRef, err := d.readJSON(it)
			if err != nil {
				readErr = err
				return false
			}
			keys = append(keys, keyRef)
			vals = append(vals, valRef)
			return true
		})
		if readErr != nil {
			return 0, readErr
		}
		return d.add(node{kind: nodeObject, keyRefs: keys, valRefs: vals}), nil
	default:
		if iter.Error != nil {
			return 0, iter.Error
		}
		return 0, fmt.Errorf("unexpected JSON token")
	}
}

func parseMsgpack(data []byte) (*document, error) {
	doc := &document{}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	root, err := doc.readMsgpack(dec)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "parse input msgpack")
	}
	doc.root = root
	return doc, nil
}

func (d *document) readMsgpack(dec *msgpack.Decoder) (uint32, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return 0, err
	}

	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return 0, err
		}
		return d.add(node{kind: nodeNull}), nil

	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return 0, err
		}
		return d.add(node{kind: nodeBool, b: b}), nil

	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return 0, err
		}
		return d.add(node{kind: nodeString, str: s}), nil

	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return 0, err
		}
		keys := make([]uint32, 0, n)
		vals := make([]uint32, 0, n)
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return 0, err
			}
			valRef, err := d.readMsgpack(dec)
			if err != nil {
				return 0, err
			}
			keys = append(keys, d.add(node{kind: nodeString, str: key}))
			vals = append(vals, valRef)
		}
		return d.add(node{kind: nodeObject, keyRefs: keys, valRefs: vals}), nil

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return 0, err
		}
		elems := make([]uint32, 0, n)
		for i := 0; i < n; i++ {
			ref, err := d.readMsgpack(dec)
			if err != nil {
				return 0, err
			}
			elems = append(elems, ref)
		}
		return d.add(node{kind: nodeArray, elemRefs: elems}), nil

	default:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) {
			return 0, fmt.Errorf("NaN is not representable")
		}
		return d.add(node{kind: nodeNumber, num: f}), nil
	}
}

// fromGoValue builds a document from a plain Go value. Map keys are sorted
// so object entry order is deterministic. Intended for tests and native
// examples; wire inputs go through parseJSON/parseMsgpack.
func fromGoValue(v any) (*document, error) {
	doc := &document{}
	root, err := doc.readGoValue(v)
	if err != nil {
		return nil, err
	}
	doc.root = root
	return doc, nil
}

func (d *document) readGoValue(v any) (uint32, error) {
	switch val := v.(type) {
	case nil:
		return d.add(node{kind: nodeNull}), nil
	case bool:
		return d.add(node{kind: nodeBool, b: val}), nil
	case int:
		return d.add(node{kind: nodeNumber, num: float64(val)}), nil
	case int32:
		return d.add(node{kind: nodeNumber, num: float64(val)}), nil
	case int64:
		return d.add(node{kind: nodeNumber, num: float64(val)}), nil
	case float64:
		if math.IsNaN(val) {
			return 0, errors.InvalidData(errors.PhaseLoad, nil, "NaN is not representable")
		}
		return d.add(node{kind: nodeNumber, num: val}), nil
	case string:
		return d.add(node{kind: nodeString, str: val}), nil
	case []any:
		elems := make([]uint32, 0, len(val))
		for _, e := range val {
			ref, err := d.readGoValue(e)
			if err != nil {
				return 0, err
			}
			elems = append(elems, ref)
		}
		return d.add(node{kind: nodeArray, elemRefs: elems}), nil
	case map[string]any:
		names := make([]string, 0, len(val))
		for k := range val {
			names = append(names, k)
		}
		sort.Strings(names)
		keys := make([]uint32, 0, len(names))
		vals := make([]uint32, 0, len(names))
		for _, k := range names {
			valRef, err := d.readGoValue(val[k])
			if err != nil {
				return 0, err
			}
			keys = append(keys, d.add(node{kind: nodeString, str: k}))
			vals = append(vals, valRef)
		}
		return d.add(node{kind: nodeObject, keyRefs: keys, valRefs: vals}), nil
	default:
		return 0, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			GoType(fmt.Sprintf("%T", v)).
			Detail("cannot build input value").
			Build()
	}
}

// propIndex returns the value reference for a key, building the by-name
// index on first use.
func (d *document) propIndex(n *node, name string) (uint32, bool) {
	if n.index == nil {
		n.index = make(map[string]uint32, len(n.keyRefs))
		for i, keyRef := range n.keyRefs {
			key := d.nodes[keyRef].str
			if _, dup := n.index[key]; !dup {
				n.index[key] = n.valRefs[i]
			}
		}
	}
	ref, ok := n.index[name]
	return ref, ok
}
