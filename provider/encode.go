package provider

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/function-runtime/errors"
)

// Finalize returns the sealed output encoded as msgpack.
func (c *Context) Finalize() ([]byte, error) {
	if !c.out.finalized {
		return nil, errors.New(errors.PhaseWrite, errors.KindValueNotFinished).
			Detail("output was not finalized").
			Build()
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeMsgpack(enc, c.out.root); err != nil {
		return nil, errors.Wrap(errors.PhaseWrite, errors.KindIO, err, "encode output msgpack")
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, n *outNode) error {
	switch n.kind {
	case outNull:
		return enc.EncodeNil()
	case outBool:
		return enc.EncodeBool(n.b)
	case outInt:
		return enc.EncodeInt(int64(n.i))
	case outFloat:
		return enc.EncodeFloat64(n.f)
	case outString:
		return enc.EncodeString(n.s)
	case outObject:
		if err := enc.EncodeMapLen(len(n.children)); err != nil {
			return err
		}
		for i, child := range n.children {
			if err := enc.EncodeString(n.keys[i]); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, child); err != nil {
				return err
			}
		}
		return nil
	case outArray:
		if err := enc.EncodeArrayLen(len(n.children)); err != nil {
			return err
		}
		for _, child := range n.children {
			if err := encodeMsgpack(enc, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.InvalidData(errors.PhaseWrite, nil, "unknown output node kind")
	}
}

// FinalizeJSON returns the sealed output encoded as JSON, object entries in
// write order.
func (c *Context) FinalizeJSON() ([]byte, error) {
	if !c.out.finalized {
		return nil, errors.New(errors.PhaseWrite, errors.KindValueNotFinished).
			Detail("output was not finalized").
			Build()
	}
	stream := jsonConfig.BorrowStream(nil)
	defer jsonConfig.ReturnStream(stream)

	writeJSON(stream, c.out.root)
	if stream.Error != nil {
		return nil, errors.Wrap(errors.PhaseWrite, errors.KindIO, stream.Error, "encode output JSON")
	}
	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

func writeJSON(stream *jsoniter.Stream, n *outNode) {
	switch n.kind {
	case outNull:
		stream.WriteNil()
	case outBool:
		stream.WriteBool(n.b)
	case outInt:
		stream.WriteInt32(n.i)
	case outFloat:
		stream.WriteFloat64(n.f)
	case outString:
		stream.WriteString(n.s)
	case outObject:
		stream.WriteObjectStart()
		for i, child := range n.children {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(n.keys[i])
			writeJSON(stream, child)
		}
		stream.WriteObjectEnd()
	case outArray:
		stream.WriteArrayStart()
		for i, child := range n.children {
			if i > 0 {
				stream.WriteMore()
			}
			writeJSON(stream, child)
		}
		stream.WriteArrayEnd()
	}
}
