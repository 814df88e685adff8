package api

import (
	"github.com/wippyai/function-runtime/abi"
	"github.com/wippyai/function-runtime/errors"
)

func checkStatus(op string, status abi.WriteStatus) error {
	if status == abi.WriteOK {
		return nil
	}
	return errors.WriteFailed(op, status)
}

// WriteBool appends a boolean to the output.
func (c *Context) WriteBool(v bool) error {
	return checkStatus("write_bool", c.host.outputNewBool(v))
}

// WriteNull appends a null to the output.
func (c *Context) WriteNull() error {
	return checkStatus("write_null", c.host.outputNewNull())
}

// WriteInt32 appends a 32-bit integer to the output.
func (c *Context) WriteInt32(v int32) error {
	return checkStatus("write_i32", c.host.outputNewI32(v))
}

// WriteFloat64 appends a float to the output.
func (c *Context) WriteFloat64(v float64) error {
	return checkStatus("write_f64", c.host.outputNewF64(v))
}

// WriteString appends a string. Inside an object, strings alternate between
// key and value roles.
func (c *Context) WriteString(s string) error {
	return checkStatus("write_string", c.host.outputNewUTF8Str(s))
}

// WriteInternedString appends a previously interned string, key or value.
func (c *Context) WriteInternedString(id InternedStringID) error {
	return checkStatus("write_interned_string", c.host.outputNewInternedUTF8Str(id))
}

// WriteObject opens an object of exactly length entries, runs fill, and
// closes it. fill must write length alternating key/value pairs.
func (c *Context) WriteObject(length int, fill func() error) error {
	if err := checkStatus("write_object", c.host.outputNewObject(uint32(length))); err != nil {
		return err
	}
	if err := fill(); err != nil {
		return err
	}
	return checkStatus("finish_object", c.host.outputFinishObject())
}

// WriteArray opens an array of exactly length elements, runs fill, and
// closes it.
func (c *Context) WriteArray(length int, fill func() error) error {
	if err := checkStatus("write_array", c.host.outputNewArray(uint32(length))); err != nil {
		return err
	}
	if err := fill(); err != nil {
		return err
	}
	return checkStatus("finish_array", c.host.outputFinishArray())
}

// Finalize seals the output. Exactly one complete root value must have been
// written.
func (c *Context) Finalize() error {
	return checkStatus("finalize", c.host.outputFinalize())
}
