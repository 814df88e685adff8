package provider

// Context owns all host-side state for one invocation: the parsed input
// document, the string interner, the output builder, and collected log
// lines.
type Context struct {
	doc      *document
	interner stringInterner
	out      outputBuilder
	logs     []string
}

// NewContext parses a JSON input payload.
func NewContext(input []byte) (*Context, error) {
	doc, err := parseJSON(input)
	if err != nil {
		return nil, err
	}
	return &Context{doc: doc}, nil
}

// NewContextFromMsgpack parses a msgpack input payload.
func NewContextFromMsgpack(input []byte) (*Context, error) {
	doc, err := parseMsgpack(input)
	if err != nil {
		return nil, err
	}
	return &Context{doc: doc}, nil
}

// NewContextFromValue builds a context from a plain Go value. Object keys
// are sorted for determinism.
func NewContextFromValue(v any) (*Context, error) {
	doc, err := fromGoValue(v)
	if err != nil {
		return nil, err
	}
	return &Context{doc: doc}, nil
}

// InternUTF8Str registers a string and returns its identifier. Interning
// never deduplicates: each call yields a fresh identifier.
func (c *Context) InternUTF8Str(s string) uint32 {
	return c.interner.intern(s)
}

// InternedString resolves an interned identifier.
func (c *Context) InternedString(id uint32) (string, bool) {
	return c.interner.lookup(id)
}

// LogUTF8Str appends one log line emitted by the function.
func (c *Context) LogUTF8Str(msg string) {
	c.logs = append(c.logs, msg)
}

// Logs returns the log lines collected so far, in emission order.
func (c *Context) Logs() []string {
	return c.logs
}
