package api

// InternedStringID identifies a string registered with the host interner.
// Identifiers are positional and only meaningful within the context that
// issued them.
type InternedStringID = uint32

// Context is one invocation's connection to the host. It is not safe for
// concurrent use and must not outlive the invocation.
type Context struct {
	host hostCalls
}

// Input returns the root of the input document.
func (c *Context) Input() Value {
	return Value{ctx: c, word: c.host.inputGet()}
}

// InternUTF8Str registers s with the host interner and returns its
// identifier. Every call registers fresh, even for repeated content; cache
// the identifier (see CachedInternedStringID) instead of re-interning.
func (c *Context) InternUTF8Str(s string) InternedStringID {
	return c.host.internUTF8Str(s)
}

// Log sends one log line to the host.
func (c *Context) Log(msg string) {
	c.host.logNewUTF8Str(msg)
}

// CachedInternedStringID caches the interned identifier of one string
// constant. The identifier is scoped to a context, so the cache re-interns
// whenever it sees a different context than the one it cached for.
type CachedInternedStringID struct {
	value string
	ctx   *Context
	id    InternedStringID
}

// NewCachedInternedStringID prepares a cache for the given string constant.
func NewCachedInternedStringID(value string) *CachedInternedStringID {
	return &CachedInternedStringID{value: value}
}

// ID returns the interned identifier of the cached string for ctx,
// interning on first use per context.
func (c *CachedInternedStringID) ID(ctx *Context) InternedStringID {
	if c.ctx != ctx {
		c.id = ctx.InternUTF8Str(c.value)
		c.ctx = ctx
	}
	return c.id
}
