package provider

// stringInterner stores registered strings in one append-only backing
// buffer. Identifiers are positional: interning the same content twice
// yields two distinct identifiers, and an identifier stays valid for the
// lifetime of its context.
type stringInterner struct {
	buf   []byte
	spans []span
}

type span struct {
	offset uint32
	length uint32
}

// intern registers s and returns its identifier.
func (si *stringInterner) intern(s string) uint32 {
	si.spans = append(si.spans, span{
		offset: uint32(len(si.buf)),
		length: uint32(len(s)),
	})
	si.buf = append(si.buf, s...)
	return uint32(len(si.spans) - 1)
}

// lookup resolves an identifier back to its string.
func (si *stringInterner) lookup(id uint32) (string, bool) {
	if int(id) >= len(si.spans) {
		return "", false
	}
	sp := si.spans[id]
	return string(si.buf[sp.offset : sp.offset+sp.length]), true
}

func (si *stringInterner) size() int {
	return len(si.spans)
}
