//go:build !wasip1

package api

import (
	"strings"
	"testing"

	"github.com/wippyai/function-runtime/nanbox"
	"github.com/wippyai/function-runtime/provider"
)

func newTestContext(t *testing.T, input string) (*Context, *provider.Context) {
	t.Helper()
	p, err := provider.NewContext([]byte(input))
	if err != nil {
		t.Fatalf("provider.NewContext returned error: %v", err)
	}
	return NewContext(p), p
}

func TestValueNavigation(t *testing.T) {
	ctx, _ := newTestContext(t, `{
		"cart": {
			"lines": [
				{"quantity": 2, "id": "line-1"},
				{"quantity": 5, "id": "line-2"}
			]
		},
		"enabled": false
	}`)

	input := ctx.Input()
	if input.Kind() != KindObject {
		t.Fatalf("input kind = %s, want object", input.Kind())
	}

	lines := input.GetProp("cart").GetProp("lines")
	if lines.Kind() != KindArray {
		t.Fatalf("lines kind = %s, want array", lines.Kind())
	}
	if lines.Len() != 2 {
		t.Errorf("lines len = %d, want 2", lines.Len())
	}

	qty, ok := lines.GetAtIndex(1).GetProp("quantity").AsNumber()
	if !ok || qty != 5 {
		t.Errorf("quantity = %v ok=%v, want 5", qty, ok)
	}

	id, ok := lines.GetAtIndex(0).GetProp("id").AsString()
	if !ok || id != "line-1" {
		t.Errorf("id = %q ok=%v, want line-1", id, ok)
	}

	enabled, ok := input.GetProp("enabled").AsBool()
	if !ok || enabled {
		t.Errorf("enabled = %v ok=%v, want false", enabled, ok)
	}

	if !input.GetProp("missing").IsNull() {
		t.Error("missing prop should be null")
	}
}

func TestValueKindMismatches(t *testing.T) {
	ctx, _ := newTestContext(t, `{"n": 1}`)
	input := ctx.Input()
	n := input.GetProp("n")

	if _, ok := n.AsBool(); ok {
		t.Error("AsBool on number should fail")
	}
	if _, ok := n.AsString(); ok {
		t.Error("AsString on number should fail")
	}
	if n.Len() != 0 {
		t.Errorf("number len = %d, want 0", n.Len())
	}

	errVal := n.GetProp("x")
	code, isErr := errVal.AsError()
	if !isErr || code != nanbox.ErrNotAnObject {
		t.Errorf("prop on number = (%v, %v), want NotAnObject error", code, isErr)
	}

	idx := n.GetAtIndex(0)
	code, isErr = idx.AsError()
	if !isErr || code != nanbox.ErrNotIndexable {
		t.Errorf("index on number = (%v, %v), want NotIndexable error", code, isErr)
	}
}

func TestReadStringBuffer(t *testing.T) {
	ctx, _ := newTestContext(t, `{"name": "function"}`)
	name := ctx.Input().GetProp("name")

	buf := make([]byte, name.Len())
	n, ok := name.ReadString(buf)
	if !ok || n != 8 || string(buf) != "function" {
		t.Errorf("ReadString = (%d, %v) %q, want (8, true) function", n, ok, buf)
	}

	short := make([]byte, 4)
	n, ok = name.ReadString(short)
	if !ok || n != 4 || string(short) != "func" {
		t.Errorf("short ReadString = (%d, %v) %q, want (4, true) func", n, ok, short)
	}
}

func TestLongStringPastInlineSentinel(t *testing.T) {
	long := strings.Repeat("x", 16500)
	ctx, _ := newTestContext(t, `{"body": "`+long+`"}`)
	body := ctx.Input().GetProp("body")

	if got := body.Len(); got != 16500 {
		t.Fatalf("Len = %d, want 16500", got)
	}
	s, ok := body.AsString()
	if !ok || len(s) != 16500 {
		t.Fatalf("AsString len = %d ok=%v, want 16500", len(s), ok)
	}
	if s != long {
		t.Error("AsString content differs from the source string")
	}
}

func TestGetInternedProp(t *testing.T) {
	ctx, _ := newTestContext(t, `{"cart": {"lines": []}}`)
	id := ctx.InternUTF8Str("cart")

	cart := ctx.Input().GetInternedProp(id)
	if cart.Kind() != KindObject {
		t.Errorf("interned prop kind = %s, want object", cart.Kind())
	}
}

func TestCachedInternedStringID(t *testing.T) {
	cache := NewCachedInternedStringID("quantity")

	ctx1, _ := newTestContext(t, `{}`)
	id1 := cache.ID(ctx1)
	if got := cache.ID(ctx1); got != id1 {
		t.Errorf("second lookup = %d, want cached %d", got, id1)
	}

	ctx2, _ := newTestContext(t, `{}`)
	id2 := cache.ID(ctx2)
	// a fresh context has its own interner; the cache must re-intern
	if cache.ctx != ctx2 {
		t.Error("cache did not rebind to the new context")
	}
	if got := cache.ID(ctx2); got != id2 {
		t.Errorf("lookup after rebind = %d, want %d", got, id2)
	}
}

func TestWriteFlow(t *testing.T) {
	ctx, p := newTestContext(t, `{}`)

	err := ctx.WriteObject(1, func() error {
		if err := ctx.WriteString("errors"); err != nil {
			return err
		}
		return ctx.WriteArray(0, func() error { return nil })
	})
	if err != nil {
		t.Fatalf("WriteObject returned error: %v", err)
	}
	if err := ctx.Finalize(); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}

	out, err := p.FinalizeJSON()
	if err != nil {
		t.Fatalf("FinalizeJSON returned error: %v", err)
	}
	if string(out) != `{"errors":[]}` {
		t.Errorf("output = %s, want {\"errors\":[]}", out)
	}
}

func TestWriteProtocolErrorSurfaces(t *testing.T) {
	ctx, _ := newTestContext(t, `{}`)

	err := ctx.WriteObject(1, func() error {
		// non-string first: the host demands a key
		return ctx.WriteBool(true)
	})
	if err == nil {
		t.Fatal("WriteObject should surface the expected-key violation")
	}
}

func TestLogRoutesToHost(t *testing.T) {
	ctx, p := newTestContext(t, `{}`)
	ctx.Log("hello")
	logs := p.Logs()
	if len(logs) != 1 || logs[0] != "hello" {
		t.Errorf("logs = %v, want [hello]", logs)
	}
}
