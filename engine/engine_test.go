package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	runtimeerrors "github.com/wippyai/function-runtime/errors"
)

// Minimal wasm binary fixtures, assembled by hand.

func uleb(v int) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func TestULEB128(t *testing.T) {
	tests := []struct {
		v    int
		want []byte
	}{
		{0, []byte{0x00}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x80, 0x01}},
		{130, []byte{0x82, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, tt := range tests {
		got := uleb(tt.v)
		if len(got) != len(tt.want) {
			t.Errorf("uleb(%d) = %v, want %v", tt.v, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("uleb(%d) = %v, want %v", tt.v, got, tt.want)
				break
			}
		}
	}
}

func wasmStr(s string) []byte {
	return append(uleb(len(s)), s...)
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(len(content))...)
	return append(out, content...)
}

func vec(count int, content []byte) []byte {
	return append(uleb(count), content...)
}

type wasmImport struct {
	module  string
	name    string
	typeIdx int
}

// buildModule assembles a module with the given function types, imports,
// and one exported "_start" of the last type, with the given body. A
// one-page memory is exported and a data segment "hello" sits at offset 8.
func buildModule(types [][]byte, imports []wasmImport, startTypeIdx int, body []byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	var typeContent []byte
	for _, t := range types {
		typeContent = append(typeContent, t...)
	}
	out = append(out, section(1, vec(len(types), typeContent))...)

	if len(imports) > 0 {
		var importContent []byte
		for _, imp := range imports {
			importContent = append(importContent, wasmStr(imp.module)...)
			importContent = append(importContent, wasmStr(imp.name)...)
			importContent = append(importContent, 0x00)
			importContent = append(importContent, uleb(imp.typeIdx)...)
		}
		out = append(out, section(2, vec(len(imports), importContent))...)
	}

	out = append(out, section(3, vec(1, uleb(startTypeIdx)))...)

	// memory: one initial page, no max
	out = append(out, section(5, vec(1, []byte{0x00, 0x01}))...)

	var exportContent []byte
	exportContent = append(exportContent, wasmStr("memory")...)
	exportContent = append(exportContent, 0x02, 0x00)
	exportContent = append(exportContent, wasmStr("_start")...)
	exportContent = append(exportContent, 0x00)
	exportContent = append(exportContent, uleb(len(imports))...)
	out = append(out, section(7, vec(2, exportContent))...)

	funcBody := append([]byte{0x00}, body...) // no locals
	codeEntry := append(uleb(len(funcBody)), funcBody...)
	out = append(out, section(10, vec(1, codeEntry))...)

	// data segment "hello" at offset 8
	data := []byte{0x00, 0x41, 0x08, 0x0B}
	data = append(data, wasmStr("hello")...)
	out = append(out, section(11, vec(1, data))...)

	return out
}

var (
	typeVoid        = []byte{0x60, 0x00, 0x00}                   // () -> ()
	typeI32RetI32   = []byte{0x60, 0x01, 0x7F, 0x01, 0x7F}       // (i32) -> i32
	typeRetI32      = []byte{0x60, 0x00, 0x01, 0x7F}             // () -> i32
	typeI32I32Void  = []byte{0x60, 0x02, 0x7F, 0x7F, 0x00}       // (i32, i32) -> ()
	typeRetI64      = []byte{0x60, 0x00, 0x01, 0x7E}             // () -> i64
	typeI64I32Ret32 = []byte{0x60, 0x02, 0x7E, 0x7F, 0x01, 0x7F} // (i64, i32) -> i32
	typeI64RetI32   = []byte{0x60, 0x01, 0x7E, 0x01, 0x7F}       // (i64) -> i32
)

// importOnlyModule declares imports of type ()->() plus an empty _start,
// enough for compile-time revision detection.
func importOnlyModule(imports []wasmImport) []byte {
	return buildModule([][]byte{typeVoid}, imports, 0, []byte{0x0B})
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(context.Background())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := e.Close(context.Background()); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return e
}

func TestDetectRevision(t *testing.T) {
	tests := []struct {
		name     string
		imports  []wasmImport
		revision int
		wantErr  bool
	}{
		{
			name: "revision 2",
			imports: []wasmImport{
				{"wippy_function_v2", "wippy_function_input_get", 0},
				{"wippy_function_v2", "wippy_function_output_finalize", 0},
			},
			revision: 2,
		},
		{
			name: "revision 1",
			imports: []wasmImport{
				{"wippy_function_v1", "wippy_function_context_new", 0},
				{"wippy_function_v1", "wippy_function_input_get", 0},
			},
			revision: 1,
		},
		{
			name: "both revisions",
			imports: []wasmImport{
				{"wippy_function_v1", "wippy_function_input_get", 0},
				{"wippy_function_v2", "wippy_function_input_get", 0},
			},
			wantErr: true,
		},
		{
			name:    "no revision",
			imports: nil,
			wantErr: true,
		},
		{
			name: "foreign namespaces ignored",
			imports: []wasmImport{
				{"wippy_function_v2", "wippy_function_input_get", 0},
				{"other_host", "some_fn", 0},
			},
			revision: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			fn, err := e.LoadFunction(context.Background(), importOnlyModule(tt.imports))
			if tt.wantErr {
				if err == nil {
					t.Fatal("LoadFunction succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFunction returned error: %v", err)
			}
			defer fn.Close(context.Background())
			if fn.Revision() != tt.revision {
				t.Errorf("Revision() = %d, want %d", fn.Revision(), tt.revision)
			}
		})
	}
}

func TestUnknownImportName(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.LoadFunction(context.Background(), importOnlyModule([]wasmImport{
		{"wippy_function_v2", "wippy_function_made_up", 0},
	}))
	if err == nil {
		t.Fatal("LoadFunction succeeded, want missing-imports error")
	}
	if !errors.Is(err, &runtimeerrors.MissingImportsError{}) {
		t.Errorf("error = %v, want MissingImportsError", err)
	}
}

func TestFunctionImportsListing(t *testing.T) {
	e := newTestEngine(t)
	fn, err := e.LoadFunction(context.Background(), importOnlyModule([]wasmImport{
		{"wippy_function_v2", "wippy_function_input_get", 0},
	}))
	if err != nil {
		t.Fatalf("LoadFunction returned error: %v", err)
	}
	defer fn.Close(context.Background())

	imports := fn.Imports()
	if len(imports) != 1 || imports[0] != "wippy_function_v2#wippy_function_input_get" {
		t.Errorf("Imports() = %v", imports)
	}
}

func TestInvokeEndToEnd(t *testing.T) {
	// _start logs "hello" from its data segment, writes a boolean root,
	// and finalizes
	body := []byte{
		0x41, 0x08, // i32.const 8
		0x41, 0x05, // i32.const 5
		0x10, 0x02, // call log_new_utf8_str
		0x41, 0x01, // i32.const 1
		0x10, 0x00, // call output_new_bool
		0x1A,       // drop
		0x10, 0x01, // call output_finalize
		0x1A, // drop
		0x0B, // end
	}
	module := buildModule(
		[][]byte{typeI32RetI32, typeRetI32, typeI32I32Void, typeVoid},
		[]wasmImport{
			{"wippy_function_v2", "wippy_function_output_new_bool", 0},
			{"wippy_function_v2", "wippy_function_output_finalize", 1},
			{"wippy_function_v2", "wippy_function_log_new_utf8_str", 2},
		},
		3,
		body,
	)

	e := newTestEngine(t)
	fn, err := e.LoadFunction(context.Background(), module)
	if err != nil {
		t.Fatalf("LoadFunction returned error: %v", err)
	}
	defer fn.Close(context.Background())

	res, err := fn.Invoke(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if string(res.Output) != "true" {
		t.Errorf("Output = %s, want true", res.Output)
	}
	if len(res.Logs) != 1 || res.Logs[0] != "hello" {
		t.Errorf("Logs = %v, want [hello]", res.Logs)
	}
}

func TestConcurrentV1Invocations(t *testing.T) {
	// Every invocation requests a fresh context handle before each call;
	// handles are issued from shared host-module state.
	body := []byte{
		0x10, 0x00, // call context_new
		0x41, 0x01, // i32.const 1
		0x10, 0x01, // call output_new_bool
		0x1A,       // drop
		0x10, 0x00, // call context_new
		0x10, 0x02, // call output_finalize
		0x1A, // drop
		0x0B, // end
	}
	module := buildModule(
		[][]byte{typeRetI64, typeI64I32Ret32, typeI64RetI32, typeVoid},
		[]wasmImport{
			{"wippy_function_v1", "wippy_function_context_new", 0},
			{"wippy_function_v1", "wippy_function_output_new_bool", 1},
			{"wippy_function_v1", "wippy_function_output_finalize", 2},
		},
		3,
		body,
	)

	e := newTestEngine(t)
	fn, err := e.LoadFunction(context.Background(), module)
	if err != nil {
		t.Fatalf("LoadFunction returned error: %v", err)
	}
	defer fn.Close(context.Background())
	if fn.Revision() != 1 {
		t.Fatalf("Revision() = %d, want 1", fn.Revision())
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				res, err := fn.Invoke(context.Background(), []byte(`{}`))
				if err != nil {
					t.Errorf("Invoke returned error: %v", err)
					return
				}
				if string(res.Output) != "true" {
					t.Errorf("Output = %s, want true", res.Output)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestInvokeWithoutFinalizeFails(t *testing.T) {
	body := []byte{
		0x41, 0x01, // i32.const 1
		0x10, 0x00, // call output_new_bool
		0x1A, // drop
		0x0B, // end
	}
	module := buildModule(
		[][]byte{typeI32RetI32, typeVoid},
		[]wasmImport{
			{"wippy_function_v2", "wippy_function_output_new_bool", 0},
		},
		1,
		body,
	)

	e := newTestEngine(t)
	fn, err := e.LoadFunction(context.Background(), module)
	if err != nil {
		t.Fatalf("LoadFunction returned error: %v", err)
	}
	defer fn.Close(context.Background())

	if _, err := fn.Invoke(context.Background(), []byte(`{}`)); err == nil {
		t.Error("Invoke without output_finalize should fail")
	}
}
