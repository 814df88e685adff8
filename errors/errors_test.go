package errors

import (
	"errors"
	"testing"

	"github.com/wippyai/function-runtime/abi"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseSerialize,
				Kind:   KindTypeMismatch,
				Path:   []string{"cart", "lines", "quantity"},
				GoType: "string",
				Detail: "cannot convert",
			},
			contains: []string{"[serialize]", "type_mismatch", "cart.lines.quantity", "string", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRun,
				Kind:   KindInstantiation,
				Detail: "instantiate module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[run]", "instantiation", "instantiate module", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseWrite,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseWrite,
		Kind:  KindExpectedKey,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseWrite, Kind: KindExpectedKey}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseRead, Kind: KindExpectedKey}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseWrite, Kind: KindNotAnObject}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseWrite, Kind: KindExpectedKey}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseSerialize, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseSerialize {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseSerialize)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseRead, []string{"field"}, "number", "string")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if !containsSubstring(err.Detail, "number") || !containsSubstring(err.Detail, "string") {
			t.Errorf("Detail = %v, should name both types", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		data := []byte{0xff, 0xfe}
		err := InvalidUTF8(PhaseRead, []string{"str"}, data)
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseSerialize, "channel types")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseRead, []string{"list"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseSerialize, []string{"ptr"}, "*Cart")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.GoType != "*Cart" {
			t.Errorf("GoType = %v, want '*Cart'", err.GoType)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseSerialize, []string{"val"}, int64(1)<<40, "i32")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})
}

func TestWriteFailed(t *testing.T) {
	tests := []struct {
		status abi.WriteStatus
		kind   Kind
	}{
		{abi.WriteIoError, KindIO},
		{abi.WriteExpectedKey, KindExpectedKey},
		{abi.WriteObjectLengthError, KindObjectLength},
		{abi.WriteValueAlreadyWritten, KindValueAlreadyWritten},
		{abi.WriteNotAnObject, KindNotAnObject},
		{abi.WriteValueNotFinished, KindValueNotFinished},
		{abi.WriteArrayLengthError, KindArrayLength},
		{abi.WriteNotAnArray, KindNotAnArray},
		{abi.WriteStatus(42), KindUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := WriteFailed("write_string", tt.status)
			if err.Phase != PhaseWrite {
				t.Errorf("Phase = %v, want %v", err.Phase, PhaseWrite)
			}
			if err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", err.Kind, tt.kind)
			}
			if !containsSubstring(err.Detail, "write_string") {
				t.Errorf("Detail = %v, should name the operation", err.Detail)
			}
		})
	}
}

func TestMissingImportsError(t *testing.T) {
	t.Run("single import", func(t *testing.T) {
		err := NewMissingImportsError([]string{"wippy_function_v2#wippy_function_input_get"})
		if len(err.Imports) != 1 {
			t.Errorf("expected 1 import, got %d", len(err.Imports))
		}
		if err.Imports[0].Namespace != "wippy_function_v2" {
			t.Errorf("namespace = %q, want wippy_function_v2", err.Imports[0].Namespace)
		}
		if err.Imports[0].Function != "wippy_function_input_get" {
			t.Errorf("function = %q, want wippy_function_input_get", err.Imports[0].Function)
		}
	})

	t.Run("multiple imports same namespace", func(t *testing.T) {
		err := NewMissingImportsError([]string{
			"wippy_function_v2#wippy_function_input_get",
			"wippy_function_v2#wippy_function_output_finalize",
		})
		if len(err.Imports) != 2 {
			t.Errorf("expected 2 imports, got %d", len(err.Imports))
		}

		msg := err.Error()
		if !containsSubstring(msg, "missing") {
			t.Errorf("error should contain 'missing'")
		}
		if !containsSubstring(msg, "2") {
			t.Errorf("error should contain count")
		}
		if !containsSubstring(msg, "wippy_function_v2") {
			t.Errorf("error should contain namespace")
		}
		if !containsSubstring(msg, "wippy_function_input_get") {
			t.Errorf("error should contain function name")
		}
	})

	t.Run("multiple namespaces grouped", func(t *testing.T) {
		err := NewMissingImportsError([]string{
			"wippy_function_v1#wippy_function_input_get",
			"wasi_snapshot_preview1#fd_write",
			"wippy_function_v1#wippy_function_context_new",
		})
		msg := err.Error()
		// Verify grouping by namespace
		if !containsSubstring(msg, "wippy_function_v1:") {
			t.Errorf("error should group by namespace")
		}
		if !containsSubstring(msg, "wasi_snapshot_preview1:") {
			t.Errorf("error should contain second namespace")
		}
	})

	t.Run("empty imports", func(t *testing.T) {
		err := NewMissingImportsError([]string{})
		msg := err.Error()
		if !containsSubstring(msg, "no imports specified") {
			t.Errorf("empty error should have specific message, got: %s", msg)
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewMissingImportsError([]string{"ns#fn"})
		if !errors.Is(err, &MissingImportsError{}) {
			t.Error("errors.Is should match MissingImportsError")
		}
	})
}

func TestDemangleRust(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "wippy_function_input_get",
			expected: "wippy_function_input_get",
		},
		{
			input:    "_ZN4core3ptr8write_fn17ha1b2c3d4e5f67890E",
			expected: "core::ptr::write_fn",
		},
		{
			input:    "_ZNnot-really-mangled",
			expected: "_ZNnot-really-mangled",
		},
	}

	for _, tt := range tests {
		name := tt.input
		if len(name) > 30 {
			name = name[:30]
		}
		t.Run(name, func(t *testing.T) {
			result := demangleRust(tt.input)
			if result != tt.expected {
				t.Errorf("demangleRust(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
