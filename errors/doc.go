// Package errors provides structured error types for the function runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, Go type name,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSerialize, errors.KindTypeMismatch).
//		Path("cart", "quantity").
//		GoType("string").
//		Detail("cannot convert string to number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseRead, path, "number", "string")
//	err := errors.WriteFailed("write_object", status)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
