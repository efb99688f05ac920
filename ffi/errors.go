package ffi

import "fmt"

// ErrorKind enumerates the fixed set of failure categories the bridge can
// report. Each maps to exactly one of the six fixed, stable messages a
// script sees when a foreign call aborts.
type ErrorKind int

const (
	// ErrUnregisteredClass: the call's receiver isn't a live instance of an
	// FFI-bound class (dispatch step 1).
	ErrUnregisteredClass ErrorKind = iota
	// ErrMissingMetadata: the method carries no #[Extern] dll (dispatch
	// step 6).
	ErrMissingMetadata
	// ErrLibraryLoad: the dll couldn't be opened, or opening it would
	// exceed the class's library cache capacity (C4).
	ErrLibraryLoad
	// ErrSymbolNotFound: the dll loaded, but doesn't export the method's
	// native symbol (dispatch step 7).
	ErrSymbolNotFound
	// ErrUnsupportedType: an args/ret type tag didn't parse, or a value
	// couldn't be marshalled/unmarshalled for its tag (dispatch step 8).
	ErrUnsupportedType
	// ErrCifPrepFailed: the call-interface descriptor couldn't be built
	// for the target ABI (dispatch step 9).
	ErrCifPrepFailed
)

// message returns the fixed, stable text the script sees for this kind.
// These strings are load-bearing: scripts pattern-match on them.
func (k ErrorKind) message() string {
	switch k {
	case ErrUnregisteredClass:
		return "FFI foreign class not found or not properly registered"
	case ErrMissingMetadata:
		return "Missing FFI metadata"
	case ErrLibraryLoad:
		return "Failed to load dynamic library"
	case ErrSymbolNotFound:
		return "Function not found in library"
	case ErrUnsupportedType:
		return "Unsupported FFI type"
	case ErrCifPrepFailed:
		return "FFI preparation failed"
	default:
		return "FFI error"
	}
}

// code returns the kind's symbolic name, for diagnostics and for
// FFIException::getKind() — never part of the script-facing message.
func (k ErrorKind) code() string {
	switch k {
	case ErrUnregisteredClass:
		return "UnregisteredClass"
	case ErrMissingMetadata:
		return "MissingMetadata"
	case ErrLibraryLoad:
		return "LibraryLoadFailed"
	case ErrSymbolNotFound:
		return "SymbolNotFound"
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrCifPrepFailed:
		return "CifPrepFailed"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) String() string { return k.message() }

// Error is the concrete error type returned (and thrown, wrapped in an
// FFIException) by every bridge operation. Error() is always exactly one
// of the six fixed spec messages; everything else is diagnostic-only and
// reachable through Unwrap/the struct fields, never concatenated into the
// message a script sees.
type Error struct {
	Kind    ErrorKind
	Class   string
	Method  string
	Detail  string
	wrapped error
}

func (e *Error) Error() string { return e.Kind.message() }

func (e *Error) Unwrap() error { return e.wrapped }

// Diagnostic renders class/method/detail context for logs, never for the
// script-facing exception message.
func (e *Error) Diagnostic() string {
	loc := e.Class
	if e.Method != "" {
		loc = fmt.Sprintf("%s::%s", e.Class, e.Method)
	}
	switch {
	case loc == "" && e.Detail == "":
		return e.Kind.message()
	case loc == "":
		return fmt.Sprintf("%s: %s", e.Kind.message(), e.Detail)
	case e.Detail == "":
		return fmt.Sprintf("%s (%s)", e.Kind.message(), loc)
	default:
		return fmt.Sprintf("%s (%s): %s", e.Kind.message(), loc, e.Detail)
	}
}

func newError(kind ErrorKind, class, method, detail string, wrapped error) *Error {
	return &Error{Kind: kind, Class: class, Method: method, Detail: detail, wrapped: wrapped}
}

// asError returns err unchanged if it is already an *Error — preserving
// whatever Kind the layer that actually detected the failure assigned it —
// and otherwise wraps it under the given kind. Prevents a generic error
// bubbling up from a lower layer (e.g. a library-cache-capacity failure
// surfacing from Symbol) from being mislabeled by an outer call site that
// only expected one specific kind of failure.
func asError(kind ErrorKind, class, method string, err error) *Error {
	if fe, ok := err.(*Error); ok {
		return fe
	}
	return newError(kind, class, method, err.Error(), err)
}
