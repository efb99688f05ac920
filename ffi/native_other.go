//go:build !cgo || (!linux && !darwin)

package ffi

import (
	"fmt"
	"unsafe"

	"github.com/google/uuid"
)

// nativeLibrary is a non-functional stand-in on platforms/builds where cgo
// (and therefore dlopen/libffi) isn't available. hey's FFI bridge has no
// pure-Go substitute for dynamic-library loading or native calling
// conventions; every FFI operation here reports ErrLibraryLoad/ErrCifPrepFailed
// instead of silently pretending to work.
type nativeLibrary struct {
	path string
	id   uuid.UUID
}

func platformSupported() bool { return false }

func openLibrary(path string) (*nativeLibrary, error) {
	return nil, fmt.Errorf("ffi: native library loading requires cgo on linux or darwin (got path %q)", path)
}

func (l *nativeLibrary) close() error { return nil }

func (l *nativeLibrary) resolve(symbolName string) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("ffi: native symbol lookup unavailable without cgo (symbol %q)", symbolName)
}

func invokeNative(fn unsafe.Pointer, argTags []string, retTag string, args []interface{}) (interface{}, error) {
	return nil, fmt.Errorf("ffi: native calls unavailable without cgo")
}
