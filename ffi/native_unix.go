//go:build cgo && (linux || darwin)

package ffi

/*
#cgo LDFLAGS: -ldl -lffi
#include <dlfcn.h>
#include <ffi.h>
#include <stdlib.h>

static ffi_type *ffi_type_for_tag(const char *tag) {
	if (strcmp(tag, "int") == 0) return &ffi_type_sint32;
	if (strcmp(tag, "i64") == 0) return &ffi_type_sint64;
	if (strcmp(tag, "char*") == 0) return &ffi_type_pointer;
	if (strcmp(tag, "bool") == 0) return &ffi_type_sint32;
	return &ffi_type_void;
}

// call_dispatch hides the void* -> function-pointer cast libffi needs from
// Go, which cannot express C function pointer types directly.
static void call_dispatch(ffi_cif *cif, void *fn, void *rvalue, void **avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// nativeLibrary wraps a dlopen'd shared library handle.
type nativeLibrary struct {
	handle unsafe.Pointer
	path   string
	id     uuid.UUID
}

func platformSupported() bool { return true }

func openLibrary(path string) (*nativeLibrary, error) {
	// Cheap pre-flight check: a missing/unreadable file produces a much
	// clearer error here than whatever dlopen's loader surfaces for it.
	if err := unix.Access(path, unix.R_OK); err != nil {
		return nil, fmt.Errorf("access %s: %w", path, err)
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		msg := C.GoString(C.dlerror())
		return nil, fmt.Errorf("dlopen %s: %s", path, msg)
	}
	return &nativeLibrary{handle: unsafe.Pointer(handle), path: path, id: uuid.New()}, nil
}

func (l *nativeLibrary) close() error {
	if l == nil || l.handle == nil {
		return nil
	}
	if C.dlclose(l.handle) != 0 {
		return fmt.Errorf("dlclose %s: %s", l.path, C.GoString(C.dlerror()))
	}
	l.handle = nil
	return nil
}

// resolve looks up an exported symbol by name.
func (l *nativeLibrary) resolve(symbolName string) (unsafe.Pointer, error) {
	C.dlerror() // clear any pending error
	csym := C.CString(symbolName)
	defer C.free(unsafe.Pointer(csym))

	sym := C.dlsym(l.handle, csym)
	if sym == nil {
		if errStr := C.dlerror(); errStr != nil {
			return nil, fmt.Errorf("dlsym %s: %s", symbolName, C.GoString(errStr))
		}
	}
	return sym, nil
}

// invokeNative calls a resolved native function pointer via libffi,
// marshalling args/ret according to the given type tags.
func invokeNative(fn unsafe.Pointer, argTags []string, retTag string, args []interface{}) (interface{}, error) {
	n := C.uint(len(argTags))

	argTypes := make([]*C.ffi_type, len(argTags))
	for i, tag := range argTags {
		ctag := C.CString(tag)
		argTypes[i] = C.ffi_type_for_tag(ctag)
		C.free(unsafe.Pointer(ctag))
	}
	cret := C.CString(retTag)
	retType := C.ffi_type_for_tag(cret)
	C.free(unsafe.Pointer(cret))

	var cif C.ffi_cif
	var argTypesPtr **C.ffi_type
	if len(argTypes) > 0 {
		argTypesPtr = &argTypes[0]
	}
	status := C.ffi_prep_cif(&cif, C.FFI_DEFAULT_ABI, n, retType, argTypesPtr)
	if status != C.FFI_OK {
		return nil, fmt.Errorf("ffi_prep_cif failed: status %d", int(status))
	}

	// Build argument storage; each slot is a small heap-pinned buffer
	// holding the value, and argValues holds pointers to those buffers.
	argValues := make([]unsafe.Pointer, len(argTags))
	var cleanups []func()
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()

	for i, tag := range argTags {
		switch tag {
		case TagInt:
			v := C.int(args[i].(int32))
			ptr := C.malloc(C.size_t(unsafe.Sizeof(v)))
			*(*C.int)(ptr) = v
			argValues[i] = ptr
			cleanups = append(cleanups, func() { C.free(ptr) })
		case TagInt64:
			v := C.longlong(args[i].(int64))
			ptr := C.malloc(C.size_t(unsafe.Sizeof(v)))
			*(*C.longlong)(ptr) = v
			argValues[i] = ptr
			cleanups = append(cleanups, func() { C.free(ptr) })
		case TagString:
			cstr := C.CString(args[i].(string))
			ptr := C.malloc(C.size_t(unsafe.Sizeof(cstr)))
			*(**C.char)(ptr) = cstr
			argValues[i] = ptr
			cleanups = append(cleanups, func() { C.free(unsafe.Pointer(cstr)); C.free(ptr) })
		default:
			return nil, fmt.Errorf("unsupported argument type %q", tag)
		}
	}

	var argValuesPtr *unsafe.Pointer
	if len(argValues) > 0 {
		argValuesPtr = &argValues[0]
	}

	switch retTag {
	case TagVoid:
		C.call_dispatch(&cif, fn, nil, argValuesPtr)
		return nil, nil
	case TagInt, TagBool:
		var result C.int
		C.call_dispatch(&cif, fn, unsafe.Pointer(&result), argValuesPtr)
		if retTag == TagBool {
			return result != 0, nil
		}
		return int32(result), nil
	case TagInt64:
		var result C.longlong
		C.call_dispatch(&cif, fn, unsafe.Pointer(&result), argValuesPtr)
		return int64(result), nil
	case TagString:
		var result *C.char
		C.call_dispatch(&cif, fn, unsafe.Pointer(&result), argValuesPtr)
		if result == nil {
			return "", nil
		}
		return C.GoString(result), nil
	default:
		return nil, fmt.Errorf("unsupported return type %q", retTag)
	}
}
