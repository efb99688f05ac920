//go:build ffi_integration

package ffi

// These tests exercise the real dlopen/libffi path end to end, against a
// small shared library built from testdata/math.c. They need a working C
// toolchain and are not expected to run in this environment; build and run
// them explicitly with:
//
//	cc -shared -fPIC -o /tmp/libhey_ffi_math.so ffi/testdata/math.c
//	go test -tags ffi_integration ./ffi/...

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/heylang/hey/registry"
	"github.com/heylang/hey/values"
)

func buildTestLibrary(t *testing.T) string {
	t.Helper()
	cc, err := exec.LookPath("cc")
	if err != nil {
		cc, err = exec.LookPath("gcc")
	}
	if err != nil {
		t.Skip("no C compiler available to build the test library")
	}

	out := filepath.Join(t.TempDir(), "libhey_ffi_math.so")
	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, "testdata/math.c")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("building test library: %v", err)
	}
	return out
}

func integrationSource(libPath string) string {
	return `<?php
class Math extends FFI {
    #[Extern(dll: "` + libPath + `", args: "int,int", ret: "int")]
    public function add(int $a, int $b): int {}

    #[Extern(dll: "` + libPath + `", args: "int", ret: "int")]
    public function square(int $a): int {}

    #[Extern(dll: "` + libPath + `", args: "i64", ret: "i64")]
    public function doubled(int $n): int {}

    #[Extern(dll: "` + libPath + `", args: "char*", ret: "char*")]
    public function greeting(string $name): string {}
}
`
}

func TestIntegration_NativeCallRoundTrip(t *testing.T) {
	libPath := buildTestLibrary(t)

	host := newFakeHostVM()
	bridge := NewBridge(host)
	if err := bridge.LoadDeclarations("math.php", integrationSource(libPath)); err != nil {
		t.Fatalf("LoadDeclarations: %v", err)
	}
	defer bridge.Shutdown()

	registry.Initialize()
	if err := registerFFIExceptionClass(registry.GlobalRegistry); err != nil {
		t.Fatalf("registerFFIExceptionClass: %v", err)
	}

	desc := host.registered[0]
	call := func(method string, args ...*values.Value) *values.Value {
		t.Helper()
		fn := desc.Methods[method].Implementation.(interface {
			GetFunction() *registry.Function
		}).GetFunction()
		ctx := newMockContext()
		full := append([]*values.Value{values.NewObject("Math")}, args...)
		result, err := fn.Builtin(ctx, full)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		return result
	}

	if got := call("add", values.NewInt(3), values.NewInt(4)); got.ToInt() != 7 {
		t.Fatalf("add(3, 4) = %v, want 7", got.ToInt())
	}
	if got := call("square", values.NewInt(6)); got.ToInt() != 36 {
		t.Fatalf("square(6) = %v, want 36", got.ToInt())
	}
	if got := call("doubled", values.NewInt(21)); got.ToInt() != 42 {
		t.Fatalf("doubled(21) = %v, want 42", got.ToInt())
	}
	if got := call("greeting", values.NewString("hey")); got.ToString() != "hello, hey" {
		t.Fatalf("greeting(hey) = %q, want %q", got.ToString(), "hello, hey")
	}
}
