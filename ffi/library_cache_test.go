package ffi

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func fakeOpener(opened *[]string) func(string) (*nativeLibrary, error) {
	return func(path string) (*nativeLibrary, error) {
		*opened = append(*opened, path)
		return &nativeLibrary{path: path, id: uuid.New()}, nil
	}
}

func TestLibraryCache_ReusesLoadedLibrary(t *testing.T) {
	var opened []string
	c := NewLibraryCache()
	c.openFn = fakeOpener(&opened)

	if _, err := c.GetOrLoad("libmath.so"); err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if _, err := c.GetOrLoad("libmath.so"); err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}

	if len(opened) != 1 {
		t.Fatalf("expected libmath.so to be opened once, opened %d times: %v", len(opened), opened)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 resident library, got %d", c.Len())
	}
}

func TestLibraryCache_ExceedingCapacityIsAHardError(t *testing.T) {
	var opened []string
	c := NewLibraryCache()
	c.openFn = fakeOpener(&opened)
	c.maxLibraries = 2

	for i := 0; i < 2; i++ {
		name := fmt.Sprintf("lib%d.so", i)
		if _, err := c.GetOrLoad(name); err != nil {
			t.Fatalf("GetOrLoad(%s): %v", name, err)
		}
	}

	_, err := c.GetOrLoad("lib2.so")
	if err == nil {
		t.Fatalf("expected exceeding the cache capacity to be a hard error")
	}
	ffiErr, ok := err.(*Error)
	if !ok || ffiErr.Kind != ErrLibraryLoad {
		t.Fatalf("expected an ErrLibraryLoad *Error, got %#v", err)
	}
	if err.Error() != "Failed to load dynamic library" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	// The two libraries already loaded must remain resident and usable —
	// the failed third load must not have evicted either of them.
	if c.Len() != 2 {
		t.Fatalf("expected the existing 2 libraries to remain resident, got %d", c.Len())
	}
	if _, ok := c.entries["lib0.so"]; !ok {
		t.Fatalf("expected lib0.so to remain resident")
	}
	if _, ok := c.entries["lib1.so"]; !ok {
		t.Fatalf("expected lib1.so to remain resident")
	}
}

func TestLibraryCache_AlreadyLoadedLibraryIsNotBlockedByCapacity(t *testing.T) {
	var opened []string
	c := NewLibraryCache()
	c.openFn = fakeOpener(&opened)
	c.maxLibraries = 1

	if _, err := c.GetOrLoad("a.so"); err != nil {
		t.Fatalf("GetOrLoad(a.so): %v", err)
	}
	// Re-requesting an already-resident library is not a new load and must
	// not be rejected even though the cache is at capacity.
	if _, err := c.GetOrLoad("a.so"); err != nil {
		t.Fatalf("GetOrLoad(a.so) again: %v", err)
	}
	if len(opened) != 1 {
		t.Fatalf("expected a.so to be opened once, opened %d times", len(opened))
	}
}

func TestLibraryCache_ShutdownClearsEntries(t *testing.T) {
	var opened []string
	c := NewLibraryCache()
	c.openFn = fakeOpener(&opened)

	c.GetOrLoad("x.so")
	c.Shutdown()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Shutdown, got %d", c.Len())
	}
}

func TestResolveLibraryPath_AppliesDefaultConvention(t *testing.T) {
	if got := resolveLibraryPath("math"); got != "./libmath.so" {
		t.Fatalf("expected ./libmath.so, got %s", got)
	}
}

func TestResolveLibraryPath_PassesThroughExplicitPaths(t *testing.T) {
	if got := resolveLibraryPath("/opt/libs/libmath.so"); got != "/opt/libs/libmath.so" {
		t.Fatalf("expected the absolute path to pass through unchanged, got %s", got)
	}
}
