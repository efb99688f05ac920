package ffi

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
)

// defaultLibraryDir is the spec-mandated default search directory.
const defaultLibraryDir = "."

// resolveLibraryPath translates a short dll name (as written in
// #[Extern(dll: "math")]) into a library file name, honoring the default
// "./lib<name>.so" convention. HEY_FFI_LIBRARY_PATH may override the
// search directory but never the "lib<name>.so" naming convention itself,
// matching the spec's "MUST NOT change the default" constraint. A dll that
// already looks like a path (absolute, or containing a separator) is
// passed through unchanged.
func resolveLibraryPath(dll string) string {
	if filepath.IsAbs(dll) || strings.ContainsAny(dll, "/\\") {
		return dll
	}
	dir := defaultLibraryDir
	if override := os.Getenv("HEY_FFI_LIBRARY_PATH"); override != "" {
		dir = override
	}
	return filepath.Join(dir, "lib"+dll+".so")
}

// LibraryCache is one class's C4 Dynamic-Library Cache: the small,
// registration-ordered set of dlopen handles its methods have opened,
// bounded at maxLibraries (the spec's library_cache <= N_LIB invariant).
// Each FFI-bound class owns its own instance — a busy class's dlopen
// traffic never evicts (or competes for capacity with) another class's
// libraries.
type LibraryCache struct {
	mu           sync.Mutex
	maxLibraries int
	order        []*libraryCacheEntry // registration order, for close_all
	entries      map[string]*libraryCacheEntry
	// openFn defaults to openLibrary; overridable in tests so capacity and
	// reuse bookkeeping can be exercised without a real dlopen.
	openFn func(string) (*nativeLibrary, error)
}

type libraryCacheEntry struct {
	dll string
	lib *nativeLibrary
}

// NewLibraryCache creates a cache bounded by the HEY_FFI_MAX_LIBRARIES
// environment variable, falling back to defaultMaxCachedLibraries.
func NewLibraryCache() *LibraryCache {
	max := defaultMaxCachedLibraries
	if raw := os.Getenv("HEY_FFI_MAX_LIBRARIES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			max = n
		}
	}
	return &LibraryCache{
		maxLibraries: max,
		entries:      make(map[string]*libraryCacheEntry),
		openFn:       openLibrary,
	}
}

// GetOrLoad is the C4 get_or_load operation: returns the native handle for
// a dll short name, loading (and caching) it on first reference. Once the
// cache holds maxLibraries entries, loading any further, not-yet-resident
// dll is a hard error (ErrLibraryLoad) rather than evicting an existing
// entry — a live MethodEntry may still be holding that handle, and the
// spec treats exceeding N_LIB as an aborted call, not an eviction policy.
func (c *LibraryCache) GetOrLoad(dll string) (*nativeLibrary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[dll]; ok {
		return e.lib, nil
	}

	if len(c.order) >= c.maxLibraries {
		return nil, newError(ErrLibraryLoad, "", "", dll,
			errCacheFull(c.maxLibraries))
	}

	path := resolveLibraryPath(dll)
	lib, err := c.openFn(path)
	if err != nil {
		return nil, newError(ErrLibraryLoad, "", "", dll, err)
	}
	entry := &libraryCacheEntry{dll: dll, lib: lib}
	c.order = append(c.order, entry)
	c.entries[dll] = entry

	log.Printf("[ffi] loaded %s (cache id %s, %s resident)", dll, lib.id, humanize.Comma(int64(len(c.order))))
	return lib, nil
}

// Symbol resolves a function symbol in the named dll, loading the library
// first via GetOrLoad if needed. Symbol resolution itself is never cached:
// it is performed fresh on every call (`native_symbol(handle, name)`),
// per the spec — the lookup cost is dominated by the marshalling pass
// around it, so caching it would add a second cache tier for no benefit.
func (c *LibraryCache) Symbol(dll, symbolName string) (unsafe.Pointer, error) {
	lib, err := c.GetOrLoad(dll)
	if err != nil {
		return nil, err
	}
	return lib.resolve(symbolName)
}

// Shutdown is close_all: releases every resident handle in registration
// order. Safe to call multiple times.
func (c *LibraryCache) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.order {
		if err := entry.lib.close(); err != nil {
			log.Printf("[ffi] error closing library %s during shutdown: %v", entry.dll, err)
		}
	}
	c.order = nil
	c.entries = make(map[string]*libraryCacheEntry)
}

// Len reports how many libraries are currently resident, for diagnostics
// and tests.
func (c *LibraryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func errCacheFull(max int) error {
	return &cacheFullError{max: max}
}

type cacheFullError struct{ max int }

func (e *cacheFullError) Error() string {
	return "library cache already holds its " + strconv.Itoa(e.max) + "-library capacity"
}
