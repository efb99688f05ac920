package ffi

import (
	"hash/fnv"
	"sync"
)

// MarkerClassName is the builtin class FFI-enabled classes must extend.
const MarkerClassName = "FFI"

// ExternAttribute is the attribute name that marks a method for native
// dispatch: #[Extern(dll: "math", args: "int,int", ret: "int")].
const ExternAttribute = "Extern"

// ClassEntry describes one FFI-enabled class: the user class that extends
// the FFI marker, and its own dynamic-library cache (C4). The cache is
// per-class, not shared across classes, so one class's dlopen traffic
// can never evict a handle a different class's methods still need.
type ClassEntry struct {
	ModuleName  string // source file the class was declared in
	ClassName   string // the PHP class name
	ClassHandle uint32 // stable identifier, assigned on registration
	Cache       *LibraryCache
}

// MethodEntry describes one #[Extern]-tagged method: its native binding
// metadata plus the symbol synthesized to identify it internally. The
// dll/args/ret fields are kept raw (unparsed) — validating them is a
// dispatch-time concern (§4.5 steps 6/8), not a load-time one, so a
// malformed method doesn't prevent the rest of its source file's classes
// from loading.
type MethodEntry struct {
	ClassHandle    uint32
	MethodSymbol   uint16 // FNV-1a(ClassHandle::MethodName) truncated to 16 bits
	MethodName     string
	ExternDLL      string // dll short name, e.g. "math"; empty means missing
	ExternArgsRaw  string // e.g. "int,int"; parsed fresh on every dispatch
	ExternRetRaw   string // e.g. "int"; parsed fresh on every dispatch
	AttrsExtracted bool
}

// defaultMaxCachedLibraries bounds how many distinct dlopen handles a
// single class's cache keeps resident at once; loading a not-yet-resident
// library past this cap is a hard error (ErrLibraryLoad), never an
// eviction. Matches the spec's library_cache <= N_LIB invariant.
const defaultMaxCachedLibraries = 32

// symbolFor synthesizes the 16-bit method_symbol for a given class handle
// and method name. hey has no pre-existing interned method-name table to
// allocate symbols from, so one is derived deterministically instead;
// collisions are resolved by the caller via linear probing within the
// owning class's method table (see MethodTable.put).
func symbolFor(classHandle uint32, methodName string, probe int) uint16 {
	h := fnv.New32a()
	h.Write([]byte{
		byte(classHandle), byte(classHandle >> 8),
		byte(classHandle >> 16), byte(classHandle >> 24),
	})
	h.Write([]byte("::"))
	h.Write([]byte(methodName))
	sum := h.Sum32()
	return uint16((sum + uint32(probe)) & 0xFFFF)
}

// classHandleSeq assigns monotonically increasing class handles; a real
// pointer-sized handle isn't needed since ClassTable is the only owner.
type classHandleSeq struct {
	mu   sync.Mutex
	next uint32
}

func (s *classHandleSeq) allocate() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}
