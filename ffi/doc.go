// Package ffi bridges hey's user-space classes to native shared libraries.
//
// A class that extends the builtin FFI marker class and tags its methods
// with #[Extern(dll: "...", args: "...", ret: "...")] gets each method
// rewritten into a native call: the dll is opened (and cached) on first
// use, the method's argument/return type tags are parsed once at load
// time, and calling the method marshals hey values into C arguments, calls
// through libffi, and marshals the result back.
//
// LoadDeclarations performs the whole pipeline for a single PHP source
// file: parse it, find FFI classes, extract their Extern metadata, and
// register a ready-to-call ClassDescriptor for each one directly into
// registry.GlobalRegistry. There is no bytecode compilation step involved;
// FFI methods have no PHP body to compile, only native call metadata.
package ffi
