package ffi

import (
	"fmt"
	"log"
	"sync"

	"github.com/heylang/hey/registry"
	"github.com/heylang/hey/runtime"
	"github.com/heylang/hey/values"
)

// Bridge owns every piece of bridge state: the class/method registries
// (C2/C3), each reachable class's own library cache (C4) living on its
// ClassEntry. A process normally has exactly one, reachable through the
// package-level Install/LoadDeclarations/Shutdown functions, but Bridge
// itself takes no global state so tests can create independent instances.
type Bridge struct {
	host    HostVM
	classes *ClassTable
	methods *MethodTable
}

// NewBridge creates a bridge wired to the given host. Most callers want
// the package-level singleton via Install instead.
func NewBridge(host HostVM) *Bridge {
	return &Bridge{
		host:    host,
		classes: NewClassTable(),
		methods: NewMethodTable(),
	}
}

var (
	defaultOnce sync.Once
	defaultOne  *Bridge
)

// Default returns the process-wide bridge, wired to registry.GlobalRegistry,
// creating it (and registering FFIException/the FFI marker class) on first
// use. registry.Initialize() must have already run.
func Default() *Bridge {
	defaultOnce.Do(func() {
		registry.Initialize()
		if err := registerFFIExceptionClass(registry.GlobalRegistry); err != nil {
			log.Printf("[ffi] failed to register FFIException: %v", err)
		}
		if err := registerMarkerClass(registry.GlobalRegistry); err != nil {
			log.Printf("[ffi] failed to register FFI marker class: %v", err)
		}
		defaultOne = NewBridge(NewHostVM(registry.GlobalRegistry))
	})
	return defaultOne
}

// LoadDeclarations scans PHP source for FFI-enabled classes and installs
// each one into the host, ready to be `new`'d and called. moduleName is
// recorded on each ClassEntry for diagnostics; it need not be a real path.
func LoadDeclarations(moduleName, source string) error {
	return Default().LoadDeclarations(moduleName, source)
}

// Install is the host-facing entry point: it scans declarationSource for
// classes that extend the FFI marker and installs them into the default
// bridge. It is the moral equivalent of install_ffi(vm) — idempotent per
// process, since LoadDeclarations skips a class the host already has
// registered. The host passes the same source it is about to run; classes
// with no #[Extern] methods and sources with no FFI classes at all are a
// no-op, so calling this unconditionally before every execution is safe.
func Install(declarationSource []byte) error {
	return LoadDeclarations("<script>", string(declarationSource))
}

// Shutdown runs close_all on every class's library cache on the default
// bridge. Safe to call even if Install/LoadDeclarations was never called.
func Shutdown() {
	if defaultOne != nil {
		defaultOne.Shutdown()
	}
}

// LoadDeclarations is the instance method backing the package-level
// function of the same name; see its docs.
func (b *Bridge) LoadDeclarations(moduleName, source string) error {
	result, err := scanSource(source)
	if err != nil {
		return err
	}
	for _, sc := range result.classes {
		if err := b.installClass(moduleName, sc); err != nil {
			return fmt.Errorf("ffi: %s: %w", sc.className, err)
		}
	}
	return nil
}

// Shutdown releases every surviving native library handle across every
// registered class, in each class's own registration order.
func (b *Bridge) Shutdown() {
	for _, entry := range b.classes.All() {
		entry.Cache.Shutdown()
	}
}

// installClass registers a class and every one of its #[Extern]-tagged
// methods. A method with no dll, or with an args/ret tag that won't parse,
// is still registered: validating that metadata is a dispatch-time concern
// (§4.5 steps 6/8), so one malformed method must not prevent the rest of
// this class — or any other class in the same source file — from loading.
func (b *Bridge) installClass(moduleName string, sc scannedClass) error {
	if b.host.ClassExists(sc.className) {
		return nil
	}

	entry := b.classes.Register(moduleName, sc.className)
	methodDescs := make(map[string]*registry.MethodDescriptor, len(sc.methods))

	for _, m := range sc.methods {
		methodEntry := &MethodEntry{
			MethodName:     m.name,
			ExternDLL:      m.dll,
			ExternArgsRaw:  m.args,
			ExternRetRaw:   m.ret,
			AttrsExtracted: true,
		}
		if err := b.methods.Put(entry.ClassHandle, m.name, methodEntry); err != nil {
			return err
		}

		// Only used to size the Parameters list the VM's argument-binding
		// path expects; the tags themselves are validated fresh on every
		// dispatch (parseArgTags), not here.
		rawArgs := splitRawFields(m.args)

		builtinFn := &registry.Function{
			Name:       m.name,
			IsBuiltin:  true,
			Builtin:    b.trampoline(entry, methodEntry),
			Parameters: parameterList(rawArgs),
		}
		methodDescs[m.name] = &registry.MethodDescriptor{
			Name:           m.name,
			Visibility:     "public",
			Parameters:     parameterDescriptorList(rawArgs),
			Implementation: &runtime.BuiltinMethodImpl{Function: builtinFn},
		}
	}

	desc := &registry.ClassDescriptor{
		Name:       sc.className,
		Parent:     MarkerClassName,
		Properties: make(map[string]*registry.PropertyDescriptor),
		Methods:    methodDescs,
		Constants:  make(map[string]*registry.ConstantDescriptor),
	}
	return b.host.RegisterClass(desc)
}

// trampoline is the C5 Dispatch Trampoline: one bound closure per method,
// closing over its owning ClassEntry (for the receiver check and the
// per-class library cache) and its resolved MethodEntry, instead of
// reading an opcode's operand to find out which native function to call
// (see REDESIGN FLAGS in SPEC_FULL.md for why: hey's Builtin functions are
// never handed the instruction that invoked them).
func (b *Bridge) trampoline(entry *ClassEntry, method *MethodEntry) registry.BuiltinImplementation {
	return func(ctx registry.BuiltinCallContext, args []*values.Value) (*values.Value, error) {
		// Step 1: identify target class from receiver slot 0. The VM
		// prepends `this` for method calls; anything other than a live
		// instance of this exact FFI-bound class means the call didn't
		// actually arrive through a registered ClassEntry.
		if len(args) == 0 {
			return nil, throwFFIException(ctx, newError(ErrUnregisteredClass, entry.ClassName, method.MethodName,
				"missing receiver", nil))
		}
		receiver, ok := args[0].Data.(*values.Object)
		if !ok || receiver.ClassName != entry.ClassName {
			return nil, throwFFIException(ctx, newError(ErrUnregisteredClass, entry.ClassName, method.MethodName,
				"foreign receiver is not a class or instance", nil))
		}
		callArgs := args[1:]

		// Step 6: a missing dll aborts with MissingMetadata.
		if method.ExternDLL == "" {
			return nil, throwFFIException(ctx, newError(ErrMissingMetadata, entry.ClassName, method.MethodName, "", nil))
		}

		// Step 8: parse the args/ret signature fresh on every call.
		argTags, err := parseArgTags(method.ExternArgsRaw)
		if err != nil {
			return nil, throwFFIException(ctx, newError(ErrUnsupportedType, entry.ClassName, method.MethodName, err.Error(), err))
		}
		retTag, err := parseRetTag(method.ExternRetRaw)
		if err != nil {
			return nil, throwFFIException(ctx, newError(ErrUnsupportedType, entry.ClassName, method.MethodName, err.Error(), err))
		}
		if len(callArgs) != len(argTags) {
			return nil, throwFFIException(ctx, newError(ErrUnsupportedType, entry.ClassName, method.MethodName,
				fmt.Sprintf("expected %d argument(s), got %d", len(argTags), len(callArgs)), nil))
		}

		native := make([]interface{}, len(callArgs))
		for i, tag := range argTags {
			v, err := marshalArg(tag, callArgs[i])
			if err != nil {
				return nil, throwFFIException(ctx, newError(ErrUnsupportedType, entry.ClassName, method.MethodName, err.Error(), err))
			}
			native[i] = v
		}

		// Step 7 (via C4): resolve the library (get_or_load) and the
		// symbol inside it, fresh, every call.
		sym, err := entry.Cache.Symbol(method.ExternDLL, method.MethodName)
		if err != nil {
			return nil, throwFFIException(ctx, asError(ErrSymbolNotFound, entry.ClassName, method.MethodName, err))
		}

		// Steps 9-11: build the call-interface descriptor and invoke.
		result, err := invokeNative(sym, argTags, retTag, native)
		if err != nil {
			return nil, throwFFIException(ctx, asError(ErrCifPrepFailed, entry.ClassName, method.MethodName, err))
		}

		value, err := unmarshalResult(retTag, result)
		if err != nil {
			return nil, throwFFIException(ctx, newError(ErrUnsupportedType, entry.ClassName, method.MethodName, err.Error(), err))
		}
		return value, nil
	}
}

// parameterList builds the Function-level parameter metadata the VM's
// argument-binding path expects; FFI methods have no PHP-level parameter
// names, so ones are synthesized from position.
func parameterList(rawArgs []string) []*registry.Parameter {
	params := make([]*registry.Parameter, len(rawArgs))
	for i, tag := range rawArgs {
		params[i] = &registry.Parameter{Name: fmt.Sprintf("a%d", i), Type: tag}
	}
	return params
}

func parameterDescriptorList(rawArgs []string) []*registry.ParameterDescriptor {
	params := make([]*registry.ParameterDescriptor, len(rawArgs))
	for i, tag := range rawArgs {
		params[i] = &registry.ParameterDescriptor{Name: fmt.Sprintf("a%d", i), Type: tag}
	}
	return params
}
