package ffi

import (
	"github.com/heylang/hey/registry"
	"github.com/heylang/hey/runtime"
	"github.com/heylang/hey/values"
)

// HostVM is the C1 Host-VM Adapter: the narrow slice of VM/registry
// services the bridge needs, kept as an interface so registry.Registry
// itself (the production implementation) and a test double can both
// satisfy it. Mirrors how vm.builtinContext narrows VM internals down to
// registry.BuiltinCallContext for the rest of the builtin surface.
type HostVM interface {
	// RegisterClass installs a fully-built class (including its native
	// dispatch methods) so ordinary `new Foo` / method-call bytecode
	// resolves it without any further compilation step.
	RegisterClass(desc *registry.ClassDescriptor) error
	// ClassExists reports whether a class is already registered, so
	// re-running LoadDeclarations against the same module is idempotent.
	ClassExists(name string) bool
}

// registryHostVM adapts registry.Registry (almost always
// registry.GlobalRegistry) to HostVM.
type registryHostVM struct {
	reg *registry.Registry
}

// NewHostVM wraps a registry.Registry as a HostVM.
func NewHostVM(reg *registry.Registry) HostVM {
	return &registryHostVM{reg: reg}
}

func (h *registryHostVM) RegisterClass(desc *registry.ClassDescriptor) error {
	return h.reg.RegisterClass(desc)
}

func (h *registryHostVM) ClassExists(name string) bool {
	_, err := h.reg.GetClass(name)
	return err == nil
}

// throwFFIException builds an FFIException for the given bridge error and
// routes it through the host's normal catch/finally machinery, returning
// whatever ctx.ThrowException returns (nil if a PHP handler caught it, a
// real error if it escaped uncaught).
func throwFFIException(ctx registry.BuiltinCallContext, err *Error) error {
	exc := runtime.CreateException(ctx, FFIExceptionClassName, err.Error())
	if exc == nil {
		return err
	}
	if obj, ok := exc.Data.(*values.Object); ok {
		obj.Properties["kind"] = values.NewString(err.Kind.code())
	}
	return ctx.ThrowException(exc)
}
