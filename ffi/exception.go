package ffi

import (
	"fmt"

	"github.com/heylang/hey/registry"
	"github.com/heylang/hey/runtime"
	"github.com/heylang/hey/values"
)

// FFIExceptionClassName is thrown for every bridge failure: bad
// signatures, failed loads, missing symbols, and failed native calls.
const FFIExceptionClassName = "FFIException"

// registerFFIExceptionClass installs FFIException as a subclass of
// Exception, following registerExceptionClass's own shape exactly: a
// single extra read-only property ("kind") alongside everything Exception
// already provides. Inheriting getMessage/getCode/etc. happens for free
// through the existing parent-class resolution in class_manager.go.
func registerFFIExceptionClass(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("ffi: registry not initialized")
	}

	getKindImpl := &registry.Function{
		Name:      "getKind",
		IsBuiltin: true,
		Builtin: func(ctx registry.BuiltinCallContext, args []*values.Value) (*values.Value, error) {
			if len(args) < 1 || !args[0].IsObject() {
				return values.NewString(""), nil
			}
			obj := args[0].Data.(*values.Object)
			if kind, ok := obj.Properties["kind"]; ok {
				return kind, nil
			}
			return values.NewString(""), nil
		},
		Parameters: []*registry.Parameter{},
	}

	methods := map[string]*registry.MethodDescriptor{
		"getKind": {
			Name:           "getKind",
			Visibility:     "public",
			Parameters:     []*registry.ParameterDescriptor{},
			Implementation: &runtime.BuiltinMethodImpl{Function: getKindImpl},
		},
	}

	properties := map[string]*registry.PropertyDescriptor{
		"kind": {
			Name:         "kind",
			Visibility:   "protected",
			Type:         "string",
			DefaultValue: values.NewString(""),
		},
	}

	desc := &registry.ClassDescriptor{
		Name:       FFIExceptionClassName,
		Parent:     "Exception",
		Properties: properties,
		Methods:    methods,
		Constants:  make(map[string]*registry.ConstantDescriptor),
	}

	return reg.RegisterClass(desc)
}

// registerMarkerClass installs the empty FFI marker class that
// #[Extern]-using classes extend. It carries no methods of its own; it
// exists only so `class Math extends FFI` resolves to something and the
// spec's "FFI marker class" concept has a concrete class identity.
func registerMarkerClass(reg *registry.Registry) error {
	if reg == nil {
		return fmt.Errorf("ffi: registry not initialized")
	}
	if _, err := reg.GetClass(MarkerClassName); err == nil {
		return nil
	}
	desc := &registry.ClassDescriptor{
		Name:       MarkerClassName,
		IsAbstract: true,
		Properties: make(map[string]*registry.PropertyDescriptor),
		Methods:    make(map[string]*registry.MethodDescriptor),
		Constants:  make(map[string]*registry.ConstantDescriptor),
	}
	return reg.RegisterClass(desc)
}
