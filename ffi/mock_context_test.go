package ffi

import (
	"fmt"

	"github.com/heylang/hey/registry"
	"github.com/heylang/hey/values"
)

// mockContext is a minimal registry.BuiltinCallContext for exercising
// trampoline closures without a real VM, in the same style as
// runtime/spl/mock_context_test.go.
type mockContext struct {
	reg          *registry.Registry
	thrown       []*values.Value
	throwCatches bool // if true, ThrowException reports the exception was caught
}

func newMockContext() *mockContext {
	registry.Initialize()
	return &mockContext{reg: registry.GlobalRegistry}
}

func (m *mockContext) WriteOutput(val *values.Value) error           { return nil }
func (m *mockContext) GetGlobal(name string) (*values.Value, bool)   { return nil, false }
func (m *mockContext) SetGlobal(name string, val *values.Value)      {}
func (m *mockContext) SymbolRegistry() *registry.Registry            { return m.reg }
func (m *mockContext) LookupUserFunction(name string) (*registry.Function, bool) {
	return nil, false
}
func (m *mockContext) LookupUserClass(name string) (*registry.Class, bool) { return nil, false }
func (m *mockContext) Halt(exitCode int, message string) error            { return nil }
func (m *mockContext) GetExecutionContext() registry.ExecutionContextInterface {
	return nil
}
func (m *mockContext) GetOutputBufferStack() registry.OutputBufferStackInterface {
	return nil
}

func (m *mockContext) ThrowException(exception *values.Value) error {
	m.thrown = append(m.thrown, exception)
	if m.throwCatches {
		return nil
	}
	return fmt.Errorf("uncaught exception: %v", exception)
}
