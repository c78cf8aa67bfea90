// Package engine abstracts the WASM module-processing engine behind small
// per-capability interfaces so the pipeline can be tested without the
// WasmEdge shared library. This mirrors the WasmEdge C API surface: every
// context is acquired fallibly, operated fallibly, and released exactly once.
package engine

import "fmt"

// Handle kind names, used in context-creation error reports.
const (
	KindParser    = "parser"
	KindValidator = "validator"
	KindVM        = "VM"
)

// Engine provides the capability contexts the pipeline consumes.
type Engine interface {
	// NewParser creates a parser context.
	NewParser() (Parser, error)
	// NewValidator creates a validator context.
	NewValidator() (Validator, error)
	// NewVM creates a VM context.
	NewVM() (VM, error)
	// Version reports the underlying engine version string.
	Version() string
}

// Parser parses a module from a file path.
type Parser interface {
	// Parse parses the module at path. It may return a non-nil partial
	// module handle together with an error; the caller owns the handle
	// either way and must release it.
	Parse(path string) (Module, error)
	Release()
}

// Module is a parsed-module handle produced by a Parser.
type Module interface {
	Release()
}

// Validator performs semantic validation of a parsed module.
type Validator interface {
	Validate(mod Module) error
	Release()
}

// VM loads, validates, and instantiates a module inside one engine context.
// No guest function is ever invoked through this interface.
type VM interface {
	Load(path string) error
	Validate() error
	Instantiate() error
	Release()
}

// Error is a failed engine operation carrying the engine's numeric error
// code and message. The code is never fabricated on this side of the
// boundary.
type Error struct {
	Code    uint32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// ContextError reports that the engine refused to allocate a context of the
// given kind. No engine code or message is available at construction time.
type ContextError struct {
	Kind string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("failed to create %s context", e.Kind)
}
