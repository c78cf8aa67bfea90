//go:build integration
// +build integration

package engine

import (
	"errors"
	"fmt"

	"github.com/second-state/WasmEdge-go/wasmedge"
)

// New returns the WasmEdge-backed engine. Requires the WasmEdge shared
// library to be installed; build with -tags=integration.
func New() Engine {
	wasmedge.SetLogErrorLevel()
	return wasmEdgeEngine{}
}

type wasmEdgeEngine struct{}

func (wasmEdgeEngine) NewParser() (Parser, error) {
	loader := wasmedge.NewLoader()
	if loader == nil {
		return nil, &ContextError{Kind: KindParser}
	}
	return &wasmEdgeParser{loader: loader}, nil
}

func (wasmEdgeEngine) NewValidator() (Validator, error) {
	validator := wasmedge.NewValidator()
	if validator == nil {
		return nil, &ContextError{Kind: KindValidator}
	}
	return &wasmEdgeValidator{validator: validator}, nil
}

func (wasmEdgeEngine) NewVM() (VM, error) {
	vm := wasmedge.NewVM()
	if vm == nil {
		return nil, &ContextError{Kind: KindVM}
	}
	return &wasmEdgeVM{vm: vm}, nil
}

func (wasmEdgeEngine) Version() string {
	return wasmedge.GetVersion()
}

type wasmEdgeParser struct {
	loader *wasmedge.Loader
}

func (p *wasmEdgeParser) Parse(path string) (Module, error) {
	ast, err := p.loader.LoadFile(path)
	var mod Module
	if ast != nil {
		// Even on failure the loader may hand back a partial AST that
		// the caller must release.
		mod = &wasmEdgeModule{ast: ast}
	}
	return mod, wrapResult(err)
}

func (p *wasmEdgeParser) Release() {
	p.loader.Release()
}

type wasmEdgeModule struct {
	ast *wasmedge.AST
}

func (m *wasmEdgeModule) Release() {
	m.ast.Release()
}

type wasmEdgeValidator struct {
	validator *wasmedge.Validator
}

func (v *wasmEdgeValidator) Validate(mod Module) error {
	wem, ok := mod.(*wasmEdgeModule)
	if !ok {
		return fmt.Errorf("module handle was not produced by this engine")
	}
	return wrapResult(v.validator.Validate(wem.ast))
}

func (v *wasmEdgeValidator) Release() {
	v.validator.Release()
}

type wasmEdgeVM struct {
	vm *wasmedge.VM
}

func (v *wasmEdgeVM) Load(path string) error {
	return wrapResult(v.vm.LoadWasmFile(path))
}

func (v *wasmEdgeVM) Validate() error {
	return wrapResult(v.vm.Validate())
}

func (v *wasmEdgeVM) Instantiate() error {
	return wrapResult(v.vm.Instantiate())
}

func (v *wasmEdgeVM) Release() {
	v.vm.Release()
}

// wrapResult converts a wasmedge result error into an Error carrying the
// engine's numeric code and message. Errors without an engine result pass
// through unchanged; no code is fabricated for them.
func wrapResult(err error) error {
	if err == nil {
		return nil
	}
	var res *wasmedge.Result
	if errors.As(err, &res) {
		return &Error{Code: uint32(res.GetCode()), Message: res.Error()}
	}
	return err
}
