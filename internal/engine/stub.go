//go:build !integration
// +build !integration

package engine

// New returns a stub engine for builds without the WasmEdge shared library.
// Every context acquisition fails, so pipeline runs report a context
// creation failure instead of touching cgo. Build with -tags=integration
// for the real engine.
func New() Engine {
	return stubEngine{}
}

type stubEngine struct{}

func (stubEngine) NewParser() (Parser, error) {
	return nil, &ContextError{Kind: KindParser}
}

func (stubEngine) NewValidator() (Validator, error) {
	return nil, &ContextError{Kind: KindValidator}
}

func (stubEngine) NewVM() (VM, error) {
	return nil, &ContextError{Kind: KindVM}
}

func (stubEngine) Version() string {
	return "unavailable (built without -tags=integration)"
}
