// Package pipeline runs the parse/validate/instantiate stages against a
// single module file, owning every engine handle it acquires. Handles are
// released in reverse order of acquisition on every exit path, including
// engine panics.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wasm-mini/internal/engine"
)

// Pipeline drives a module-processing engine through the staged checks.
// Each method runs one invocation to completion; handles never outlive the
// call that acquired them.
type Pipeline struct {
	engine engine.Engine
	log    *zap.Logger
}

// New creates a Pipeline over the given engine. A nil logger disables
// diagnostics.
func New(eng engine.Engine, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{engine: eng, log: log}
}

// Run executes the pipeline prefix for the given stage. A panic out of the
// engine is recovered into a failed outcome; deferred handle releases run
// during unwinding.
func (p *Pipeline) Run(stage Stage, path string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("recovered engine panic", zap.Any("panic", r))
			out = Outcome{
				Stage:  stage,
				Path:   path,
				Status: StatusFailed,
				Result: StageResult{Message: fmt.Sprintf("panic recovered: %v", r)},
			}
		}
	}()

	p.log.Debug("starting pipeline run",
		zap.String("stage", string(stage)),
		zap.String("file", path),
		zap.String("engine", p.engine.Version()))

	switch stage {
	case StageParse:
		return p.Parse(path)
	case StageValidate:
		return p.Validate(path)
	case StageInstantiate:
		return p.Instantiate(path)
	default:
		panic(fmt.Sprintf("unknown pipeline stage %q", stage))
	}
}

// Parse runs the first stage only: create a parser context and parse the
// module at path.
func (p *Pipeline) Parse(path string) Outcome {
	p.log.Debug("creating parser context")
	parser, err := p.engine.NewParser()
	if err != nil {
		return p.contextFailure(StageParse, path, err)
	}
	defer parser.Release()

	p.log.Debug("parsing module", zap.String("file", path))
	mod, err := parser.Parse(path)
	if mod != nil {
		// Take ownership immediately; a failed parse may still hand
		// back a partial handle.
		defer mod.Release()
	}
	if err != nil {
		return p.failure(StageParse, path, StatusFailed, err)
	}

	p.log.Debug("parse completed")
	return success(StageParse, path, StatusSuccess)
}

// Validate runs parse then semantic validation. A parse failure surfaces
// verbatim and the validator context is never acquired.
func (p *Pipeline) Validate(path string) Outcome {
	p.log.Debug("creating parser context")
	parser, err := p.engine.NewParser()
	if err != nil {
		return p.contextFailure(StageValidate, path, err)
	}
	defer parser.Release()

	p.log.Debug("parsing module", zap.String("file", path))
	mod, err := parser.Parse(path)
	if mod != nil {
		defer mod.Release()
	}
	if err != nil {
		return p.failure(StageValidate, path, StatusParseError, err)
	}

	p.log.Debug("creating validator context")
	validator, err := p.engine.NewValidator()
	if err != nil {
		return p.contextFailure(StageValidate, path, err)
	}
	defer validator.Release()

	p.log.Debug("validating module")
	if err := validator.Validate(mod); err != nil {
		return p.failure(StageValidate, path, StatusInvalid, err)
	}

	p.log.Debug("validation completed")
	return success(StageValidate, path, StatusValid)
}

// Instantiate runs the full pipeline inside one VM context: load, validate,
// instantiate, as three sequential engine calls. No guest function is
// invoked; success means the module state is instantiated and ready.
func (p *Pipeline) Instantiate(path string) Outcome {
	p.log.Debug("creating VM context")
	vm, err := p.engine.NewVM()
	if err != nil {
		return p.contextFailure(StageInstantiate, path, err)
	}
	defer vm.Release()

	p.log.Debug("loading module", zap.String("file", path))
	if err := vm.Load(path); err != nil {
		return p.failure(StageInstantiate, path, StatusLoadError, err)
	}

	p.log.Debug("validating loaded module")
	if err := vm.Validate(); err != nil {
		return p.failure(StageInstantiate, path, StatusValidationError, err)
	}

	p.log.Debug("instantiating module")
	if err := vm.Instantiate(); err != nil {
		return p.failure(StageInstantiate, path, StatusInstantiationError, err)
	}

	p.log.Debug("instantiation completed")
	return success(StageInstantiate, path, StatusReady)
}

func success(stage Stage, path string, status Status) Outcome {
	return Outcome{
		Stage:  stage,
		Path:   path,
		Status: status,
		Result: StageResult{OK: true},
	}
}

func (p *Pipeline) failure(stage Stage, path string, status Status, err error) Outcome {
	res := StageResult{Message: err.Error()}
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		res.Code = engErr.Code
		res.HasCode = true
		res.Message = engErr.Message
	}
	p.log.Debug("stage failed",
		zap.String("stage", string(stage)),
		zap.String("status", string(status)),
		zap.Error(err))
	return Outcome{Stage: stage, Path: path, Status: status, Result: res}
}

func (p *Pipeline) contextFailure(stage Stage, path string, err error) Outcome {
	res := StageResult{Message: err.Error()}
	var ctxErr *engine.ContextError
	if errors.As(err, &ctxErr) {
		res.ContextKind = ctxErr.Kind
	}
	p.log.Debug("context creation failed",
		zap.String("stage", string(stage)),
		zap.Error(err))
	return Outcome{Stage: stage, Path: path, Status: StatusFailed, Result: res}
}
