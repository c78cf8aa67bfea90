package pipeline

// Stage identifies which pipeline prefix a run executes. The value is also
// the record header token in the report output.
type Stage string

const (
	StageParse       Stage = "PARSE"
	StageValidate    Stage = "VALIDATE"
	StageInstantiate Stage = "INSTANTIATE"
)

// Status tokens are part of the output contract; consumers parse them
// verbatim, so the literals must not change.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusValid   Status = "VALID"
	StatusReady   Status = "READY"

	StatusFailed             Status = "FAILED"
	StatusParseError         Status = "FAILED (Parse Error)"
	StatusInvalid            Status = "INVALID"
	StatusLoadError          Status = "FAILED (Load Error)"
	StatusValidationError    Status = "FAILED (Validation Error)"
	StatusInstantiationError Status = "FAILED (Instantiation Error)"
)

// Exit codes returned by the wasm-mini CLI. Exported so external tools can
// check them symbolically.
const (
	// ExitOK indicates the requested pipeline prefix completed.
	ExitOK = 0
	// ExitCLIError indicates a usage error resolved before the pipeline
	// was entered (unknown verb, missing argument, missing file).
	ExitCLIError = 1
	// ExitRuntimeError indicates an engine failure in some stage.
	ExitRuntimeError = 2
)

// StageResult is the uniform outcome of one engine-backed stage, decoupling
// the engine's error representation from the reporting layer.
type StageResult struct {
	OK bool
	// Code and Message come from the engine when an operation failed.
	// HasCode records that Code was sourced from the engine; failures
	// without one (recovered panics, non-engine errors) carry only the
	// message.
	Code    uint32
	HasCode bool
	Message string
	// ContextKind is set instead of Code/Message when the engine refused
	// to allocate a context of that kind.
	ContextKind string
}

// Outcome aggregates one pipeline run: the stage that was requested, the
// input path, the status token to report, and the stage result.
type Outcome struct {
	Stage  Stage
	Path   string
	Status Status
	Result StageResult
}

// ExitCode is a pure function of the result variant.
func (o Outcome) ExitCode() int {
	if o.Result.OK {
		return ExitOK
	}
	return ExitRuntimeError
}
