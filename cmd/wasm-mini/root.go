package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wasm-mini/internal/engine"
	"wasm-mini/internal/pipeline"
	"wasm-mini/internal/report"
)

const version = "0.1.0"

var (
	// verbose enables diagnostic logging
	verbose bool

	// logger is built in PersistentPreRunE and threaded into the pipeline
	logger *zap.Logger
)

// exitError carries the process exit code out of a command handler.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// stageVerbs is the closed verb-to-stage mapping. Adding an entry here is
// the only way to extend the CLI surface with a new pipeline verb.
var stageVerbs = []struct {
	use   string
	short string
	stage pipeline.Stage
}{
	{"parse", "Parse a WebAssembly module", pipeline.StageParse},
	{"validate", "Validate a WebAssembly module", pipeline.StageValidate},
	{"instantiate", "Instantiate a WebAssembly module", pipeline.StageInstantiate},
}

// newRootCmd builds the command tree over the given engine.
func newRootCmd(eng engine.Engine) *cobra.Command {
	root := &cobra.Command{
		Use:   "wasm-mini <command> <file.wasm>",
		Short: "A mini CLI tool mirroring WasmEdge CLI sub-commands",
		Long: `wasm-mini checks that a WebAssembly module can be loaded, is well-formed,
and can be instantiated. It never executes any function inside the module.

Each command runs a prefix of the parse -> validate -> instantiate pipeline
and reports a structured result record.

Examples:
  wasm-mini parse example.wasm
  wasm-mini validate example.wasm
  wasm-mini --verbose instantiate example.wasm`,
		Version: fmt.Sprintf("%s (WasmEdge %s)", version, eng.Version()),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation is a usage error, matching the exit
			// contract for missing verbs.
			cmd.SilenceErrors = true
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: No command specified.")
			_ = cmd.Help()
			return &exitError{code: pipeline.ExitCLIError}
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	for _, verb := range stageVerbs {
		stage := verb.stage
		root.AddCommand(&cobra.Command{
			Use:   verb.use + " <file.wasm>",
			Short: verb.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStage(cmd, eng, stage, args[0])
			},
		})
	}

	return root
}

// runStage validates the input file, runs the pipeline prefix for the given
// stage, and reports the outcome. Arguments are already validated by cobra;
// everything that fails from here on is not a usage error.
func runStage(cmd *cobra.Command, eng engine.Engine, stage pipeline.Stage, path string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := checkFile(path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return &exitError{code: pipeline.ExitCLIError}
	}
	if !strings.HasSuffix(path, ".wasm") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: File does not have .wasm extension: %s\n", path)
	}
	logger.Debug("file validation passed", zap.String("file", path))

	outcome := pipeline.New(eng, logger).Run(stage, path)
	report.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Report(outcome)

	if code := outcome.ExitCode(); code != pipeline.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

// checkFile verifies that path names an existing regular file. Extension
// and format are the engine's business, not ours.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("File not found: %s", path)
	}
	return nil
}
