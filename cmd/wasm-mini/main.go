package main

import (
	"errors"
	"os"

	"wasm-mini/internal/engine"
	"wasm-mini/internal/pipeline"
)

func main() {
	root := newRootCmd(engine.New())
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		// Anything else is a cobra usage error (unknown verb, bad
		// arguments), already printed by cobra.
		os.Exit(pipeline.ExitCLIError)
	}
}
