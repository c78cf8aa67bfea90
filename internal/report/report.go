// Package report renders pipeline outcomes as the fixed text records
// consumers parse. This is the only place output formatting decisions live.
package report

import (
	"fmt"
	"io"

	"wasm-mini/internal/pipeline"
)

// unknownError is rendered when the engine supplied no message.
const unknownError = "Unknown error"

// Reporter writes one record per pipeline run: success records to stdout,
// failure records to stderr.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer
}

// New creates a Reporter over the given streams.
func New(stdout, stderr io.Writer) *Reporter {
	return &Reporter{stdout: stdout, stderr: stderr}
}

// Report renders the outcome. Record shapes are byte-exact contracts:
//
//	[<STAGE>]
//	File   : <path>
//	Status : <token>
//
// with one Error line appended on failure.
func (r *Reporter) Report(o pipeline.Outcome) {
	if o.Result.OK {
		r.header(r.stdout, o)
		return
	}

	r.header(r.stderr, o)
	if o.Result.ContextKind != "" {
		// Context creation failures carry no engine code; none is
		// fabricated.
		fmt.Fprintf(r.stderr, "Error  : Failed to create %s context\n", o.Result.ContextKind)
		return
	}
	msg := o.Result.Message
	if msg == "" {
		msg = unknownError
	}
	// The [code] bracket is reserved for codes the engine actually
	// produced.
	if o.Result.HasCode {
		fmt.Fprintf(r.stderr, "Error  : [%d] %s\n", o.Result.Code, msg)
		return
	}
	fmt.Fprintf(r.stderr, "Error  : %s\n", msg)
}

func (r *Reporter) header(w io.Writer, o pipeline.Outcome) {
	fmt.Fprintf(w, "[%s]\n", o.Stage)
	fmt.Fprintf(w, "File   : %s\n", o.Path)
	fmt.Fprintf(w, "Status : %s\n", o.Status)
}
