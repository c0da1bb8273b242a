// Package report collects and formats diagnostics for the scanner, parser,
// resolver, and interpreter. All stages share one Reporter so a run can
// surface every static error before deciding whether to execute.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/lox/token"
)

// Reporter is the diagnostic sink. HadError covers lexical, syntactic, and
// resolution errors; HadRuntimeError covers evaluation failures.
type Reporter struct {
	Out             io.Writer
	HadError        bool
	HadRuntimeError bool
}

// New returns a Reporter writing to stderr.
func New() *Reporter {
	return &Reporter{Out: os.Stderr}
}

// Error reports an error with a bare line number, as the scanner does.
func (r *Reporter) Error(line int, message string) {
	r.HadError = true
	fmt.Fprintf(r.Out, "[line %d] Error: %s\n", line, message)
}

// ErrorAt reports an error attached to a token, as the parser and resolver
// do.
func (r *Reporter) ErrorAt(tok token.Token, message string) {
	r.HadError = true
	if tok.Kind == token.EOF {
		fmt.Fprintf(r.Out, "[line %d] Error at end: %s\n", tok.Line, message)
	} else {
		fmt.Fprintf(r.Out, "[line %d] Error at '%s': %s\n", tok.Line, tok.Lexeme, message)
	}
}

// Runtime reports an evaluation failure at the offending source line.
func (r *Reporter) Runtime(line int, message string) {
	r.HadRuntimeError = true
	fmt.Fprintf(r.Out, "%s\n[line %d]\n", message, line)
}

// Reset clears both error flags. The REPL calls this between lines so one
// bad line does not poison the next.
func (r *Reporter) Reset() {
	r.HadError = false
	r.HadRuntimeError = false
}
