// Package lox strings the pipeline together: scan, parse, resolve,
// interpret. It owns the shared diagnostic reporter and maps its flags to
// the process exit codes.
package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/lox/interp"
	"github.com/rubiojr/lox/parser"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/resolver"
	"github.com/rubiojr/lox/scanner"
)

// Exit codes, BSD sysexits style.
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitStatic  = 65 // scan, parse, or resolve error
	ExitRuntime = 70
)

// Runner runs Lox programs against one persistent interpreter, so
// globals and definitions survive across REPL lines.
type Runner struct {
	rep    *report.Reporter
	interp *interp.Interpreter
}

// New creates a Runner printing to stdout and reporting to stderr.
func New() *Runner {
	rep := report.New()
	return &Runner{rep: rep, interp: interp.New(rep)}
}

// SetStdout redirects print output, for tests.
func (r *Runner) SetStdout(w io.Writer) {
	r.interp.Stdout = w
}

// SetStderr redirects diagnostics, for tests.
func (r *Runner) SetStderr(w io.Writer) {
	r.rep.Out = w
}

// Run executes a source string through the full pipeline. If any static
// error is reported the program is never executed.
func (r *Runner) Run(source string) {
	tokens := scanner.New(source, r.rep).ScanTokens()
	stmts := parser.New(tokens, r.rep).Parse()
	if r.rep.HadError {
		return
	}

	locals := resolver.New(r.rep).Resolve(stmts)
	if r.rep.HadError {
		return
	}

	r.interp.Resolve(locals)
	r.interp.Interpret(stmts)
}

// RunFile reads and executes a file, returning the process exit code.
func (r *Runner) RunFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.rep.Out, "cannot open %s: %v\n", path, err)
		return ExitUsage
	}
	r.Run(string(src))
	return r.ExitCode()
}

// ExitCode maps the reporter's state to an exit code.
func (r *Runner) ExitCode() int {
	switch {
	case r.rep.HadError:
		return ExitStatic
	case r.rep.HadRuntimeError:
		return ExitRuntime
	default:
		return ExitOK
	}
}

// Reset clears error flags between REPL lines.
func (r *Runner) Reset() {
	r.rep.Reset()
}
