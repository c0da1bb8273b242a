package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rubiojr/lox/lox"
	"golang.org/x/term"
)

const (
	historyFile = ".lox_history"
	prompt      = "> "
)

// runREPL reads one statement per line and executes it against a
// persistent interpreter. Error flags reset between lines so a bad line
// does not poison later ones. When stdin is not a terminal the input is
// consumed line by line without prompts or line editing.
func runREPL() error {
	runner := lox.New()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runPipe(runner)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		runner.Run(terminate(line))
		runner.Reset()
		ln.AppendHistory(line)
	}
}

func runPipe(runner *lox.Runner) error {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		runner.Run(terminate(line))
		runner.Reset()
	}
	return sc.Err()
}

// terminate appends the ';' a quickly typed expression statement tends to
// drop. Lines already ending in ';' or '}' are complete as written.
func terminate(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return line
	}
	return trimmed + ";"
}
