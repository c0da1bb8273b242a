// Package cmd implements the lox command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/lox/ast"
	"github.com/rubiojr/lox/lox"
	"github.com/rubiojr/lox/parser"
	"github.com/rubiojr/lox/report"
	"github.com/rubiojr/lox/scanner"
	"github.com/urfave/cli/v3"
)

// Execute runs the lox CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "lox",
		Usage:                  "A tree-walking interpreter for the Lox language",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `lox script.lox` as shorthand for `lox run script.lox`,
		// and `lox` alone to start the REPL.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			switch cmd.NArg() {
			case 0:
				return runREPL()
			case 1:
				os.Exit(lox.New().RunFile(cmd.Args().First()))
			default:
				fmt.Fprintf(os.Stderr, "Usage: lox [script]\n")
				os.Exit(lox.ExitUsage)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a .lox file",
				ArgsUsage: "<file.lox>",
				Action:    runAction,
			},
			{
				Name:   "repl",
				Usage:  "Start an interactive session",
				Action: replAction,
			},
			{
				Name:      "tokens",
				Usage:     "Dump the token stream of a .lox file",
				ArgsUsage: "<file.lox>",
				Action:    tokensAction,
			},
			{
				Name:      "ast",
				Usage:     "Dump the parsed syntax tree of a .lox file",
				ArgsUsage: "<file.lox>",
				Action:    astAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lox run <file.lox>\n")
		os.Exit(lox.ExitUsage)
	}
	os.Exit(lox.New().RunFile(cmd.Args().First()))
	return nil
}

func replAction(ctx context.Context, cmd *cli.Command) error {
	return runREPL()
}

func tokensAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lox tokens <file.lox>\n")
		os.Exit(lox.ExitUsage)
	}

	src, err := os.ReadFile(cmd.Args().First())
	if err != nil {
		return err
	}

	rep := report.New()
	for _, tok := range scanner.New(string(src), rep).ScanTokens() {
		fmt.Printf("%4d %v\n", tok.Line, tok)
	}
	if rep.HadError {
		os.Exit(lox.ExitStatic)
	}
	return nil
}

func astAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lox ast <file.lox>\n")
		os.Exit(lox.ExitUsage)
	}

	src, err := os.ReadFile(cmd.Args().First())
	if err != nil {
		return err
	}

	rep := report.New()
	tokens := scanner.New(string(src), rep).ScanTokens()
	stmts := parser.New(tokens, rep).Parse()
	if rep.HadError {
		os.Exit(lox.ExitStatic)
	}

	fmt.Print(ast.Print(stmts))
	return nil
}
