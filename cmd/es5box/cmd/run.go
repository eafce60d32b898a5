package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/es5box/es5box/internal/value"
	"github.com/es5box/es5box/pkg/es5box"
	"github.com/robertkrimen/otto/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	dumpAST      bool
	trace        bool
	regexModeStr string
	regexTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ES5 program from a file or inline expression",
	Long: `Execute an ECMAScript 5 program from a file or inline expression
against the sandbox.

Examples:
  # Run a script file
  es5box run script.js

  # Evaluate an inline expression
  es5box run -e "1 + 2;"

  # Run with AST dump (for debugging)
  es5box run --dump-ast script.js

  # Run with a disabled regex backend
  es5box run --regexp-mode disabled script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution, printing each step (for debugging)")
	runCmd.Flags().StringVar(&regexModeStr, "regexp-mode", "native", "regular expression backend: disabled, native, or sandboxed")
	runCmd.Flags().DurationVar(&regexTimeout, "regexp-timeout", 2*time.Second, "timeout for a single sandboxed regexp match (only with --regexp-mode sandboxed)")
}

func runScript(_ *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	mode, err := parseRegexMode(regexModeStr)
	if err != nil {
		return err
	}

	if dumpAST {
		program, err := parser.ParseFile(nil, filename, input, 0)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		fmt.Println("AST:")
		fmt.Printf("%#v\n\n", program)
	}

	opts := []es5box.Option{
		es5box.WithRegexMode(mode),
		es5box.WithRegexTimeout(regexTimeout),
		es5box.WithPrint(func(s string) { fmt.Println(s) }),
	}

	interpreter, err := es5box.New(input, opts...)
	if err != nil {
		return err
	}

	if trace {
		for {
			more, err := interpreter.Step()
			if err != nil {
				return reportRuntimeError(err)
			}
			if !more {
				break
			}
			fmt.Fprintf(os.Stderr, "[step] %s\n", value.ToPrimitiveString(interpreter.Value()))
		}
		return nil
	}

	if _, err := interpreter.Run(); err != nil {
		return reportRuntimeError(err)
	}
	return nil
}

func parseRegexMode(s string) (es5box.RegexMode, error) {
	switch s {
	case "disabled":
		return es5box.RegexDisabled, nil
	case "native":
		return es5box.RegexNative, nil
	case "sandboxed":
		return es5box.RegexSandboxed, nil
	default:
		return 0, fmt.Errorf("unknown --regexp-mode %q (want disabled, native, or sandboxed)", s)
	}
}

func reportRuntimeError(err error) error {
	fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
	return fmt.Errorf("execution failed")
}
