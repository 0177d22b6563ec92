package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	ilog "github.com/lammm/lammm/internal/log"
	"github.com/lammm/lammm/interp"
	"github.com/lammm/lammm/parser"
	"github.com/lammm/lammm/printer"
	"github.com/lammm/lammm/typectx"
	"github.com/lammm/lammm/typer"
)

var (
	flagMaxSteps int
	flagASCIIMu  bool
	flagTrace    bool
)

// RunCmd parses, type-checks and runs a program read from a file argument or,
// if none is given, from stdin, printing one result line per top-level
// statement.
var RunCmd = &cobra.Command{
	Use:          "run [file.lammm]",
	Short:        "Parse, type-check and run a program, reading from stdin if no file is given",
	RunE:         runRun,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
}

func init() {
	RunCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "abort a statement's reduction after this many steps (0 = unbounded)")
	RunCmd.Flags().BoolVar(&flagASCIIMu, "ascii-mu", true, "render mu/mu' bindings in ASCII rather than Unicode")
	RunCmd.Flags().BoolVar(&flagTrace, "trace", false, "log each interpreter reduction step at debug level on stderr")
}

// runRun is the direct parse -> type-check -> interpret pipeline. Exit
// codes follow the ilerr kind hierarchy: 0 success, 1 parse error, 2 type
// error, 3 runtime/stuck error.
func runRun(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if flagTrace {
		level = slog.LevelDebug
	}
	logger := ilog.New(level)

	var src io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return ilerr.Wrap(err, "opening "+args[0])
		}
		defer f.Close()
		src = f
	}

	ctx := typectx.New(logger)
	p := parser.New(src, ctx)
	prog, err := p.ParseProgram()
	if err != nil {
		return exitError(1, err)
	}

	ty := typer.New(ctx, logger)
	if err := ty.CheckProgram(prog); err != nil {
		return exitError(2, err)
	}

	in := interp.New(prog, ast.VarId(p.NVars()), ast.CovarId(p.NCovars()), flagMaxSteps, logger)
	results, err := in.Run(prog)
	if err != nil {
		return exitError(3, err)
	}

	out := printer.New(flagASCIIMu)
	for _, v := range results {
		fmt.Fprintln(cmd.OutOrStdout(), out.Producer(v))
	}
	return nil
}

// exitError reports err to stderr and terminates the process with code,
// matching the ilerr kind hierarchy's exit code contract.
func exitError(code int, err error) error {
	if le, ok := err.(ilerr.LammmError); ok {
		fmt.Fprintln(os.Stderr, ilerr.FormatWithCode(le))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
	return nil
}
