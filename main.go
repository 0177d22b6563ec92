package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lammm/lammm/cmd"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "lammm [subcommand]",
	Short:        "lammm: an interpreter for a sequent-calculus core language",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.RunCmd)
}
