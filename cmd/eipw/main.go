package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"eipw/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "eipw",
	Short: "Lint Ethereum Improvement Proposal documents",
	Long:  `eipw checks the preamble and body of EIP/ERC proposal documents against a configurable set of lints`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// validationError signals that linting succeeded but found errors.
type validationError struct {
	errors int
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed with %d errors :(", e.errors)
}

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().String("settings", "", "settings file (default .eipw.yaml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(listLintsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	rootCmd.Version = version.Version

	if err := rootCmd.Execute(); err != nil {
		var verr *validationError
		if !errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, verr.Error())
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
