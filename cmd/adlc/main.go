// Command adlc is the thin CLI front end over the ADL compiler library
// (internal/compiler): a root command plus one subcommand per pipeline
// surface. It contains no compiler logic of its own: every subcommand
// parses flags and input, then calls into internal/compiler.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

// version is overwritten at build time by the release tooling via an
// ldflags-injected string.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "adlc",
	Short:   "Compiler for the Agent Definition Language",
	Version: version,
	Long: `adlc compiles Agent Definition Language (ADL) sources into JSON Schema,
TypeScript, and Python typed-dict declarations, with semantic validation,
style linting, and source formatting.

Common tasks:
  adlc compile agent.adl --format json-schema
  adlc generate agent.adl --format typescript
  adlc validate instance.json --schema agent.adl
  adlc format agent.adl --check
  adlc lint agent.adl --fix`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostic-phase logging to stderr")
	rootCmd.SetOut(os.Stderr)
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s\n", console.FormatInfoMessage("adlc version {{.Version}}")))

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newGenerateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if err != errDiagnostics {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		os.Exit(1)
	}
}
