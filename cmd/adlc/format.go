package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ButlerSebastian/adl-sub000/internal/formatter"
	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

func newFormatCmd() *cobra.Command {
	var checkOnly bool
	var indent, maxLineLength int
	var trailingCommas bool

	cmd := &cobra.Command{
		Use:   "format <source.adl>",
		Short: "Pretty-print an ADL source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("indent") && cfg.Format.IndentSize != 0 {
				indent = cfg.Format.IndentSize
			}
			if !cmd.Flags().Changed("max-line-length") && cfg.Format.MaxLineLength != 0 {
				maxLineLength = cfg.Format.MaxLineLength
			}
			if !cmd.Flags().Changed("trailing-commas") && cfg.Format.TrailingCommas {
				trailingCommas = cfg.Format.TrailingCommas
			}
			return runFormat(args[0], checkOnly, indent, maxLineLength, trailingCommas)
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "report whether the file is already formatted; don't rewrite it")
	cmd.Flags().IntVar(&indent, "indent", formatter.DefaultOptions().IndentSize, "spaces per indent level")
	cmd.Flags().IntVar(&maxLineLength, "max-line-length", formatter.DefaultOptions().MaxLineLength, "soft wrap target")
	cmd.Flags().BoolVar(&trailingCommas, "trailing-commas", formatter.DefaultOptions().TrailingCommas, "append a comma after the last item of a list that wraps onto several lines")
	return cmd
}

func runFormat(path string, checkOnly bool, indent, maxLineLength int, trailingCommas bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	opts := formatter.DefaultOptions()
	opts.IndentSize = indent
	opts.MaxLineLength = maxLineLength
	opts.TrailingCommas = trailingCommas

	formatted, err := formatter.Format(src, opts)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}

	if checkOnly {
		if bytes.Equal(src, formatted) {
			fmt.Fprintln(os.Stdout, console.FormatSuccessMessage(path+" is already formatted"))
			return nil
		}
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(path+" is not formatted"))
		return errDiagnostics
	}

	if bytes.Equal(src, formatted) {
		return nil
	}
	return os.WriteFile(path, formatted, 0o644)
}
