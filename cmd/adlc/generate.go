package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ButlerSebastian/adl-sub000/internal/compiler"
	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

func newGenerateCmd() *cobra.Command {
	var format string
	var docs, watch, checkToolchain bool

	cmd := &cobra.Command{
		Use:   "generate <source.adl>",
		Short: "Generate a target-language declaration file from an ADL source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				cfg, err := loadProjectConfig()
				if err != nil {
					return err
				}
				if cfg.Format.Default != "" {
					format = cfg.Format.Default
				}
			}
			run := func() error { return runGenerate(args[0], format, docs, checkToolchain) }
			if watch {
				return watchLoop(args[0], run)
			}
			return run()
		},
	}
	cmd.Flags().StringVar(&format, "format", "typescript", "target format: typescript, python, json-schema")
	cmd.Flags().BoolVar(&docs, "docs", false, "prepend a generated-from header to the top of the output")
	cmd.Flags().BoolVar(&watch, "watch", false, "regenerate whenever the source file changes")
	cmd.Flags().BoolVar(&checkToolchain, "check-toolchain", false, "validate the generated file with the target language's own toolchain, when available")
	return cmd
}

func runGenerate(path, format string, docs, checkToolchain bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c := compiler.New(compiler.DefaultOptions())
	u, err := c.LoadSource(path, src)
	if err != nil {
		return err
	}
	if printDiagnostics(u, src) {
		return errDiagnostics
	}

	content, err := renderArtifact(c, u, generateFormatAlias(format))
	if err != nil {
		return err
	}
	if docs {
		content = generatedFileBanner(path, format) + content
	}

	if checkToolchain {
		if err := checkGeneratedArtifact(format, content); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		}
	}

	fmt.Println(content)
	return nil
}

// generateFormatAlias maps generate's format vocabulary (typescript,
// python, json-schema) onto renderArtifact's (json, yaml, python,
// typescript), which also serves compile.
func generateFormatAlias(format string) string {
	if format == "json-schema" {
		return "json"
	}
	return format
}

func generatedFileBanner(path, format string) string {
	return fmt.Sprintf("// generated from %s (adlc generate --format %s)\n\n", path, format)
}

// checkGeneratedArtifact optionally invokes the target toolchain to
// double-check the generated file's syntax. Unavailability of the
// toolchain binary is silent by design; only a toolchain that ran and
// reported errors surfaces a warning here.
func checkGeneratedArtifact(format, content string) error {
	switch format {
	case "typescript":
		ok, messages, err := compiler.CheckTypeScript(content)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("tsc reported issues:\n%s", strings.Join(messages, "\n"))
		}
	case "python":
		ok, messages, err := compiler.CheckPython(content)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("python3 -m py_compile reported issues:\n%s", strings.Join(messages, "\n"))
		}
	}
	return nil
}
