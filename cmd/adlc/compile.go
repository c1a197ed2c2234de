package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ButlerSebastian/adl-sub000/internal/compiler"
)

func newCompileCmd() *cobra.Command {
	var format, output string
	var watch bool

	cmd := &cobra.Command{
		Use:   "compile <source.adl>",
		Short: "Compile an ADL source file into its primary artifact",
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
			run := func() error { return runCompile(args[0], format, output) }
			if watch {
				return watchLoop(args[0], run)
			}
			if err := run(); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml, python, typescript")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to stdout)")
	cmd.Flags().BoolVar(&watch, "watch", false, "recompile whenever the source file changes")
	return cmd
}

func runCompile(path, format, output string) error {
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

	content, err := renderArtifact(c, u, format)
	if err != nil {
		return err
	}
	return writeArtifact(output, content)
}

// renderArtifact produces the text for one of the four compile/generate
// output formats. json-schema and json are synonyms: the schema emitter
// (JSON Schema emitter) always produces JSON; "yaml" re-serializes the same document tree
// with gopkg.in/yaml.v3 rather than running a second emitter.
func renderArtifact(c *compiler.Compiler, u *compiler.Unit, format string) (string, error) {
	switch format {
	case "json", "json-schema", "":
		schema, err := c.EmitJSONSchema(u)
		if err != nil {
			return "", fmt.Errorf("emitting JSON Schema: %w", err)
		}
		return string(schema), nil
	case "yaml":
		schema, err := c.EmitJSONSchema(u)
		if err != nil {
			return "", fmt.Errorf("emitting JSON Schema: %w", err)
		}
		var doc any
		if err := json.Unmarshal(schema, &doc); err != nil {
			return "", fmt.Errorf("decoding schema for YAML re-encode: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("encoding schema as YAML: %w", err)
		}
		return string(out), nil
	case "typescript":
		return c.EmitTypeScript(u), nil
	case "python":
		return c.EmitPython(u), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, yaml, python, or typescript)", format)
	}
}

func writeArtifact(output, content string) error {
	if output == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(output, []byte(content), 0o644)
}

// watchLoop implements --watch with an fsnotify watcher on path's parent
// directory rather than on path itself, so a save that replaces the file
// via rename (most editors) is still seen. Events are filtered down to
// path and re-run the compile; a Remove/Rename re-arms the watch in case
// the replacement briefly unregistered it.
func watchLoop(path string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	exec := func() {
		if err := run(); err != nil && err != errDiagnostics {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	exec()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				exec()
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				_ = watcher.Add(dir)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
