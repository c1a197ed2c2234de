package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"

	"github.com/ButlerSebastian/adl-sub000/internal/compiler"
	"github.com/ButlerSebastian/adl-sub000/pkg/console"
)

func newValidateCmd() *cobra.Command {
	var schemaPath string
	var verbose, batch bool

	cmd := &cobra.Command{
		Use:   "validate <file.json>...",
		Short: "Validate JSON instance documents against a compiled ADL schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				return fmt.Errorf("validate requires --schema <source.adl>")
			}
			return runValidate(schemaPath, args, verbose, batch)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "ADL source compiled into the schema to validate against")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print a per-file report, not just the summary")
	cmd.Flags().BoolVar(&batch, "batch", false, "keep validating remaining files after a failure")
	return cmd
}

func runValidate(schemaPath string, files []string, verbose, batch bool) error {
	c := compiler.New(compiler.DefaultOptions())
	u, err := c.Load(schemaPath)
	if err != nil {
		return err
	}
	if printDiagnostics(u, nil) {
		return errDiagnostics
	}

	schemaDoc, err := c.EmitJSONSchema(u)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return fmt.Errorf("decoding compiled schema: %w", err)
	}
	jc := jsonschema.NewCompiler()
	const schemaURL = "https://adl.dev/schemas/validate-target.json"
	if err := jc.AddResource(schemaURL, decoded); err != nil {
		return fmt.Errorf("loading compiled schema: %w", err)
	}
	schema, err := jc.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling schema resource: %w", err)
	}

	allValid := true
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("%s: %s", f, err)))
			allValid = false
			if !batch {
				return errDiagnostics
			}
			continue
		}
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("%s: invalid JSON: %s", f, err)))
			allValid = false
			if !batch {
				return errDiagnostics
			}
			continue
		}
		if err := schema.Validate(inst); err != nil {
			allValid = false
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("%s: %s", f, err)))
			if !batch {
				return errDiagnostics
			}
			continue
		}
		if verbose {
			fmt.Fprintln(os.Stdout, console.FormatSuccessMessage(f+" is valid"))
		}
	}

	if !allValid {
		return errDiagnostics
	}
	fmt.Fprintln(os.Stdout, console.FormatSuccessMessage(fmt.Sprintf("%d file(s) valid", len(files))))
	return nil
}
