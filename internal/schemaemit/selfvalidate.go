package schemaemit

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// selfValidate compiles the emitted document as a schema in its own
// right, using the library's AddResource/Compile sequence. Compiling
// (rather than merely decoding) is what actually checks the document
// against Draft 2020-12 structural rules.
func selfValidate(idURL string, doc []byte) error {
	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("schemaemit: self-validation decode: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(idURL, decoded); err != nil {
		return fmt.Errorf("schemaemit: self-validation: %w", err)
	}
	if _, err := compiler.Compile(idURL); err != nil {
		return fmt.Errorf("schemaemit: emitted schema is not a valid draft 2020-12 document: %w", err)
	}
	return nil
}
