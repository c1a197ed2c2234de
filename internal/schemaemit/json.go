package schemaemit

import "encoding/json"

// marshalJSON is a thin alias kept local to this package so orderedMap's
// hand-rolled MarshalJSON doesn't need to import encoding/json repeatedly
// inline; json.Marshal already dispatches to nested MarshalJSON
// implementations (orderedMap included), which is how ordering survives
// arbitrary nesting depth.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
