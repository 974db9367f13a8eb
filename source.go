package shift

import (
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// Source Decoding
///////////////////////////////////////////////////////////////////////////////

// ConstructJSON decodes a JSON object and constructs an instance of s from
// it. Numbers decode as float64 and are coerced to the declared field types
// during the transform stage.
func ConstructJSON(s *Schema, data []byte) (*Instance, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrUnsupportedSource)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: JSON document is not an object", ErrUnsupportedSource)
	}
	input, ok := root.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: JSON document is not an object", ErrUnsupportedSource)
	}
	return Construct(s, input)
}

// ConstructYAML decodes a YAML mapping and constructs an instance of s
// from it.
func ConstructYAML(s *Schema, data []byte) (*Instance, error) {
	var input map[string]any
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	if input == nil {
		input = map[string]any{}
	}
	return Construct(s, input)
}
