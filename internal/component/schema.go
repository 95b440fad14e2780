package component

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// paramSchema renders a ParamSpec as a JSON Schema document.
func paramSchema(p ParamSpec) (map[string]any, error) {
	schema := map[string]any{}

	switch p.Type {
	case "", ParamAny:
	case ParamString, ParamNumber, ParamInteger, ParamBoolean:
		schema["type"] = string(p.Type)
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
	}

	if len(p.Enum) > 0 {
		schema["enum"] = p.Enum
	}
	if p.Pattern != "" {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		schema["pattern"] = p.Pattern
	}
	return schema, nil
}

func compileParam(p ParamSpec) (*jsonschema.Schema, error) {
	schema, err := paramSchema(p)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("param.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("param.json")
}

// schemaMessages flattens a validation failure into its leaf messages.
func schemaMessages(err error) []string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			if msg := strings.TrimSpace(node.Message); msg != "" {
				msgs = append(msgs, msg)
			}
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)

	if len(msgs) == 0 {
		msgs = append(msgs, verr.Error())
	}
	return msgs
}
