package tools

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// Arguments are the decoded arguments of one tool call.
type Arguments map[string]any

// String returns the named string argument, or "" when absent.
func (a Arguments) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns the named boolean argument, or nil when absent.
func (a Arguments) Bool(name string) *bool {
	b, ok := a[name].(bool)
	if !ok {
		return nil
	}
	return &b
}

// Map returns the named object argument, or nil when absent.
func (a Arguments) Map(name string) map[string]any {
	m, _ := a[name].(map[string]any)
	return m
}

// isMissing treats absent, null and empty-string values as missing.
func isMissing(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// validate checks required arguments, then the declared type of every present argument.
func validate(schema domain.InputSchema, args Arguments) error {
	for _, field := range schema.Required {
		v, ok := args[field]
		if isMissing(v, ok) {
			return missingArgument(field)
		}
	}

	for field, prop := range schema.Properties {
		v, ok := args[field]
		if !ok || v == nil {
			continue
		}
		if kind, valid := checkType(prop.Type, v); !valid {
			return invalidArgument(field, kind)
		}
	}
	return nil
}

func checkType(schemaType string, v any) (string, bool) {
	switch schemaType {
	case "string":
		_, ok := v.(string)
		return "a string", ok
	case "boolean":
		_, ok := v.(bool)
		return "a boolean", ok
	case "object":
		_, ok := v.(map[string]any)
		return "an object", ok
	case "number", "integer":
		switch v.(type) {
		case float64, int, int64, json.Number:
			return "a number", true
		}
		return "a number", false
	default:
		return schemaType, true
	}
}

// stringifyMetadata converts metadata values to strings.
// Strings pass through; other values are encoded as JSON text.
func stringifyMetadata(in map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("metadata %q: %w", k, err)
			}
			out[k] = string(b)
		}
	}
	return out, nil
}
