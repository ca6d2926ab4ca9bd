package store

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// JSONSchema returns a JSON Schema document describing the schema's keys.
// Keys without a declared Go type are described as accepting any value.
// Other keys remain allowed, matching Set's accept-by-default behaviour.
func (s *Schema) JSONSchema() map[string]interface{} {
	if s == nil {
		return map[string]interface{}{
			"$schema":              jsonschema.Version,
			"type":                 "object",
			"properties":           map[string]interface{}{},
			"additionalProperties": true,
		}
	}

	properties := make(map[string]interface{}, len(s.rules))
	for _, key := range s.Keys() {
		rule := s.rules[key]

		prop := map[string]interface{}{}
		if rule.Type != nil {
			prop = TypeToSchema(rule.Type)
		}
		if rule.Description != "" {
			prop["description"] = rule.Description
		}
		properties[key] = prop
	}

	return map[string]interface{}{
		"$schema":              jsonschema.Version,
		"title":                s.name,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

// TypeToSchema converts a reflect.Type to a JSON schema fragment.
func TypeToSchema(t reflect.Type) map[string]interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	reflector := jsonschema.Reflector{
		ExpandedStruct:            t.Kind() == reflect.Struct, // Only structs have a definition to expand

		DoNotReference:            true,  // Avoid using $ref, which makes fragments self-contained
		AllowAdditionalProperties: false, // Strictly match schema properties
	}

	schema := reflector.ReflectFromType(t)

	// Marshal and unmarshal to convert to a map[string]interface{}
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{}
	}

	var schemaMap map[string]interface{}
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		// Boolean schemas such as `true` for interface types land here
		return map[string]interface{}{}
	}

	// Fragments are embedded in a document that already carries $schema
	delete(schemaMap, "$schema")
	return schemaMap
}
