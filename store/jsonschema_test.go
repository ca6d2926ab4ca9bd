package store

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeToSchema(t *testing.T) {
	type Window struct {
		Width  int    `json:"width"`
		Height int    `json:"height,omitempty"`
		Title  string `json:"title"`
	}

	t.Run("primitive", func(t *testing.T) {
		schema := TypeToSchema(reflect.TypeOf(""))
		assert.Equal(t, "string", schema["type"])
		assert.NotContains(t, schema, "$schema")

		schema = TypeToSchema(reflect.TypeOf(0))
		assert.Equal(t, "integer", schema["type"])
	})

	t.Run("struct", func(t *testing.T) {
		schema := TypeToSchema(reflect.TypeOf(Window{}))
		assert.Equal(t, "object", schema["type"])

		properties, ok := schema["properties"].(map[string]interface{})
		require.True(t, ok, "Schema properties should be a map")
		assert.Contains(t, properties, "width")
		assert.Contains(t, properties, "height")
		assert.Contains(t, properties, "title")
	})
}

func TestSchemaJSONSchema(t *testing.T) {
	schema := NewSchema("profile",
		Field[int]("age").Describe("Age in years"),
		Field[[]string]("tags"),
		Rule{Key: "free"},
	)

	doc := schema.JSONSchema()
	assert.Equal(t, "profile", doc["title"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, true, doc["additionalProperties"])

	properties, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, properties, 3)

	age := properties["age"].(map[string]interface{})
	assert.Equal(t, "integer", age["type"])
	assert.Equal(t, "Age in years", age["description"])

	tags := properties["tags"].(map[string]interface{})
	assert.Equal(t, "array", tags["type"])

	assert.Empty(t, properties["free"], "untyped keys accept anything")
}

func TestNilSchemaJSONSchema(t *testing.T) {
	var schema *Schema

	doc := schema.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, true, doc["additionalProperties"])
	assert.Empty(t, doc["properties"])
}
