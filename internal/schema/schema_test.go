package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStruct(t *testing.T) {
	type params struct {
		Query      string   `json:"query" description:"Search query"`
		Limit      int      `json:"limit,omitempty"`
		Recipients []string `json:"recipients"`
		Urgent     *bool    `json:"urgent"`
		Skipped    string   `json:"-"`
	}

	s := FromStruct(params{})
	assert.Equal(t, "object", s["type"])

	properties, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, properties, 4)

	query := properties["query"].(map[string]any)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "Search query", query["description"])

	assert.Equal(t, "integer", properties["limit"].(map[string]any)["type"])
	assert.Equal(t, "array", properties["recipients"].(map[string]any)["type"])
	assert.Equal(t, "boolean", properties["urgent"].(map[string]any)["type"])

	// Pointer and omitempty fields are optional.
	assert.ElementsMatch(t, []string{"query", "recipients"}, s["required"])
}

func TestFromStructNonStruct(t *testing.T) {
	s := FromStruct("not a struct")
	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
}

func TestValidateRequired(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
		"required": []string{"query"},
	}

	err := Validate(map[string]any{}, s)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "query", vErr.Field)

	assert.NoError(t, Validate(map[string]any{"query": "standup"}, s))
}

func TestValidateRequiredFromJSONRoundTrip(t *testing.T) {
	// Schemas decoded from JSON carry []any instead of []string.
	s := map[string]any{
		"type":     "object",
		"required": []any{"query"},
	}

	err := Validate(map[string]any{}, s)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "query", vErr.Field)
}

func TestValidateTypes(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
			"limit": map[string]any{"type": "integer"},
			"tags":  map[string]any{"type": "array"},
		},
	}

	// JSON numbers arrive as float64; whole values pass as integers.
	assert.NoError(t, Validate(map[string]any{"limit": float64(10)}, s))

	err := Validate(map[string]any{"limit": 10.5}, s)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "limit", vErr.Field)

	err = Validate(map[string]any{"query": 42}, s)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "query", vErr.Field)

	assert.NoError(t, Validate(map[string]any{"tags": []any{"a", "b"}}, s))
	assert.NoError(t, Validate(map[string]any{"tags": []string{"a"}}, s))

	// Nil values and fields outside the schema pass through.
	assert.NoError(t, Validate(map[string]any{"query": nil, "extra": 1}, s))
}
