package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	m := map[string]any{"name": "Alice", "count": float64(3)}
	assert.Equal(t, "Alice", GetString(m, "name"))
	assert.Equal(t, "", GetString(m, "count"))
	assert.Equal(t, "", GetString(m, "missing"))
	assert.Equal(t, "", GetString(nil, "name"))
}

func TestGetMapAndSlice(t *testing.T) {
	m := map[string]any{
		"user":   map[string]any{"name": "Bob"},
		"labels": []any{"a", "b"},
	}
	assert.Equal(t, "Bob", GetString(GetMap(m, "user"), "name"))
	assert.Nil(t, GetMap(m, "labels"))
	assert.Len(t, GetSlice(m, "labels"), 2)
	assert.Nil(t, GetSlice(m, "user"))
}

func TestGetFloatAndBool(t *testing.T) {
	m := map[string]any{"points": float64(5), "custom": true, "name": "x"}
	assert.Equal(t, 5.0, GetFloat(m, "points"))
	assert.Equal(t, 0.0, GetFloat(m, "name"))
	assert.True(t, GetBool(m, "custom"))
	assert.False(t, GetBool(m, "points"))
}

func TestDigString(t *testing.T) {
	m := map[string]any{
		"status": map[string]any{
			"statusCategory": map[string]any{"name": "Done"},
		},
	}
	assert.Equal(t, "Done", DigString(m, "status", "statusCategory", "name"))
	assert.Equal(t, "", DigString(m, "status", "missing", "name"))
	assert.Equal(t, "", DigString(m, "missing"))
	assert.Equal(t, "", DigString(m))
	assert.Equal(t, "", DigString(nil, "status"))
}

func TestStringList(t *testing.T) {
	items := []any{
		map[string]any{"name": "api"},
		map[string]any{"name": "db"},
		map[string]any{"id": "3"},
		"not an object",
	}
	assert.Equal(t, []string{"api", "db"}, StringList(items, "name"))
	assert.Empty(t, StringList(nil, "name"))
}
