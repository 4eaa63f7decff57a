package utils

// Lenient accessors for loosely structured API payloads decoded into
// map[string]any. Absent or mistyped fields return zero values rather than
// errors; callers treat every field as optional.

// GetString returns m[key] as a string, or "" when absent or not a string.
func GetString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// GetMap returns m[key] as a map, or nil when absent or not an object.
func GetMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// GetSlice returns m[key] as a slice, or nil when absent or not an array.
func GetSlice(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

// GetFloat returns m[key] as a float64, or 0 when absent or not a number.
func GetFloat(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	if f, ok := m[key].(float64); ok {
		return f
	}
	return 0
}

// GetBool returns m[key] as a bool, or false when absent or not a boolean.
func GetBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

// DigString descends through nested objects and returns the string at the
// final key, or "" as soon as any step is missing.
func DigString(m map[string]any, keys ...string) string {
	if len(keys) == 0 {
		return ""
	}
	for _, key := range keys[:len(keys)-1] {
		m = GetMap(m, key)
		if m == nil {
			return ""
		}
	}
	return GetString(m, keys[len(keys)-1])
}

// StringList extracts the named string attribute from each object in a
// slice, skipping entries that are not objects.
func StringList(items []any, key string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if s := GetString(m, key); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
