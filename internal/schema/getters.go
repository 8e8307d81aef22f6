package schema

import "time"

// Typed accessors for normalized maps produced by Schema.Validate. Each
// returns the zero value when the field is absent.

func Str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func StrPtr(m map[string]any, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func IntVal(m map[string]any, key string) int {
	v, _ := m[key].(int)
	return v
}

func List(m map[string]any, key string) []string {
	v, _ := m[key].([]string)
	return v
}

func Obj(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func TimePtr(m map[string]any, key string) *time.Time {
	if v, ok := m[key].(time.Time); ok {
		return &v
	}
	return nil
}
