// Package schema validates request payloads against declarative per-field
// constraint descriptions. Validation never stops at the first failure: every
// failing field contributes a (path, message) entry to the resulting error's
// details, and valid fields are returned as a normalized map of typed values.
package schema

import (
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"school-service/internal/apperror"
)

// FieldError is one validation failure, keyed by the field path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindStringList
	kindObject
	kindDateTime
)

// Field is a single-field constraint description. Constructors fix the kind;
// chained calls add constraints.
type Field struct {
	name       string
	kind       kind
	required   bool
	def        any
	hasDefault bool
	minLen     int
	hasMinLen  bool
	exactLen   int
	hasLen     bool
	minVal     int
	hasMinVal  bool
	email      bool
	url        bool
	pattern    *regexp.Regexp
	patternMsg string
	oneOf      []string
}

// String declares a string field.
func String(name string) *Field { return &Field{name: name, kind: kindString} }

// Int declares an integer field. JSON numbers are accepted when whole.
func Int(name string) *Field { return &Field{name: name, kind: kindInt} }

// StringList declares a []string field.
func StringList(name string) *Field { return &Field{name: name, kind: kindStringList} }

// Object declares a free-form JSON object field.
func Object(name string) *Field { return &Field{name: name, kind: kindObject} }

// DateTime declares an RFC 3339 timestamp field, normalized to time.Time.
func DateTime(name string) *Field { return &Field{name: name, kind: kindDateTime} }

// Required marks the field mandatory.
func (f *Field) Required() *Field { f.required = true; return f }

// Default sets the value applied when the field is absent. Defaults are only
// honored by creation schemas; Partial drops them.
func (f *Field) Default(v any) *Field { f.def = v; f.hasDefault = true; return f }

// Min sets a minimum: length for strings and lists, value for ints.
func (f *Field) Min(n int) *Field {
	if f.kind == kindInt {
		f.minVal = n
		f.hasMinVal = true
	} else {
		f.minLen = n
		f.hasMinLen = true
	}
	return f
}

// Len requires an exact string length.
func (f *Field) Len(n int) *Field { f.exactLen = n; f.hasLen = true; return f }

// Email requires the string to be a parseable email address.
func (f *Field) Email() *Field { f.email = true; return f }

// URL requires the string to be an absolute URL.
func (f *Field) URL() *Field { f.url = true; return f }

// Pattern requires the string to match expr; msg is the failure message.
func (f *Field) Pattern(expr, msg string) *Field {
	f.pattern = regexp.MustCompile(expr)
	f.patternMsg = msg
	return f
}

// OneOf restricts the string to an enumerated set.
func (f *Field) OneOf(values ...string) *Field { f.oneOf = values; return f }

// Schema is an ordered set of field descriptions.
type Schema struct {
	fields []*Field
}

// New builds a schema from field descriptions.
func New(fields ...*Field) *Schema {
	return &Schema{fields: fields}
}

// Partial derives the update variant: every field optional, same per-field
// constraints, no defaults applied.
func (s *Schema) Partial() *Schema {
	fields := make([]*Field, len(s.fields))
	for i, f := range s.fields {
		cp := *f
		cp.required = false
		cp.hasDefault = false
		cp.def = nil
		fields[i] = &cp
	}
	return &Schema{fields: fields}
}

// Validate checks payload against the schema. On success it returns a map of
// normalized values containing only declared fields (unknown keys are
// dropped). On failure it returns a 400 VALIDATION_FAILED apperror listing
// every failing field.
func (s *Schema) Validate(payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	var errs []FieldError
	for _, f := range s.fields {
		raw, present := payload[f.name]
		if !present || raw == nil {
			if f.required {
				errs = append(errs, FieldError{Path: f.name, Message: fmt.Sprintf("%s is required", f.name)})
				continue
			}
			if f.hasDefault {
				out[f.name] = f.def
			}
			continue
		}
		v, ferr := f.normalize(raw)
		if ferr != nil {
			errs = append(errs, *ferr)
			continue
		}
		out[f.name] = v
	}
	if len(errs) > 0 {
		return nil, apperror.WithDetails("Validation failed", http.StatusBadRequest, apperror.CodeValidation, errs)
	}
	return out, nil
}

func (f *Field) fail(format string, args ...any) *FieldError {
	return &FieldError{Path: f.name, Message: fmt.Sprintf(format, args...)}
}

func (f *Field) normalize(raw any) (any, *FieldError) {
	switch f.kind {
	case kindString:
		return f.normalizeString(raw)
	case kindInt:
		return f.normalizeInt(raw)
	case kindStringList:
		return f.normalizeStringList(raw)
	case kindObject:
		v, ok := raw.(map[string]any)
		if !ok {
			return nil, f.fail("%s must be an object", f.name)
		}
		return v, nil
	case kindDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, f.fail("%s must be an RFC 3339 timestamp string", f.name)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, f.fail("%s is not a valid RFC 3339 timestamp", f.name)
		}
		return t, nil
	}
	return nil, f.fail("%s has an unknown field kind", f.name)
}

func (f *Field) normalizeString(raw any) (any, *FieldError) {
	s, ok := raw.(string)
	if !ok {
		return nil, f.fail("%s must be a string", f.name)
	}
	if f.hasMinLen && len(s) < f.minLen {
		if f.minLen == 1 {
			return nil, f.fail("%s must not be empty", f.name)
		}
		return nil, f.fail("%s must be at least %d characters", f.name, f.minLen)
	}
	if f.hasLen && len(s) != f.exactLen {
		return nil, f.fail("%s must be exactly %d characters", f.name, f.exactLen)
	}
	if f.email {
		if _, err := mail.ParseAddress(s); err != nil {
			return nil, f.fail("%s must be a valid email address", f.name)
		}
	}
	if f.url {
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, f.fail("%s must be a valid URL", f.name)
		}
	}
	if f.pattern != nil && !f.pattern.MatchString(s) {
		msg := f.patternMsg
		if msg == "" {
			msg = fmt.Sprintf("%s has an invalid format", f.name)
		}
		return nil, &FieldError{Path: f.name, Message: msg}
	}
	if len(f.oneOf) > 0 {
		for _, v := range f.oneOf {
			if s == v {
				return s, nil
			}
		}
		return nil, f.fail("%s must be one of: %s", f.name, strings.Join(f.oneOf, ", "))
	}
	return s, nil
}

func (f *Field) normalizeInt(raw any) (any, *FieldError) {
	var n int
	switch v := raw.(type) {
	case float64:
		// JSON numbers decode as float64; only whole values are integers.
		if v != float64(int(v)) {
			return nil, f.fail("%s must be an integer", f.name)
		}
		n = int(v)
	case int:
		n = v
	default:
		return nil, f.fail("%s must be an integer", f.name)
	}
	if f.hasMinVal && n < f.minVal {
		return nil, f.fail("%s must be at least %d", f.name, f.minVal)
	}
	return n, nil
}

func (f *Field) normalizeStringList(raw any) (any, *FieldError) {
	items, ok := raw.([]any)
	if !ok {
		if typed, isTyped := raw.([]string); isTyped {
			return typed, nil
		}
		return nil, f.fail("%s must be an array of strings", f.name)
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		s, isStr := item.(string)
		if !isStr {
			return nil, f.fail("%s must be an array of strings", f.name)
		}
		list = append(list, s)
	}
	if f.hasMinLen && len(list) < f.minLen {
		return nil, f.fail("%s must contain at least %d items", f.name, f.minLen)
	}
	return list, nil
}
