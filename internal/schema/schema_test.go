package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/apperror"
)

func TestValidateAppliesDefaults(t *testing.T) {
	s := New(
		String("name").Required(),
		String("package").Default("Basic"),
		Int("student_limit").Min(0).Default(0),
		Object("branding_settings").Default(map[string]any{}),
	)

	out, err := s.Validate(map[string]any{"name": "Hillcrest"})
	require.NoError(t, err)

	assert.Equal(t, "Hillcrest", out["name"])
	assert.Equal(t, "Basic", out["package"])
	assert.Equal(t, 0, out["student_limit"])
	assert.Equal(t, map[string]any{}, out["branding_settings"])
}

func TestValidateAggregatesAllFailures(t *testing.T) {
	s := New(
		String("name").Required().Min(3),
		String("subdomain").Required().Pattern(`^[a-z0-9-]+$`, "must contain only lowercase letters, numbers, and hyphens"),
		String("admin_email").Required().Email(),
	)

	_, err := s.Validate(map[string]any{
		"subdomain":   "Bad Subdomain!",
		"admin_email": "not-an-email",
	})
	require.Error(t, err)

	appErr := apperror.From(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	errs, ok := appErr.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, errs, 3)

	paths := make([]string, 0, len(errs))
	for _, fe := range errs {
		paths = append(paths, fe.Path)
	}
	assert.ElementsMatch(t, []string{"name", "subdomain", "admin_email"}, paths)
}

func TestValidateDropsUnknownKeys(t *testing.T) {
	s := New(String("first_name").Required())

	out, err := s.Validate(map[string]any{
		"first_name": "Ana",
		"school_id":  "someone-elses-school",
		"role":       "SuperAdmin",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"first_name": "Ana"}, out)
}

func TestPartialDropsRequiredAndDefaults(t *testing.T) {
	s := New(
		String("name").Required().Min(3),
		String("package").Default("Basic"),
	)
	p := s.Partial()

	out, err := p.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)

	// Constraints still apply when the field is present.
	_, err = p.Validate(map[string]any{"name": "ab"})
	require.Error(t, err)
}

func TestValidateIntRejectsFractions(t *testing.T) {
	s := New(Int("student_limit").Min(0))

	// JSON numbers arrive as float64.
	out, err := s.Validate(map[string]any{"student_limit": float64(250)})
	require.NoError(t, err)
	assert.Equal(t, 250, out["student_limit"])

	_, err = s.Validate(map[string]any{"student_limit": 2.5})
	require.Error(t, err)

	_, err = s.Validate(map[string]any{"student_limit": float64(-1)})
	require.Error(t, err)
}

func TestValidateDateTime(t *testing.T) {
	s := New(DateTime("date_of_birth"))

	out, err := s.Validate(map[string]any{"date_of_birth": "2015-09-01T00:00:00Z"})
	require.NoError(t, err)

	ts, ok := out["date_of_birth"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2015, ts.Year())

	_, err = s.Validate(map[string]any{"date_of_birth": "01/09/2015"})
	require.Error(t, err)
}

func TestValidateStringList(t *testing.T) {
	s := New(StringList("allergies"))

	out, err := s.Validate(map[string]any{"allergies": []any{"peanuts", "dairy"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"peanuts", "dairy"}, out["allergies"])

	_, err = s.Validate(map[string]any{"allergies": []any{"peanuts", 42}})
	require.Error(t, err)
}

func TestValidateEnumAndLen(t *testing.T) {
	s := New(
		String("file_type").OneOf("profile_photos", "reports"),
		String("currency_code").Len(3),
	)

	out, err := s.Validate(map[string]any{
		"file_type":     "reports",
		"currency_code": "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "reports", out["file_type"])

	_, err = s.Validate(map[string]any{"file_type": "malware"})
	require.Error(t, err)

	_, err = s.Validate(map[string]any{"currency_code": "EURO"})
	require.Error(t, err)
}

func TestValidateURL(t *testing.T) {
	s := New(String("profile_photo_url").URL())

	_, err := s.Validate(map[string]any{"profile_photo_url": "https://cdn.example.com/p.png"})
	require.NoError(t, err)

	_, err = s.Validate(map[string]any{"profile_photo_url": "not a url"})
	require.Error(t, err)
}
