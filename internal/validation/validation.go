// Package validation turns request fields into ordered, client-facing field errors.
package validation

import (
	"errors"
	"strings"
	"time"

	"devconnector/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Field pairs a request parameter with the rules it must pass.
type Field struct {
	Param string
	Value any
	Rules []validation.Rule
}

// F is shorthand for building a Field.
func F(param string, value any, rules ...validation.Rule) Field {
	return Field{Param: param, Value: value, Rules: rules}
}

// Check validates every field in order and returns all failures.
// Each field reports at most its first failing rule.
func Check(fields ...Field) []models.FieldError {
	var out []models.FieldError
	for _, f := range fields {
		if err := validation.Validate(f.Value, f.Rules...); err != nil {
			out = append(out, models.FieldError{Param: f.Param, Msg: message(err)})
		}
	}
	return out
}

// Validate is Check wrapped as an *models.AppError, or nil when all fields pass.
func Validate(fields ...Field) error {
	if errs := Check(fields...); len(errs) > 0 {
		return models.NewFieldValidationError(errs)
	}
	return nil
}

func message(err error) string {
	var ve validation.Error
	if errors.As(err, &ve) {
		return ve.Message()
	}
	return err.Error()
}

// Required fails on an empty value with msg.
func Required(msg string) validation.Rule {
	return validation.Required.Error(msg)
}

// Email requires a well-formed address.
func Email(msg string) []validation.Rule {
	return []validation.Rule{validation.Required.Error(msg), is.EmailFormat.Error(msg)}
}

// MinLength requires at least n characters.
func MinLength(n int, msg string) []validation.Rule {
	return []validation.Rule{validation.Required.Error(msg), validation.RuneLength(n, 0).Error(msg)}
}

// Date requires a value ParseDate accepts. Empty values pass; pair with Required.
func Date(msg string) validation.Rule {
	return validation.By(func(v any) error {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := ParseDate(s); err != nil {
			return errors.New(msg)
		}
		return nil
	})
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SplitSkills splits a comma-separated list, trimming items and dropping empty ones.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
