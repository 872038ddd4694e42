package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

// FieldErrors maps field names to user facing messages.
type FieldErrors map[string]string

// Error joins the messages in declaration-independent, stable order.
func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = fe[name]
	}
	return strings.Join(msgs, "; ")
}

// AsError converts the field errors into a validation *Error, or nil.
func (fe FieldErrors) AsError() error {
	if len(fe) == 0 {
		return nil
	}
	return appErrors.Clone(appErrors.ErrValidation, fe.Error())
}

// Validator checks record fields against their schema.
type Validator struct {
	validate *validator.Validate
}

// NewValidator wraps a validator instance; nil builds a fresh one.
func NewValidator(v *validator.Validate) *Validator {
	if v == nil {
		v = validator.New()
	}
	return &Validator{validate: v}
}

// Validate returns the field errors of fields under s. Only bounded numbers
// and required fields are checked; everything else is free text.
func (v *Validator) Validate(s Schema, fields models.Fields) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s.Fields {
		if msg := v.check(f, fields.Text(f.Name)); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

func (v *Validator) check(f Field, raw string) string {
	value := strings.TrimSpace(raw)
	label := f.Label
	if label == "" {
		label = f.Name
	}

	if value == "" {
		if !f.Required {
			return ""
		}
		if f.Bounded {
			return boundsMessage(label, f)
		}
		return fmt.Sprintf("%s is required", label)
	}
	if !f.Bounded {
		return ""
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return boundsMessage(label, f)
	}
	rule := fmt.Sprintf("gte=%s,lte=%s", formatBound(f.Min), formatBound(f.Max))
	if v.validate.Var(n, rule) != nil {
		return boundsMessage(label, f)
	}
	return ""
}

func boundsMessage(label string, f Field) string {
	return fmt.Sprintf("%s must be a number between %s and %s", label, formatBound(f.Min), formatBound(f.Max))
}

func formatBound(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
