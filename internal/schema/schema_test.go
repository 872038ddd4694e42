package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

func gradeFields(marks any) models.Fields {
	return models.Fields{
		"studentname": "John Doe",
		"studentid":   "S001",
		"subject":     "Mathematics",
		"marks":       marks,
		"grade":       "9",
		"semester":    "Spring 2024",
	}
}

func TestEveryKindHasSchema(t *testing.T) {
	for _, kind := range models.Kinds() {
		s, ok := For(kind)
		require.True(t, ok, kind)
		assert.NotEmpty(t, s.Fields, kind)
	}
	_, ok := For(models.Kind("parent"))
	assert.False(t, ok)
}

func TestValidateMarksBounds(t *testing.T) {
	v := NewValidator(nil)
	s := MustFor(models.KindGrades)

	for _, marks := range []any{"0", "100", 85.0, "72.5"} {
		assert.Empty(t, v.Validate(s, gradeFields(marks)), marks)
	}

	for _, marks := range []any{"150", "-1", "abc", "", 100.5} {
		errs := v.Validate(s, gradeFields(marks))
		require.Contains(t, errs, "marks", marks)
		assert.Equal(t, "Marks must be a number between 0 and 100", errs["marks"])
	}
}

func TestValidateRequiredProfileFields(t *testing.T) {
	v := NewValidator(nil)
	s := MustFor(models.KindProfile)

	errs := v.Validate(s, models.Fields{"firstName": "Ada", "lastName": "  ", "email": ""})
	assert.Equal(t, FieldErrors{
		"lastName":      "Last Name is required",
		"contactNumber": "Contact Number is required",
	}, errs)

	errs = v.Validate(s, models.Fields{"firstName": "Ada", "lastName": "Admin", "contactNumber": "9876543210", "dateOfBirth": "01/02/2010"})
	assert.Empty(t, errs)
}

func TestValidateLeavesFreeTextAlone(t *testing.T) {
	v := NewValidator(nil)
	cases := map[models.Kind]models.Fields{
		models.KindTransport:   {"status": "Under Maintenance", "route": "", "busno": ""},
		models.KindTimetable:   {"day": "monday", "subject": ""},
		models.KindExams:       {"date": "15/03/2024"},
		models.KindFees:        {"status": "Late", "duedate": "soon", "amount": "five thousand", "month": ""},
		models.KindLibrary:     {"quantity": "-4"},
		models.KindMessages:    {"read": "maybe"},
		models.KindAssignments: {"status": "Lost", "title": ""},
	}
	for kind, fields := range cases {
		assert.Empty(t, v.Validate(MustFor(kind), fields), kind)
	}
}

func TestFieldHints(t *testing.T) {
	s := MustFor(models.KindFees)
	status, ok := s.Field("status")
	require.True(t, ok)
	assert.Equal(t, "Paid/Pending/Overdue", status.Hint())

	due, _ := s.Field("duedate")
	assert.Equal(t, "YYYY-MM-DD", due.Hint())

	month, _ := s.Field("month")
	assert.Empty(t, month.Hint())
}

func TestFieldErrorsAsError(t *testing.T) {
	assert.NoError(t, FieldErrors{}.AsError())

	err := FieldErrors{"b": "second", "a": "first"}.AsError()
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "first; second", err.Error())
}

func TestEncodeCoercesNumbers(t *testing.T) {
	s := MustFor(models.KindGrades)
	body := s.Encode("1001", gradeFields("91"))

	assert.Equal(t, "1001", body["gradeid"])
	assert.Equal(t, 91.0, body["marks"])
	assert.Equal(t, "9", body["grade"])

	fees := MustFor(models.KindFees).Encode("1", models.Fields{"amount": "5000", "notes": "x"})
	assert.Equal(t, 5000.0, fees["amount"])
	assert.Equal(t, "x", fees["notes"])

	msg := MustFor(models.KindMessages).Encode("2", models.Fields{"read": "true"})
	assert.Equal(t, true, msg["read"])
}

func TestKeysFollowSchemaThenLexical(t *testing.T) {
	s := MustFor(models.KindTransport)
	fields := models.Fields{"zone": "N", "status": "Active", "route": "Route A", "busno": "BUS001", "capacity": 40.0}

	assert.Equal(t, []string{"route", "busno", "status", "capacity", "zone"}, s.Keys(fields))
	assert.Equal(t, "Bus Number", s.Label("busno"))
	assert.Equal(t, "zone", s.Label("zone"))
}
