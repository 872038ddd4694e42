// Package schema declares the editable fields of every record kind and the
// rules used to validate them on both sides of the record API.
package schema

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sma-portal/internal/models"
)

// FieldType classifies how a field is edited and encoded.
type FieldType int

const (
	Text FieldType = iota
	Number
	Status
	Date
	Bool
)

// Field declares one editable field.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Bounded  bool
	Min      float64
	Max      float64
	// Options are the usual values of a status field. They are offered as
	// input hints and never enforced.
	Options []string
}

// Hint describes the expected input of f, or "" for free text.
func (f Field) Hint() string {
	switch f.Type {
	case Status:
		return strings.Join(f.Options, "/")
	case Date:
		return "YYYY-MM-DD"
	case Bool:
		return "true/false"
	default:
		return ""
	}
}

// Schema is the ordered field list of a kind.
type Schema struct {
	Kind   models.Kind
	Fields []Field
}

func text(name, label string) Field {
	return Field{Name: name, Label: label, Type: Text}
}

func required(name, label string) Field {
	return Field{Name: name, Label: label, Type: Text, Required: true}
}

// number fields are coerced to JSON numbers on save but not validated.
func number(name, label string) Field {
	return Field{Name: name, Label: label, Type: Number}
}

func bounded(name, label string, min, max float64) Field {
	return Field{Name: name, Label: label, Type: Number, Required: true, Bounded: true, Min: min, Max: max}
}

func status(name, label string, options ...string) Field {
	return Field{Name: name, Label: label, Type: Status, Options: options}
}

func date(name, label string) Field {
	return Field{Name: name, Label: label, Type: Date}
}

var registry = map[models.Kind]Schema{
	models.KindGrades: {Kind: models.KindGrades, Fields: []Field{
		text("studentname", "Student Name"),
		text("studentid", "Student ID"),
		text("subject", "Subject"),
		text("grade", "Grade"),
		bounded("marks", "Marks", 0, 100),
		text("semester", "Semester"),
	}},
	models.KindTimetable: {Kind: models.KindTimetable, Fields: []Field{
		status("day", "Day", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"),
		text("subject", "Subject"),
		text("starttime", "Start Time"),
		text("endtime", "End Time"),
		text("room", "Room"),
		text("teacher", "Teacher"),
	}},
	models.KindLibrary: {Kind: models.KindLibrary, Fields: []Field{
		text("bookname", "Book Name"),
		text("author", "Author"),
		text("isbn", "ISBN"),
		text("status", "Status"),
		number("quantity", "Quantity"),
	}},
	models.KindTransport: {Kind: models.KindTransport, Fields: []Field{
		text("route", "Route"),
		text("busno", "Bus Number"),
		text("pickuptime", "Pickup Time"),
		text("driver", "Driver Name"),
		status("status", "Status", "Active", "Inactive"),
	}},
	models.KindFees: {Kind: models.KindFees, Fields: []Field{
		text("month", "Month"),
		number("amount", "Amount"),
		status("status", "Status", "Paid", "Pending", "Overdue"),
		date("duedate", "Due Date"),
	}},
	models.KindExams: {Kind: models.KindExams, Fields: []Field{
		text("subject", "Subject"),
		date("date", "Date"),
		text("time", "Time"),
		text("room", "Room"),
	}},
	models.KindAssignments: {Kind: models.KindAssignments, Fields: []Field{
		text("subject", "Subject"),
		text("title", "Title"),
		date("duedate", "Due Date"),
		status("status", "Status", "Pending", "Submitted", "Graded"),
	}},
	models.KindMessages: {Kind: models.KindMessages, Fields: []Field{
		text("sender", "Sender"),
		text("subject", "Subject"),
		date("date", "Date"),
		{Name: "read", Label: "Read", Type: Bool},
	}},
	models.KindProfile: {Kind: models.KindProfile, Fields: []Field{
		required("firstName", "First Name"),
		required("lastName", "Last Name"),
		text("email", "Email"),
		required("contactNumber", "Contact Number"),
		date("dateOfBirth", "Date of Birth"),
		text("aadharCard", "Aadhar Card"),
		date("dateOfJoin", "Date of Join"),
		text("grade", "Grade"),
		text("class", "Class"),
		text("classTeacher", "Class Teacher"),
		text("fatherName", "Father's Name"),
		text("motherName", "Mother's Name"),
		text("parentContact", "Parent Contact"),
		text("presentAddress", "Present Address"),
		text("permanentAddress", "Permanent Address"),
	}},
}

// For returns the schema of kind.
func For(kind models.Kind) (Schema, bool) {
	s, ok := registry[kind]
	return s, ok
}

// MustFor returns the schema of kind or an empty schema for unknown kinds.
func MustFor(kind models.Kind) Schema {
	if s, ok := registry[kind]; ok {
		return s
	}
	return Schema{Kind: kind}
}

// Order lists the declared field names.
func (s Schema) Order() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a declared field.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the display label of a field, falling back to its name.
func (s Schema) Label(name string) string {
	if f, ok := s.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return name
}

// Keys orders the field names of a record for display.
func (s Schema) Keys(fields models.Fields) []string {
	return fields.OrderedKeys(s.Order())
}

// Encode builds the PUT body {<idKey>: id, ...fields}, coercing numeric and
// boolean fields given as text.
func (s Schema) Encode(id string, fields models.Fields) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for name, value := range fields {
		out[name] = s.coerce(name, value)
	}
	out[s.Kind.IDKey()] = id
	return out
}

func (s Schema) coerce(name string, value any) any {
	f, ok := s.Field(name)
	if !ok {
		return value
	}
	raw, isText := value.(string)
	if !isText {
		return value
	}
	trimmed := strings.TrimSpace(raw)
	switch f.Type {
	case Number:
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
	case Bool:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	}
	return value
}
