package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind names a record collection exposed under /api/<kind>.
type Kind string

const (
	KindGrades      Kind = "grades"
	KindTimetable   Kind = "timetable"
	KindLibrary     Kind = "library"
	KindTransport   Kind = "transport"
	KindFees        Kind = "fees"
	KindExams       Kind = "exams"
	KindAssignments Kind = "assignments"
	KindMessages    Kind = "messages"
	KindProfile     Kind = "profile"
)

var idKeys = map[Kind]string{
	KindGrades:      "gradeid",
	KindTimetable:   "timetableid",
	KindLibrary:     "libraryid",
	KindTransport:   "transportid",
	KindFees:        "feeid",
	KindExams:       "examid",
	KindAssignments: "assignmentid",
	KindMessages:    "messageid",
	KindProfile:     "userid",
}

// Kinds lists every known record kind in menu order.
func Kinds() []Kind {
	return []Kind{KindGrades, KindTimetable, KindAssignments, KindExams, KindLibrary, KindFees, KindTransport, KindMessages, KindProfile}
}

// ParseKind resolves a collection name.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := idKeys[k]
	return k, ok
}

// IDKey returns the JSON key carrying the record id on the wire.
func (k Kind) IDKey() string {
	if key, ok := idKeys[k]; ok {
		return key
	}
	return "id"
}

// Fields maps field names to scalar values: string, float64, bool or nil.
// Nested JSON values are kept as decoded.
type Fields map[string]any

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

// Text renders a field for display and validation.
func (f Fields) Text(name string) string {
	return FormatValue(f[name])
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Fields:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// FormatValue renders a scalar the way the portal shows it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Record is one persisted entity of a given kind.
type Record struct {
	Kind   Kind
	ID     string
	Fields Fields
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{Kind: r.Kind, ID: r.ID, Fields: r.Fields.Clone()}
}

// Payload flattens the record into its wire shape: {<idKey>: id, ...fields}.
func (r Record) Payload() map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[r.Kind.IDKey()] = r.ID
	return out
}

// MarshalJSON encodes the wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

// DecodeRecord builds a record of kind from a raw JSON object.
func DecodeRecord(kind Kind, raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return Record{}, fmt.Errorf("decode %s record: %w", kind, err)
	}
	if obj == nil {
		return Record{}, fmt.Errorf("decode %s record: empty object", kind)
	}
	return RecordFromMap(kind, obj)
}

// RecordFromMap extracts the id and normalises numbers to float64.
func RecordFromMap(kind Kind, obj map[string]any) (Record, error) {
	key := kind.IDKey()
	rawID, ok := obj[key]
	if !ok {
		rawID, ok = obj["id"]
	}
	id := strings.TrimSpace(FormatValue(rawID))
	if !ok || id == "" {
		return Record{}, fmt.Errorf("decode %s record: missing %s", kind, key)
	}
	fields := make(Fields, len(obj))
	for k, v := range obj {
		if k == key || k == "id" {
			continue
		}
		fields[k] = normaliseValue(v)
	}
	return Record{Kind: kind, ID: id, Fields: fields}, nil
}

// DecodeFields parses a JSON object of field values, e.g. a JSONB column.
func DecodeFields(raw []byte) (Fields, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Fields{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	fields := make(Fields, len(obj))
	for k, v := range obj {
		fields[k] = normaliseValue(v)
	}
	return fields, nil
}

func normaliseValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = normaliseValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = normaliseValue(inner)
		}
		return s
	default:
		return v
	}
}

// OrderedKeys returns field names with the preferred ones first and the rest
// in lexical order.
func (f Fields) OrderedKeys(preferred []string) []string {
	keys := make([]string, 0, len(f))
	seen := make(map[string]bool, len(preferred))
	for _, name := range preferred {
		if _, ok := f[name]; ok {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(f))
	for name := range f {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// AllGrades is the grade selector value that disables grade filtering.
const AllGrades = "All Grades"

// ListFilter carries the role-filter surface of a list screen.
type ListFilter struct {
	UserType Role
	Grade    string
}

// IsZero reports whether no filter dimension is set.
func (f ListFilter) IsZero() bool {
	return f.UserType == "" && f.Grade == ""
}

// Params encodes the filter as query parameters.
func (f ListFilter) Params() url.Values {
	params := url.Values{}
	if f.UserType != "" {
		params.Set("userType", string(f.UserType))
	}
	if f.Grade != "" {
		params.Set("grade", f.Grade)
	}
	return params
}

// RecordQuery scopes a server side listing.
type RecordQuery struct {
	Kind    Kind
	OwnerID string
	Grade   string
}

// StoredRecord is a record row as persisted by the API server.
type StoredRecord struct {
	Kind      Kind      `db:"kind"`
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Fields    []byte    `db:"fields"`
	Position  int64     `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
