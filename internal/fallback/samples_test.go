package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal/internal/models"
)

func TestGradeSamples(t *testing.T) {
	grades := For(models.KindGrades)
	require.Len(t, grades, 4)

	want := []struct {
		id, name, studentID, subject string
		marks                        float64
	}{
		{"1001", "John Doe", "S001", "Mathematics", 85},
		{"1002", "Jane Smith", "S002", "English", 92},
		{"1003", "Alex Johnson", "S003", "Science", 78},
		{"1004", "Sarah Williams", "S004", "Social Studies", 88},
	}
	for i, w := range want {
		rec := grades[i]
		assert.Equal(t, models.KindGrades, rec.Kind)
		assert.Equal(t, w.id, rec.ID)
		assert.Equal(t, w.name, rec.Fields["studentname"])
		assert.Equal(t, w.studentID, rec.Fields["studentid"])
		assert.Equal(t, w.subject, rec.Fields["subject"])
		assert.Equal(t, w.marks, rec.Fields["marks"])
		assert.Equal(t, "9", rec.Fields["grade"])
		assert.Equal(t, "Spring 2024", rec.Fields["semester"])
	}
}

func TestOtherSamples(t *testing.T) {
	exams := For(models.KindExams)
	require.Len(t, exams, 2)
	assert.Equal(t, models.Fields{"subject": "English", "date": "2024-03-16", "time": "02:00 PM", "room": "102"}, exams[1].Fields)

	fees := For(models.KindFees)
	require.Len(t, fees, 2)
	assert.Equal(t, "Pending", fees[1].Fields["status"])
	assert.Equal(t, "5000", fees[0].Fields["amount"])

	msgs := For(models.KindMessages)
	require.Len(t, msgs, 2)
	assert.Equal(t, false, msgs[0].Fields["read"])
	assert.Equal(t, true, msgs[1].Fields["read"])

	transport := For(models.KindTransport)
	require.Len(t, transport, 2)
	assert.Equal(t, "BUS002", transport[1].Fields["busno"])

	timetable := For(models.KindTimetable)
	require.Len(t, timetable, 3)
	assert.Equal(t, "Mr. Smith", timetable[2].Fields["teacher"])

	assignments := For(models.KindAssignments)
	require.Len(t, assignments, 3)
	assert.Equal(t, "Lab Report", assignments[2].Fields["title"])

	assert.Empty(t, For(models.KindLibrary))
	assert.NotNil(t, For(models.KindProfile))
}

func TestForReturnsCopies(t *testing.T) {
	first := For(models.KindGrades)
	first[0].Fields["marks"] = 10.0

	assert.Equal(t, 85.0, For(models.KindGrades)[0].Fields["marks"])
}
