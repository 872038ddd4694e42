package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Grades",
		Columns: []Column{{Key: "gradeid", Label: "ID"}, {Key: "studentname", Label: "Student Name"}, {Key: "marks"}},
		Rows: []map[string]string{
			{"gradeid": "1001", "studentname": "John Doe", "marks": "85"},
			{"gradeid": "1002", "studentname": "Smith, Jane", "marks": "92"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat(" PDF ")
	assert.True(t, ok)
	assert.Equal(t, FormatPDF, f)

	_, ok = ParseFormat("xlsx")
	assert.False(t, ok)
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Student Name,marks\n1001,John Doe,85\n1002,\"Smith, Jane\",92\n", string(out))
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(FormatPDF, sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	wide := sampleDataset()
	for _, key := range []string{"subject", "grade", "semester", "studentid"} {
		wide.Columns = append(wide.Columns, Column{Key: key, Label: "A very long column heading for " + key})
	}
	wide.Rows = nil
	out, err = Render(FormatPDF, wide)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := Render(FormatCSV, Dataset{})
	assert.Error(t, err)
	_, err = Render("xml", sampleDataset())
	assert.Error(t, err)
}
