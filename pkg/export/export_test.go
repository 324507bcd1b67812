package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSections() []Dataset {
	return []Dataset{
		{
			Name:    "Scheduled",
			Headers: []string{"Class", "Teacher", "Room"},
			Rows:    [][]string{{"1", "t1", "A101"}, {"2", "t2", "B202"}},
		},
		{
			Name:    "Unscheduled",
			Headers: []string{"Class", "Reason"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleSections()[0])
	require.NoError(t, err)

	assert.Equal(t, "Class,Teacher,Room\n1,t1,A101\n2,t2,B202\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Name: "x", Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{Name: "x"})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render("Timetable", sampleSections()...)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render("Timetable")
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleSections()...)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Scheduled", "Unscheduled"}, f.GetSheetList())
	rows, err := f.GetRows("Scheduled")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Class", "Teacher", "Room"}, {"1", "t1", "A101"}, {"2", "t2", "B202"}}, rows)

	rows, err = f.GetRows("Unscheduled")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Class", "Reason"}}, rows)
}
