package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Oceny",
		Headers: []string{"Przedmiot", "Ocena"},
		Rows: []map[string]string{
			{"Przedmiot": "Matematyka", "Ocena": "4+"},
			{"Przedmiot": "Język polski", "Ocena": "5"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter(';').Render(sampleDataset())
	require.NoError(t, err)

	text := strings.TrimPrefix(string(out), "\ufeff")
	assert.NotEqual(t, string(out), text)
	assert.Equal(t, "Przedmiot;Ocena\nMatematyka;4+\nJęzyk polski;5\n", text)

	_, err = NewCSVExporter(0).Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "Jezyk polski", pdfText("Język polski"))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	title, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Oceny", title)

	value, err := f.GetCellValue(xlsxSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "5", value)
}

func TestICSExporterRender(t *testing.T) {
	out, err := NewICSExporter("").Render("Terminarz", []CalendarEntry{{
		UID:         "555@librus-sync",
		Date:        time.Date(2019, 9, 3, 0, 0, 0, 0, time.UTC),
		Summary:     "Sprawdzian: Matematyka",
		Description: "Funkcje liniowe",
	}})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "BEGIN:VEVENT")
	assert.Contains(t, text, "UID:555@librus-sync")
	assert.Contains(t, text, "20190903")
	assert.Contains(t, text, "SUMMARY:Sprawdzian: Matematyka")

	_, err = NewICSExporter("").Render("", []CalendarEntry{{Summary: "x"}})
	assert.Error(t, err)
}
