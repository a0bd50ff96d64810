package ferrarini

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDownloader struct {
	calls       int
	filename    string
	contentType string
	body        []byte
	err         error
}

func (d *recordingDownloader) Download(filename, contentType string, body []byte) error {
	d.calls++
	d.filename = filename
	d.contentType = contentType
	d.body = body
	return d.err
}

func newTestExporter() *Exporter {
	return &Exporter{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestExport_RejectsYearBefore1970(t *testing.T) {
	d := &recordingDownloader{}

	err := newTestExporter().Export(Request{Year: 1969, Month: 1, EmployeeName: "Mario Rossi"}, d)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, d.calls)
}

func TestExport_SingleMonthXLSX(t *testing.T) {
	d := &recordingDownloader{}

	err := newTestExporter().Export(Request{Year: 2024, Month: 3, EmployeeName: "Mario Rossi", Shifts: sampleShifts()}, d)

	require.NoError(t, err)
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, "Foglio Presenze Mario Rossi_2024(3).xlsx", d.filename)
	assert.Equal(t, FormatXLSX.ContentType(), d.contentType)
	assert.NotEmpty(t, d.body)
}

func TestExport_FullYear(t *testing.T) {
	d := &recordingDownloader{}

	err := newTestExporter().Export(Request{Year: 2024, EmployeeName: "Mario Rossi"}, d)

	require.NoError(t, err)
	assert.Equal(t, "Foglio Presenze Mario Rossi_2024_Full.xlsx", d.filename)
}

func TestExport_CSV(t *testing.T) {
	d := &recordingDownloader{}

	err := newTestExporter().Export(Request{Year: 2024, Month: 11, EmployeeName: "Mario Rossi", Format: FormatCSV}, d)

	require.NoError(t, err)
	assert.Equal(t, "Foglio Presenze Mario Rossi_2024(11).csv", d.filename)
	assert.Equal(t, "text/csv; charset=utf-8", d.contentType)
	assert.Contains(t, string(d.body), "No Data")
}

func TestExport_FullYearCSVRejected(t *testing.T) {
	d := &recordingDownloader{}

	err := newTestExporter().Export(Request{Year: 2024, EmployeeName: "Mario Rossi", Format: FormatCSV}, d)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, d.calls)
}

func TestExport_DownloadFailure(t *testing.T) {
	d := &recordingDownloader{err: errors.New("disk full")}

	err := newTestExporter().Export(Request{Year: 2024, Month: 1, EmployeeName: "Mario Rossi"}, d)

	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, ErrInvalidParameter)
}

func TestExport_Idempotent(t *testing.T) {
	first, second := &recordingDownloader{}, &recordingDownloader{}
	req := Request{Year: 2024, Month: 3, EmployeeName: "Mario Rossi", Shifts: sampleShifts(), Format: FormatCSV}

	require.NoError(t, newTestExporter().Export(req, first))
	require.NoError(t, newTestExporter().Export(req, second))

	assert.Equal(t, first.body, second.body)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Foglio Presenze Anna_2023(12)", Filename(Request{Year: 2023, Month: 12, EmployeeName: "Anna"}))
	assert.Equal(t, "Foglio Presenze Anna_2023_Full", Filename(Request{Year: 2023, EmployeeName: "Anna"}))
}

func TestIssueError(t *testing.T) {
	issue := Issue{Kind: KindMalformedRecord, Month: 3, Record: "42", Err: errors.New("bad end")}

	assert.Equal(t, "malformed_record (month 3, record 42): bad end", issue.Error())
	assert.ErrorIs(t, issue, ErrMalformedRecord)
	assert.NotErrorIs(t, issue, ErrSheetGeneration)
}
