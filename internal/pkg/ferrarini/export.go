package ferrarini

import (
	"fmt"
	"time"
)

// Downloader delivers the finished document under its file name.
type Downloader interface {
	Download(filename, contentType string, body []byte) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(filename, contentType string, body []byte) error

func (f DownloaderFunc) Download(filename, contentType string, body []byte) error {
	return f(filename, contentType, body)
}

// Exporter validates a request, assembles the workbook and hands the
// encoded bytes to a Downloader.
type Exporter struct {
	Reporter Reporter
	Location *time.Location
	Now      func() time.Time
}

// Filename returns the download name of req without extension.
func Filename(req Request) string {
	if req.FullYear() {
		return fmt.Sprintf("Foglio Presenze %s_%d_Full", req.EmployeeName, req.Year)
	}
	return fmt.Sprintf("Foglio Presenze %s_%d(%d)", req.EmployeeName, req.Year, req.Month)
}

// Export runs one export. Only an invalid request or a failure to encode
// or deliver the document is returned; bad records and months go to the
// Reporter.
func (e *Exporter) Export(req Request, d Downloader) error {
	if err := req.Validate(); err != nil {
		return err
	}

	a := &Assembler{Reporter: e.Reporter, Location: e.Location, Now: e.Now}
	wb, err := a.Assemble(req)
	if err != nil {
		return err
	}

	format := req.format()
	body, err := wb.Bytes(format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	if err := d.Download(Filename(req)+format.Extension(), format.ContentType(), body); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	return nil
}
