// Package reportfile turns uploaded marketplace VAT reports into streams of
// ingest records.
package reportfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ossvat/internal/domain"
	"ossvat/internal/ingest"
)

// Source is a row stream that may hold resources until closed.
type Source interface {
	ingest.RowSource
	Header() []string
	io.Closer
}

// FormatFor returns the report format implied by a file name's extension.
func FormatFor(name string) (domain.ReportFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	format, ok := domain.AllowedReportExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	return format, nil
}

// Open picks a reader for r based on the extension of name.
func Open(name string, r io.Reader) (Source, error) {
	format, err := FormatFor(name)
	if err != nil {
		return nil, err
	}
	return OpenFormat(format, r)
}

// OpenFormat opens r as the given format.
func OpenFormat(format domain.ReportFormat, r io.Reader) (Source, error) {
	switch format {
	case domain.ReportFormatCSV:
		s, err := NewCSVSource(r)
		if err != nil {
			return nil, err
		}
		return s, nil
	case domain.ReportFormatXLSX:
		s, err := NewXLSXSource(r)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, format)
	}
}
