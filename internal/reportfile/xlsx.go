package reportfile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ossvat/internal/ingest"
)

// XLSXSource streams records from the first worksheet of a spreadsheet
// report. The first row is the header.
type XLSXSource struct {
	f      *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

// NewXLSXSource opens the workbook in r and reads the header row of the
// first sheet. Close must be called to release the workbook.
func NewXLSXSource(r io.Reader) (*XLSXSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reportfile.NewXLSXSource: opening workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("reportfile.NewXLSXSource: workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reportfile.NewXLSXSource: reading sheet %s: %w", sheets[0], err)
	}

	s := &XLSXSource{f: f, rows: rows}
	if rows.Next() {
		raw, err := rows.Columns()
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("reportfile.NewXLSXSource: reading header: %w", err)
		}
		s.header = normalizeHeader(raw)
		s.line = 1
	}
	return s, nil
}

// Header returns the normalized column names.
func (s *XLSXSource) Header() []string {
	return s.header
}

// Next returns the next record, or io.EOF after the last row. Fully empty
// rows are skipped.
func (s *XLSXSource) Next() (ingest.Record, error) {
	if s.header == nil {
		return nil, io.EOF
	}
	for s.rows.Next() {
		s.line++
		values, err := s.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", s.line, err)
		}
		if len(values) == 0 {
			continue
		}
		return ingest.NewRecord(s.header, values), nil
	}
	if err := s.rows.Error(); err != nil {
		return nil, fmt.Errorf("row %d: %w", s.line+1, err)
	}
	return nil, io.EOF
}

// Close releases the workbook.
func (s *XLSXSource) Close() error {
	_ = s.rows.Close()
	return s.f.Close()
}
