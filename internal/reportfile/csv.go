package reportfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"ossvat/internal/ingest"
)

// sniffBytes is how much of the header line is inspected to pick a delimiter.
const sniffBytes = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource streams records from a delimited text report. The first line is
// the header; cells are kept verbatim, quotes are handled leniently and rows
// may have fewer or more cells than the header.
type CSVSource struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewCSVSource reads the header from r. The delimiter is detected from the
// header line among comma, semicolon and tab. An empty input yields a source
// with no rows.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	br := bufio.NewReaderSize(r, sniffBytes)
	peek, err := br.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("reportfile.NewCSVSource: %w", err)
	}

	comma := detectDelimiter(peek)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	s := &CSVSource{r: cr}
	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reportfile.NewCSVSource: reading header: %w", err)
	}
	s.line = 1
	s.header = normalizeHeader(raw)
	return s, nil
}

// Header returns the normalized column names.
func (s *CSVSource) Header() []string {
	return s.header
}

// Next returns the next record, or io.EOF after the last one. Blank lines
// are skipped by the CSV reader.
func (s *CSVSource) Next() (ingest.Record, error) {
	if s.header == nil {
		return nil, io.EOF
	}
	values, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	s.line++
	return ingest.NewRecord(s.header, values), nil
}

// Close is a no-op; text reports hold no resources beyond the reader.
func (s *CSVSource) Close() error { return nil }

func detectDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', bytes.Count(sample, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(sample, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = ingest.NormalizeHeader(h)
	}
	return out
}
