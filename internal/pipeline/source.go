package pipeline

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/promice/aws2bufr/internal/domain"
)

// RowSource yields observation rows from one input. Next returns io.EOF when
// the input is exhausted; an error wrapping domain.ErrMalformedRow marks a
// bad row the caller should skip, any other error is fatal for the input.
type RowSource interface {
	Next() (domain.RawRow, error)
}

// FileSource reads delimited observation files with a header row. PROMICE
// .txt files are whitespace-separated (delimiter 0); exports from other
// toolchains use comma, semicolon or tab.
type FileSource struct {
	scanner   *bufio.Scanner
	delimiter rune
	header    []string
	line      int
}

// NewFileSource wraps a reader. delimiter 0 selects whitespace splitting.
func NewFileSource(r io.Reader, delimiter rune) *FileSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &FileSource{scanner: sc, delimiter: delimiter}
}

// Next returns the next observation row keyed by the header columns.
func (s *FileSource) Next() (domain.RawRow, error) {
	if s.header == nil {
		fields, err := s.readLine()
		if err != nil {
			return domain.RawRow{}, fmt.Errorf("read header: %w", err)
		}
		s.header = fields
	}

	fields, err := s.readLine()
	if err != nil {
		return domain.RawRow{}, err
	}
	if len(fields) != len(s.header) {
		return domain.RawRow{Line: s.line}, fmt.Errorf("line %d: %w: %d fields, header has %d",
			s.line, domain.ErrMalformedRow, len(fields), len(s.header))
	}

	row := domain.RawRow{Line: s.line, Fields: make(map[string]string, len(s.header))}
	for i, name := range s.header {
		row.Fields[name] = fields[i]
	}
	return row, nil
}

// readLine returns the fields of the next non-blank line.
func (s *FileSource) readLine() ([]string, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}
		return s.split(text)
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *FileSource) split(text string) ([]string, error) {
	if s.delimiter == 0 {
		return strings.Fields(text), nil
	}
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = s.delimiter
	cr.TrimLeadingSpace = true
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w: %v", s.line, domain.ErrMalformedRow, err)
	}
	return fields, nil
}
