package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
)

// MaxFieldChars bounds a single field, in characters.
const MaxFieldChars = 131072

var (
	ErrNoHeader        = errors.New("csv file has no headers")
	ErrInvalidEncoding = errors.New("invalid utf-8 encoding")
	ErrFieldTooLarge   = fmt.Errorf("field larger than field limit (%d)", MaxFieldChars)
)

// MissingHeadersError lists required columns absent from the header record.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Missing, ", "))
}

// CSVReader yields rows keyed by header name.
type CSVReader struct {
	r         *csv.Reader
	header    []string
	recordNum int
}

// NewCSVReader reads the header record. An input with no records, or whose
// header holds only empty names, yields ErrNoHeader.
//
// Quoting is lenient: a stray quote inside an unquoted field is kept as a
// literal character.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkFieldSize(cr, header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkEncoding(header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	hasName := false
	for _, name := range header {
		if strings.TrimSpace(name) != "" {
			hasName = true
			break
		}
	}
	if !hasName {
		return nil, ErrNoHeader
	}

	return &CSVReader{r: cr, header: header, recordNum: 1}, nil
}

func (c *CSVReader) Header() []string {
	out := make([]string, len(c.header))
	copy(out, c.header)
	return out
}

// RequireHeaders checks that every required column is present. Names match
// exactly.
func (c *CSVReader) RequireHeaders(required []string) error {
	present := make(map[string]struct{}, len(c.header))
	for _, name := range c.header {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingHeadersError{Missing: missing}
	}
	return nil
}

// Next returns the next record and its 1-based record number (the header is
// record 1). It returns io.EOF when the input is exhausted.
func (c *CSVReader) Next() (domain.Row, int, error) {
	record, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, err
	}
	c.recordNum++

	if err := checkFieldSize(c.r, record); err != nil {
		return nil, c.recordNum, err
	}
	if err := checkEncoding(record); err != nil {
		return nil, c.recordNum, fmt.Errorf("record %d: %w", c.recordNum, err)
	}

	row := make(domain.Row, len(c.header))
	for i, name := range c.header {
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}
	return row, c.recordNum, nil
}

// checkFieldSize reports an oversized field of the record just read as a
// *csv.ParseError positioned at that field.
func checkFieldSize(cr *csv.Reader, record []string) error {
	for i, field := range record {
		if len(field) <= MaxFieldChars || utf8.RuneCountInString(field) <= MaxFieldChars {
			continue
		}
		line, column := cr.FieldPos(i)
		return &csv.ParseError{StartLine: line, Line: line, Column: column, Err: ErrFieldTooLarge}
	}
	return nil
}

func checkEncoding(record []string) error {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return ErrInvalidEncoding
		}
	}
	return nil
}
