package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVParser reads a header row followed by data rows keyed by header name
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	aliases    map[string]string
	headerMap  map[string]int
	headers    []string
	lineNumber int
	dataRows   int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithHeaderAliases maps alternate header spellings onto canonical names.
// A canonical header present in the file wins over its alias.
func WithHeaderAliases(aliases map[string]string) ParserOption {
	return func(p *CSVParser) {
		for alias, canonical := range aliases {
			p.aliases[alias] = canonical
		}
	}
}

// NewCSVParser creates a new CSV parser from a reader
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter: ',',
		aliases:   make(map[string]string),
		headerMap: make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = parser.bufReader.Discard(3)
	}

	if err := validateUTF8(parser.bufReader); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1

	return parser, nil
}

// ParseFromBytes creates a parser from a byte slice. The whole buffer must
// be valid UTF-8.
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	if len(data) > 0 && !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// validateUTF8 rejects empty input and checks the first 4 KB for UTF-8 so
// binary uploads fail before parsing. Later content is checked per record.
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(content) == 0 {
		return ErrEmptyFile
	}

	// A multi-byte rune may straddle the peek window
	if len(content) == checkSize {
		for i := len(content) - 1; i >= 0 && i >= len(content)-utf8.UTFMax; i-- {
			if utf8.RuneStart(content[i]) {
				if !utf8.FullRune(content[i:]) {
					content = content[:i]
				}
				break
			}
		}
	}

	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}

	return nil
}

// validateRecord checks every field of a record, mapped or not, for UTF-8
func validateRecord(record []string, line int) error {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return fmt.Errorf("%w: line %d", ErrInvalidEncoding, line)
		}
	}
	return nil
}

// ParseHeader reads and parses the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	p.lineNumber++
	if err := validateRecord(record, p.lineNumber); err != nil {
		return err
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		p.headers[i] = strings.TrimSpace(h)
	}
	for i, h := range p.headers {
		if h == "" {
			continue
		}
		p.headerMap[h] = i
	}
	for alias, canonical := range p.aliases {
		idx, ok := p.headerMap[alias]
		if !ok {
			continue
		}
		if _, exists := p.headerMap[canonical]; !exists {
			p.headers[idx] = canonical
			p.headerMap[canonical] = idx
		}
		delete(p.headerMap, alias)
	}

	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}

	return nil
}

// Headers returns the parsed header names after alias resolution
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// ValidateHeaders returns the required headers that are absent
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data record. Number is the 1-based position among non-empty
// data rows; LineNumber is the physical record number including the header.
type Row struct {
	Number     int
	LineNumber int
	Data       map[string]string
}

// NewRow builds a row from a column map
func NewRow(number int, data map[string]string) Row {
	return Row{Number: number, LineNumber: number + 1, Data: data}
}

// Get returns the trimmed value for a column by header name
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Data[header])
}

// IsEmpty returns true if the row has no non-blank values
func (r Row) IsEmpty() bool {
	for _, v := range r.Data {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next record. Callers assign Number.
func (p *CSVParser) ReadRow() (Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	}
	p.lineNumber++
	if err != nil {
		return Row{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, p.lineNumber, err)
	}
	if err := validateRecord(record, p.lineNumber); err != nil {
		return Row{}, err
	}

	row := Row{
		LineNumber: p.lineNumber,
		Data:       make(map[string]string, len(p.headerMap)),
	}
	for header, i := range p.headerMap {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads every remaining record, skipping blank ones, and
// numbers the rest from 1. Any malformed record fails the whole read.
func (p *CSVParser) ReadAllRows() ([]Row, error) {
	var rows []Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}

		p.dataRows++
		row.Number = p.dataRows
		rows = append(rows, row)
	}

	return rows, nil
}

// TotalRows returns the number of non-empty data rows read
func (p *CSVParser) TotalRows() int {
	return p.dataRows
}
