package source

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// utf8BOM is prepended to the header by most spreadsheet exports.
const utf8BOM = "\ufeff"

// Reader iterates the data records of a CSV file. The first record of the file is the header and
// is consumed by Open.
type Reader struct {
	file   *os.File
	csv    *csv.Reader
	header []string
	line   int
}

// Open opens the CSV file at path and reads its header row. The caller owns the returned Reader
// and must Close it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrFileAccess, "%v", err)
	}

	r := &Reader{
		file: f,
		csv:  newCSVReader(f),
	}

	if err = r.readHeader(path); err != nil {
		_ = f.Close()
		return nil, err
	}

	return r, nil
}

// newCSVReader builds a reader that leaves field count checks to the caller, so a short row can be
// reported against the header instead of as a generic parse failure.
func newCSVReader(rd io.Reader) *csv.Reader {
	c := csv.NewReader(rd)
	c.FieldsPerRecord = -1
	c.ReuseRecord = true
	return c
}

func (r *Reader) readHeader(path string) error {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return newError(ErrMissingHeader, "%s is empty", path)
	}
	if err != nil {
		return r.wrapReadErr(err)
	}

	// ReuseRecord hands back a shared slice
	header := make([]string, len(record))
	copy(header, record)
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	r.header = header
	r.line, _ = r.csv.FieldPos(0)
	return nil
}

// Header returns the field names from the first row of the file.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next data record, or io.EOF once the file is exhausted. The returned slice is
// only valid until the following call to Next.
func (r *Reader) Next() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.wrapReadErr(err)
	}

	r.line, _ = r.csv.FieldPos(0)
	return record, nil
}

// Line is the line number of the record last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) wrapReadErr(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return newError(ErrMalformedRow, "line %d: %v", parseErr.StartLine, parseErr.Err)
	}
	return newError(ErrFileAccess, "%v", err)
}
