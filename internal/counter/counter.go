package counter

import (
	"context"
	"errors"
	"github.com/litetable/groupcount/internal/source"
	"github.com/litetable/groupcount/internal/tally"
	"github.com/rs/zerolog"
	"io"
)

//go:generate mockgen -destination=counter_mock.go -package=counter -source=counter.go

// DefaultColumn is the header field rows are grouped by unless configured otherwise.
const DefaultColumn = "group"

// RowSource is a header plus a forward-only sequence of records. Next returns io.EOF when there
// are no more records.
type RowSource interface {
	Header() []string
	Next() ([]string, error)
	Line() int
	Close() error
}

// Opener acquires a RowSource for a path.
type Opener interface {
	Open(path string) (RowSource, error)
}

// FileOpener opens CSV files from the local file system.
type FileOpener struct{}

func (FileOpener) Open(path string) (RowSource, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

type Counter struct {
	opener Opener
	column string
}

type Config struct {
	Opener Opener
	Column string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Opener == nil {
		errGrp = append(errGrp, errors.New("opener cannot be nil"))
	}
	if c.Column == "" {
		errGrp = append(errGrp, errors.New("column cannot be empty"))
	}
	return errors.Join(errGrp...)
}

// New creates a Counter that groups rows by cfg.Column.
func New(cfg *Config) (*Counter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Counter{
		opener: cfg.Opener,
		column: cfg.Column,
	}, nil
}

// Count makes a single pass over the file at path and tallies its rows by the configured column.
// The tally is only returned once every row has been read; any error discards it.
func (c *Counter) Count(ctx context.Context, path string) (*tally.Tally, error) {
	logger := zerolog.Ctx(ctx)

	src, err := c.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Str("path", path).Msg("failed to close input")
		}
	}()

	header := src.Header()
	idx := columnIndex(header, c.column)
	if idx < 0 {
		return nil, newError(ErrMissingField, "header has no %q column", c.column)
	}

	logger.Debug().Str("path", path).Strs("header", header).Int("column_index", idx).
		Msg("counting rows")

	t := tally.New()
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if idx >= len(record) {
			return nil, newError(ErrMissingField, "line %d: row has no %q value",
				src.Line(), c.column)
		}
		if len(record) != len(header) {
			return nil, newError(source.ErrMalformedRow, "line %d: expected %d fields, got %d",
				src.Line(), len(header), len(record))
		}

		t.Add(record[idx])
	}

	logger.Debug().Str("path", path).Int("rows", t.Total()).Int("groups", t.Len()).
		Msg("counting complete")

	return t, nil
}

// columnIndex returns the position of name in header, or -1. Duplicate names resolve to the first.
func columnIndex(header []string, name string) int {
	for i, field := range header {
		if field == name {
			return i
		}
	}
	return -1
}
