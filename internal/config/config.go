package config

import (
	"errors"
	"flag"
	"fmt"
	"github.com/rs/zerolog"
	"io"
)

const (
	defaultColumn = "group"
	usage         = "usage: groupcount [-column name] [-debug] <file.csv>"
)

// ErrUsage is returned when the command line cannot be turned into a Config.
var ErrUsage = errors.New(usage)

type Config struct {
	// Path is the CSV file to count.
	Path string
	// Column is the header field rows are grouped by.
	Column string
	Debug  bool
}

// Parse builds a Config from command line arguments, excluding the program name. Exactly one
// positional argument, the input path, is required.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("groupcount", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Column, "column", defaultColumn, "header field to group rows by")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrUsage
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	switch fs.NArg() {
	case 0:
		return nil, fmt.Errorf("%w: missing input file", ErrUsage)
	case 1:
		cfg.Path = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: expected one input file, got %d", ErrUsage, fs.NArg())
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Path == "" {
		errs = append(errs, fmt.Errorf("%w: input file cannot be empty", ErrUsage))
	}
	if c.Column == "" {
		errs = append(errs, fmt.Errorf("%w: column cannot be empty", ErrUsage))
	}
	return errors.Join(errs...)
}

// LogLevel is the minimum level the logger should write.
func (c *Config) LogLevel() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
