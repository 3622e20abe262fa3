package logs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level      string
	Format     string
	Output     string
	Rotation   bool
	MaxSize    int
	MaxBackups int
	MaxAge     int
	RingSize   int
}

// Open builds a Logger whose sink writes to stdout or to cfg.Output.
// File output is rotated with lumberjack when cfg.Rotation is set.
//
// The returned io.Closer releases the file, if any; it is never nil.
func Open(cfg Config) (*Logger, io.Closer, error) {
	level, ok := ParseLevel(strings.ToLower(cfg.Level))
	if !ok {
		level = INFO
	}

	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)

	// Configure output
	if cfg.Output == "" || cfg.Output == "stdout" {
		writer = os.Stdout
	} else if cfg.Rotation {
		rotating := &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		writer, closer = rotating, rotating
	} else {
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, err
		}
		writer, closer = file, file
	}

	// Configure format
	if strings.EqualFold(cfg.Format, "text") {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}
	}

	sink := zerolog.New(writer).With().
		Timestamp().
		Str("component", "ttlmap").
		Logger()

	return NewLogger(cfg.RingSize, level).WithSink(sink), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
