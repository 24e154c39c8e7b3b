// Package logs builds the process logger: a console handler fanned out into the
// in-memory ring buffer that backs the log viewer.
package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"membership/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
	Buffer *RingBuffer
}

// New creates and initializes slog.Logger
func New(params Params) (*slog.Logger, error) {
	return newLogger(os.Stdout, params.Config, params.Buffer)
}

// NewBuffer sizes the viewer buffer from env.log.bufferSize.
func NewBuffer(cfg *config.Config) *RingBuffer {
	return NewRingBuffer(cfg.Env.Log.BufferSize)
}

func newLogger(out io.Writer, cfg *config.Config, buffer *RingBuffer) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	if cfg.Env.Log.Pretty {
		console = slog.NewTextHandler(out, opts)
	} else {
		console = slog.NewJSONHandler(out, opts)
	}

	if buffer == nil {
		return slog.New(console), nil
	}

	return slog.New(newFanoutHandler(console, NewRingHandler(buffer, level))), nil
}

// parseLogLevel converts string log level to slog.Level. Empty means info.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
