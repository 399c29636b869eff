// Package logging builds the zerolog loggers used by the client and the
// dev server.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	// per-logger levels decide; the global level must not cut trace
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// New returns a logger writing to w at the level implied by env. The local
// env gets a human-readable console writer.
func New(env string, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
	case config.EnvLocal:
		level = zerolog.TraceLevel
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = w
		cw.NoColor = w != os.Stdout && w != os.Stderr
		w = cw
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger(), nil
}

// NewClient returns the terminal client's logger. The TUI owns stdout, so
// logs go to cfg.LogFile or nowhere. The returned closer releases the file.
func NewClient(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(cfg.Env, f)
	if err != nil {
		f.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, f, nil
}
