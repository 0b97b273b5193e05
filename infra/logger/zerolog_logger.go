package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the core Logger interface.
type zerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger returns a Logger emitting JSON lines to stdout,
// tagged with the component. APP_ENV=dev switches to the
// human-readable console format.
func NewZerologLogger(component string) Logger {
	z := zerolog.New(logWriter()).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &zerologLogger{z: z}
}

func logWriter() io.Writer {
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}

func (l *zerologLogger) Debugf(format string, args ...any) { l.z.Debug().Msgf(format, args...) }

func (l *zerologLogger) Debugw(msg string, fields map[string]any) {
	l.z.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Infof(format string, args ...any) { l.z.Info().Msgf(format, args...) }

func (l *zerologLogger) Warnf(format string, args ...any) { l.z.Warn().Msgf(format, args...) }

func (l *zerologLogger) Errorf(format string, args ...any) { l.z.Error().Msgf(format, args...) }
