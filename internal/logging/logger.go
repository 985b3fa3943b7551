// Package logging provides the leveled console logger used by every stage.
// Output goes through zerolog: a colorized console writer on stdout (ERROR
// on stderr) and, when a log file is configured, JSON lines appended to it.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/thumbmaster/internal/config"
	"github.com/backmassage/thumbmaster/internal/term"
)

const timeFormat = "2006-01-02 15:04:05"

// levelSuccess is written as the level field of NoLevel events so the
// console and the JSON file both show it as its own level.
const levelSuccess = "success"

// Logger provides leveled, optionally colored logging with an optional file sink.
type Logger struct {
	zl   zerolog.Logger
	file *os.File // Only set on the root logger; children share its writer.
}

// NewLogger configures terminal colors from cfg, opens cfg.LogFile when set,
// and returns a logger writing to stdout/stderr. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg, os.Stdout, os.Stderr)
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer) (*Logger, error) {
	l := &Logger{}
	color := term.Enabled()

	var sink zerolog.LevelWriter = splitWriter{
		out: consoleWriter(stdout, color),
		err: consoleWriter(stderr, color),
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		sink = zerolog.MultiLevelWriter(sink, zerolog.SyncWriter(f))
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	l.zl = zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return l, nil
}

func consoleWriter(w io.Writer, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     !color,
		TimeFormat:  timeFormat,
		FormatLevel: formatLevel,
	}
}

// formatLevel renders "[LEVEL]" in the level's color.
func formatLevel(i interface{}) string {
	s, _ := i.(string)
	var color string
	switch s {
	case zerolog.LevelDebugValue:
		color = term.Cyan
	case zerolog.LevelInfoValue:
		color = term.Blue
	case levelSuccess:
		color = term.Green
	case zerolog.LevelWarnValue:
		color = term.Yellow
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue:
		color = term.Red
	}
	return term.Paint(color, "["+strings.ToUpper(s)+"]")
}

// splitWriter sends error-and-above to err and everything else to out.
type splitWriter struct {
	out, err io.Writer
}

func (s splitWriter) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level != zerolog.NoLevel {
		return s.err.Write(p)
	}
	return s.out.Write(p)
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger that attaches key=value to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Log().Str(zerolog.LevelFieldName, levelSuccess).Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan); dropped unless the logger was built with Verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}
