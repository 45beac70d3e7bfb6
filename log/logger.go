package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a small leveled logger writing to the terminal, a rotated
// file, or both. A nil *Logger is valid and discards everything, so
// library code can log unconditionally.
type Logger struct {
	writer io.Writer

	Name       string
	Level      Level
	TimeFormat string
	NoColor    bool
}

// Rotation configures the lumberjack file sink.
type Rotation struct {
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// New creates a logger writing colored lines to stdout.
func New(name string, level Level) *Logger {
	return &Logger{
		writer:     os.Stdout,
		Name:       name,
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// NewFile creates a logger writing to both stdout and a rotated file.
// A nil rotation uses the defaults.
func NewFile(name string, level Level, file string, rotation *Rotation) *Logger {
	if rotation == nil {
		rotation = &Rotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
		}
	}

	sink := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}

	l := New(name, level)
	l.writer = io.MultiWriter(os.Stdout, sink)
	l.NoColor = true

	return l
}

// Discard creates a logger that drops all output.
func Discard() *Logger {
	l := New("", Error+1)
	l.writer = io.Discard

	return l
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || level < l.Level {
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", time.Now().Format(l.TimeFormat), level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	formatted := fmt.Sprintf(msg, args...)
	if l.NoColor {
		fmt.Fprintf(l.writer, "%s %s\n", prefix, formatted)
	} else {
		fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", color(level), prefix, formatted)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}
