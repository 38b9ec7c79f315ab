package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger provides leveled, colour-tagged logging throughout the application.
// Each line carries an optional component tag, e.g. "[scraper]".
type Logger struct {
	out       *log.Logger
	err       *log.Logger
	component string
	debug     bool
}

// NewLogger creates a Logger writing to stdout/stderr. Debug lines are
// printed only when level is "debug".
func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, level)
}

// NewLoggerTo creates a Logger writing info/warn/debug to out and errors to errOut.
func NewLoggerTo(out, errOut io.Writer, level string) *Logger {
	return &Logger{
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		debug: strings.EqualFold(level, "debug"),
	}
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard, "info")
}

// WithComponent returns a copy of the logger tagging every line with name.
func (l *Logger) WithComponent(name string) *Logger {
	c := *l
	c.component = name
	return &c
}

func (l *Logger) line(tag, format string) string {
	prefix := ""
	if l.component != "" {
		prefix = "[" + l.component + "] "
	}
	return fmt.Sprintf("[%s] %s %s%s", time.Now().Format("2006-01-02 15:04:05"), tag, prefix, format)
}

func (l *Logger) Info(format string, args ...any) {
	l.out.Printf(l.line("\033[32mINFO\033[0m ", format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Printf(l.line("\033[33mWARN\033[0m ", format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(l.line("\033[31mERROR\033[0m", format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.out.Printf(l.line("\033[36mDEBUG\033[0m", format), args...)
}
