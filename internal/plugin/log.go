// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plugin implements the Stash external-plugin protocol: the JSON
// payload the host writes on stdin, the JSON result it reads from stdout,
// and the framed stderr log format it parses for log lines and progress.
package plugin

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Stash parses plugin stderr as SOH <level> STX <message> LF records.
// See pkg/plugin/common/log in the stash source.
const (
	startOfHeading = "\x01"
	startOfText    = "\x02"
)

const (
	levelTrace    = 't'
	levelDebug    = 'd'
	levelInfo     = 'i'
	levelWarn     = 'w'
	levelError    = 'e'
	levelProgress = 'p'
)

// levelNames maps level bytes to the plain-text prefix used when the
// logger is not talking to the host.
var levelNames = map[byte]string{
	levelTrace: "TRACE",
	levelDebug: "DEBUG",
	levelInfo:  "INFO",
	levelWarn:  "WARN",
	levelError: "ERROR",
}

// Logger writes leveled log lines either in the host's framed format or as
// plain text for interactive CLI use. Safe for use from a single goroutine;
// the pipeline is sequential so no locking beyond the write mutex is needed.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	framed bool
}

// NewLogger returns a Logger writing to w. When framed is true, records use
// the host's SOH/STX framing; otherwise they are plain "LEVEL message" lines.
func NewLogger(w io.Writer, framed bool) *Logger {
	return &Logger{w: w, framed: framed}
}

// HostLogger returns a Logger speaking the framed protocol on stderr, for
// use when the binary runs as a Stash plugin.
func HostLogger() *Logger { return NewLogger(os.Stderr, true) }

// CLILogger returns a plain-text stderr Logger for interactive use.
func CLILogger() *Logger { return NewLogger(os.Stderr, false) }

func (l *Logger) log(level byte, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.framed {
		fmt.Fprintf(l.w, "%s%c%s%s\n", startOfHeading, level, startOfText, msg)
		return
	}
	fmt.Fprintf(l.w, "%s %s\n", levelNames[level], msg)
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...any) { l.log(levelTrace, format, args...) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(levelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.log(levelInfo, format, args...) }

// Warnf logs at warning level.
func (l *Logger) Warnf(format string, args ...any) { l.log(levelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(levelError, format, args...) }

// Progress reports completion to the host as a value clamped to [0, 1].
// Plain-text loggers drop progress records; they are only meaningful to
// the host's job UI.
func (l *Logger) Progress(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.framed {
		fmt.Fprintf(l.w, "%s%c%s%g\n", startOfHeading, levelProgress, startOfText, v)
	}
}
