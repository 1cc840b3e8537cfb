// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package globals

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gviegas/molview/config"
)

// Log is the logging facade of a globals context.
// It does not filter messages based on the debug flag;
// filtering is done by the level of the underlying
// handler.
type Log struct {
	l      *slog.Logger
	mu     sync.Mutex
	timers map[string]time.Time
	now    func() time.Time
}

// NewLog creates a Log that writes to l.
func NewLog(l *slog.Logger) *Log {
	return &Log{
		l:      l,
		timers: make(map[string]time.Time),
		now:    time.Now,
	}
}

func newLogger(w io.Writer, c config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Logger returns the underlying logger.
func (l *Log) Logger() *slog.Logger { return l.l }

// Log logs a message at info level.
func (l *Log) Log(msg string, args ...any) { l.l.Info(msg, args...) }

// Info logs a message at info level.
func (l *Log) Info(msg string, args ...any) { l.l.Info(msg, args...) }

// Warn logs a message at warn level.
func (l *Log) Warn(msg string, args ...any) { l.l.Warn(msg, args...) }

// Error logs a message at error level.
func (l *Log) Error(msg string, args ...any) { l.l.Error(msg, args...) }

// Time starts a timer identified by label.
// Starting a timer that is already running restarts it.
func (l *Log) Time(label string) {
	l.mu.Lock()
	l.timers[label] = l.now()
	l.mu.Unlock()
}

// TimeEnd stops the timer identified by label and logs
// the elapsed time. It returns the elapsed time, or -1 if
// no such timer is running.
func (l *Log) TimeEnd(label string) time.Duration {
	l.mu.Lock()
	start, ok := l.timers[label]
	delete(l.timers, label)
	now := l.now()
	l.mu.Unlock()
	if !ok {
		l.l.Warn("timer does not exist", "label", label)
		return -1
	}
	d := now.Sub(start)
	l.l.Info(label, "elapsed", d)
	return d
}
