// Package walletlog provides the wallet core's logging handle. spec.md §9
// calls the original source's logger a "global mutable logger" and asks
// for it to be "expressed as a handle threaded through constructors
// ... rather than a singleton mutated after use." This package is that
// handle: a thin wrapper around a github.com/sirupsen/logrus entry (the
// same dependency the teacher tree vendors), built once by the embedding
// application, handed to wallet.New, and passed down from there to the
// subsystem constructors that log.
package walletlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the handle every subsystem constructor accepts.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger writing to w at the given level (logrus level
// names: "debug", "info", "warn", "error").
func New(w io.Writer, level string) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		base.SetLevel(lvl)
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// Discard returns a Logger that drops everything, used by tests and
// callers that have not wired a sink.
func Discard() *Logger {
	return New(io.Discard, "error")
}

// With returns a derived Logger tagging every entry with the given
// component name, e.g. log.With("synchronizer").
func (l *Logger) With(component string) *Logger {
	return &Logger{entry: l.entry.WithField("component", component)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
