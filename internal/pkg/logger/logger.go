package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger implements ports.Logger on top of logrus.
type Logger struct {
	entry *logrus.Logger
}

// Options configures the logrus backend.
type Options struct {
	Level   string
	Format  string
	Verbose bool
	Output  io.Writer
}

// New creates a Logger. Verbose forces debug level; otherwise Level is parsed and
// defaults to warn so the CLI stays quiet unless something needs attention.
func New(opts Options) *Logger {
	log := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	log.SetOutput(output)

	switch strings.ToLower(opts.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level := logrus.WarnLevel
	if opts.Level != "" {
		if parsed, err := logrus.ParseLevel(opts.Level); err == nil {
			level = parsed
		} else {
			log.Warnf("Invalid log level '%s', using 'warn' instead. Error: %v", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return &Logger{entry: log}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return New(Options{Output: io.Discard, Level: "panic"})
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.entry.WithFields(fields).WithError(err).Error(msg)
}
