package log

import (
	"io"
	"os"
	"sync/atomic"

	"mdocx/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*logrus.Logger)

// WithOutput sends log output to w.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// fileOutput marks a log file opened by WithFile, so the logger that owns
// it can close it.
type fileOutput struct {
	*os.File
}

// WithFile appends log output to the file at path. The TUI uses this so log
// lines do not tear the terminal screen.
func WithFile(path string) Option {
	return func(l *logrus.Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			l.Warnf("cannot open log file %s: %v", path, err)
			return
		}
		l.SetOutput(fileOutput{f})
	}
}

type Logger struct {
	entry *logrus.Entry
}

func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	for _, opt := range opts {
		opt(base)
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// Close releases a log file opened by WithFile. Writers passed with
// WithOutput belong to the caller and are left open.
func (l *Logger) Close() error {
	if f, ok := l.entry.Logger.Out.(fileOutput); ok {
		l.entry.Logger.SetOutput(os.Stderr)
		return f.Close()
	}
	return nil
}

// Configure replaces the package logger and closes the file the previous one
// was writing to, if any. Used by the CLI once flags and config are known.
func Configure(opts ...Option) {
	old := logger
	logger = NewLogger(opts...)
	if err := old.Close(); err != nil {
		logger.WithError(err).Warn("closing previous log file")
	}
}

// Close releases the package logger's log file, if it has one.
func Close() error {
	return logger.Close()
}

func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data)}
}

func (l *Logger) Info(msg string)                          { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                          { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                         { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug is a no-op unless SetDebug(true) was called.
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

// WithError attaches err and whatever classification it carries.
func (l *Logger) WithError(err error) *Logger {
	fields := []Field{F("error", errString(err))}
	if err != nil {
		fields = append(fields, F("error_kind", errors.KindOf(err).String()))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var svcErr *errors.ServiceError
	if errors.As(err, &svcErr) {
		fields = append(fields, F("status_code", svcErr.StatusCode()))
	}
	var netErr *errors.NetworkError
	if errors.As(err, &netErr) && netErr.Endpoint() != "" {
		fields = append(fields, F("endpoint", netErr.Endpoint()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return l.With(fields...)
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

// LogWithError returns the package logger with err attached.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with a message.
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// Info logs an info message with arguments
func Info(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Info(msg)
		return
	}
	logger.Infof(msg+": %v", args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}
