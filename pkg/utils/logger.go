package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	SetLevel(level LogLevel)
	SetOutput(w io.Writer)

	WithField(key string, value interface{}) Logger
}

// CrawlLogger is the main logger implementation
type CrawlLogger struct {
	level  LogLevel
	logger *log.Logger
	fields map[string]interface{}
}

// NewLogger creates a new logger writing to w at the given level
func NewLogger(w io.Writer, level LogLevel) *CrawlLogger {
	if w == nil {
		w = os.Stderr
	}
	return &CrawlLogger{
		level:  level,
		logger: log.New(w, "", 0),
		fields: make(map[string]interface{}),
	}
}

// Debug logs a debug message
func (l *CrawlLogger) Debug(msg string, args ...interface{}) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message
func (l *CrawlLogger) Info(msg string, args ...interface{}) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *CrawlLogger) Warn(msg string, args ...interface{}) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message
func (l *CrawlLogger) Error(msg string, args ...interface{}) {
	l.log(LogLevelError, msg, args...)
}

func (l *CrawlLogger) log(level LogLevel, msg string, args ...interface{}) {
	if l.level > level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), level.String()))
	if len(l.fields) > 0 {
		builder.WriteString(" {")
		first := true
		for k, v := range l.fields {
			if !first {
				builder.WriteString(", ")
			}
			builder.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		builder.WriteString("}")
	}
	builder.WriteString(" ")
	builder.WriteString(msg)

	l.logger.Print(builder.String())
}

// SetLevel sets the logging level
func (l *CrawlLogger) SetLevel(level LogLevel) {
	l.level = level
}

// SetOutput sets the output writer
func (l *CrawlLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// WithField returns a logger with an additional field
func (l *CrawlLogger) WithField(key string, value interface{}) Logger {
	newLogger := &CrawlLogger{
		level:  l.level,
		logger: l.logger,
		fields: make(map[string]interface{}, len(l.fields)+1),
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	newLogger.fields[key] = value
	return newLogger
}

// Global logger instance
var globalLogger Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(w io.Writer, level LogLevel) {
	globalLogger = NewLogger(w, level)
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalLogger == nil {
		globalLogger = NewLogger(os.Stderr, LogLevelInfo)
	}
	return globalLogger
}

// Convenience functions for global logger
func Debug(msg string, args ...interface{}) {
	GetGlobalLogger().Debug(msg, args...)
}

func Info(msg string, args ...interface{}) {
	GetGlobalLogger().Info(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	GetGlobalLogger().Warn(msg, args...)
}

func Error(msg string, args ...interface{}) {
	GetGlobalLogger().Error(msg, args...)
}
