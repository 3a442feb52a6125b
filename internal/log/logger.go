// Package log implements a small leveled logging service with console and
// file sinks.
package log

import (
	"fmt"
	"os"
)

type LogLevel int

// The level of visibility of the log output. ERROR is the lowest level,
// VERBOSE is the highest and it increases in the order that it is written.
const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	VERBOSE
)

var levelNames = map[LogLevel]string{
	ERROR:   "ERROR",
	WARN:    "WARN",
	INFO:    "INFO",
	DEBUG:   "DEBUG",
	VERBOSE: "VERBOSE",
}

// Logger is exposed to the user and all logging is done through it.
// It handles its internal errors, so the user doesn't have to catch any.
type Logger struct {
	name    string
	conf    LogConf
	level   LogLevel
	logFile *os.File
	sinks   []Sink
}

// The process-wide logger used by the package level functions. Assigned by
// DefaultLogger and FromName.
var std *Logger

// DefaultLogger creates a pre-defined instance of Logger with a default
// formatter, writing to both the console and the log file at filePath.
// Passing filePath as a blank string makes it go to `/dev/null`.
func DefaultLogger(name string, level LogLevel, filePath string) *Logger {
	if filePath == "" {
		filePath = os.DevNull
	}
	logFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Couldn't create log file: %s\n", err)
		os.Exit(1)
	}
	conf := LogConf{LogLevel: level, FilePath: filePath, FormatStr: "{ascTime}: [{level}] - {message}"}
	if err := conf.Write(name); err != nil {
		fmt.Printf("Couldn't create conf file: %s\n", err)
		os.Exit(1)
	}
	formatter := NewFormatter(conf.FormatStr)
	logger := &Logger{
		name:    name,
		conf:    conf,
		level:   level,
		logFile: logFile,
		sinks: []Sink{
			&Console{formatter},
			&File{logFile, formatter},
		},
	}
	std = logger
	return logger
}

// FromName loads an existing Logger instance from disk. It parses the conf
// file in `/tmp/<name>.json` and builds a new Logger instance.
func FromName(name string) *Logger {
	conf, err := ConfRead(name)
	if err != nil {
		fmt.Printf("Conf error: %s\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(conf.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Couldn't open log file: %s\n", err)
		os.Exit(1)
	}
	formatter := NewFormatter(conf.FormatStr)
	logger := &Logger{
		name:    name,
		conf:    conf,
		level:   conf.LogLevel,
		logFile: logFile,
		sinks: []Sink{
			&Console{formatter},
			&File{logFile, formatter},
		},
	}
	std = logger
	return logger
}

// SetLevel sets the log visibility level of the Logger instance.
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	l.conf.LogLevel = level
	if err := l.conf.Write(l.name); err != nil {
		fmt.Printf("Log update error: %s\n", err)
	}
}

// write formats the message and flushes it to all sinks.
func (l *Logger) write(level LogLevel, message string, args ...any) {
	if l.level < level {
		return
	}
	name := levelNames[level]
	message = fmt.Sprintf(message, args...)
	for _, sink := range l.sinks {
		var err error
		switch level {
		case ERROR:
			err = sink.Error(message)
		case WARN:
			err = sink.Warn(message)
		case INFO:
			err = sink.Info(message)
		case DEBUG:
			err = sink.Debug(message)
		case VERBOSE:
			err = sink.Verbose(message)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed %s log write: %s\n", name, err)
		}
	}
}

// Error prints out the error message passed to the Sinks.
func (l *Logger) Error(message string, args ...any) {
	l.write(ERROR, message, args...)
}

// Warn prints out the warning message passed to the Sinks.
func (l *Logger) Warn(message string, args ...any) {
	l.write(WARN, message, args...)
}

// Info prints out the information passed to the Sinks.
func (l *Logger) Info(message string, args ...any) {
	l.write(INFO, message, args...)
}

// Debug prints out the debug message passed to the Sinks.
func (l *Logger) Debug(message string, args ...any) {
	l.write(DEBUG, message, args...)
}

// Verbose prints out the message passed to the Sinks.
func (l *Logger) Verbose(message string, args ...any) {
	l.write(VERBOSE, message, args...)
}

// Close closes the log file and deletes the conf file.
func (l *Logger) Close() {
	if err := l.logFile.Close(); err != nil {
		fmt.Printf("Failed to close log file: %s\n", err)
	}
	if err := l.conf.Remove(l.name); err != nil {
		fmt.Printf("Failed to remove conf file: %s\n", err)
	}
}

// Error writes an error message through the process-wide logger.
func Error(message string, args ...any) {
	if std != nil {
		std.Error(message, args...)
	}
}

// Warn writes a warning message through the process-wide logger.
func Warn(message string, args ...any) {
	if std != nil {
		std.Warn(message, args...)
	}
}

// Info writes an info message through the process-wide logger.
func Info(message string, args ...any) {
	if std != nil {
		std.Info(message, args...)
	}
}

// Debug writes a debug message through the process-wide logger.
func Debug(message string, args ...any) {
	if std != nil {
		std.Debug(message, args...)
	}
}

// Verbose writes a verbose message through the process-wide logger.
func Verbose(message string, args ...any) {
	if std != nil {
		std.Verbose(message, args...)
	}
}
