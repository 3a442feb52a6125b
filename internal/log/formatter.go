package log

import (
	"fmt"
	"strings"
	"time"
)

// Formatter is used by the Sinks to format the log before print.
// It is initialized with a formatStr that can use certain internal variables:
// `ascTime` - The time of the log print in human readable form.
// `level` - The visibility level of the log.
// `message` - The log message itself. This is a compulsory format variable.
// All format variables are enclosed in '{' and '}'.
// Eg: "{ascTime}: [{level}] - {message}"
type Formatter struct {
	formatStr string
}

// DefaultFormatter creates a simple Formatter instance with a pre-defined
// formatStr.
func DefaultFormatter() Formatter {
	return Formatter{
		formatStr: "{ascTime}: [{level}] - {message}",
	}
}

// NewFormatter creates a Formatter instance with a user-defined formatStr.
func NewFormatter(formatStr string) Formatter {
	return Formatter{
		formatStr: formatStr,
	}
}

// Format replaces all format variables in formatStr with their values and
// returns the finished log line.
func (f *Formatter) Format(level string, message string) (string, error) {
	if !strings.Contains(f.formatStr, "{message}") {
		return "", fmt.Errorf("missing `message` parameter in format string")
	}
	replacer := strings.NewReplacer(
		"{ascTime}", time.Now().Format(time.RFC3339),
		"{level}", level,
		"{message}", message,
	)
	return replacer.Replace(f.formatStr) + "\n", nil
}
