/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatter for QueryCollect. Colored levels, optional event
prefixes for generation, guess and request logs and key=value fields in stable order.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter renders one entry per line
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
	Prefixes  bool // Tag well-known messages with a short event prefix
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	if f.Timestamp {
		f.write(&output, 36, entry.Time.Format("2006-01-02 15:04:05.000"))
	}

	f.write(&output, f.getLevelColor(entry.Level), strings.ToUpper(entry.Level.String()))

	if f.Prefixes {
		if prefix := eventPrefix(entry.Message); prefix != "" {
			f.write(&output, 35, "["+prefix+"]")
		}
	}

	if f.Caller && entry.HasCaller() {
		f.write(&output, 33, fmt.Sprintf("[%s:%d]", entry.Caller.File, entry.Caller.Line))
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data))
	}

	output.WriteString("\n")
	return []byte(output.String()), nil
}

// write appends text followed by a space, colored when enabled
func (f *CustomFormatter) write(b *strings.Builder, color int, text string) {
	if f.Colors {
		fmt.Fprintf(b, "\033[%dm%s\033[0m ", color, text)
		return
	}
	b.WriteString(text)
	b.WriteString(" ")
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	default:
		return 35 // Magenta
	}
}

// eventPrefix maps the messages of the domain helpers to a short tag
func eventPrefix(message string) string {
	switch {
	case strings.HasPrefix(message, "Round generated"):
		return "GEN"
	case strings.HasPrefix(message, "Guess"):
		return "GUESS"
	case strings.HasPrefix(message, "Request"):
		return "HTTP"
	default:
		return ""
	}
}

// formatFields formats structured fields sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := formatValue(fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, value))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
	}
	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case error:
		return v.Error()
	case string:
		if len(v) > 50 {
			return v[:50] + "..."
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
