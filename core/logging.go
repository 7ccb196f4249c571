package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// StandardLogger is the production Logger implementation. It writes one
// line per entry, JSON or text per LoggingConfig, and is safe for
// concurrent use.
type StandardLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  logLevel
	format string
}

// NewStandardLogger creates a logger from the logging configuration.
func NewStandardLogger(cfg LoggingConfig) *StandardLogger {
	return &StandardLogger{
		out:    os.Stdout,
		level:  parseLevel(cfg.Level),
		format: cfg.Format,
	}
}

func parseLevel(level string) logLevel {
	switch strings.ToLower(level) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(levelDebug, "DEBUG", msg, fields)
}

func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.log(levelInfo, "INFO", msg, fields)
}

func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(levelWarn, "WARN", msg, fields)
}

func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.log(levelError, "ERROR", msg, fields)
}

func (l *StandardLogger) log(level logLevel, name, msg string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == "text" {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s %s", time.Now().Format(time.RFC3339), name, msg)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
		b.WriteByte('\n')
		_, _ = io.WriteString(l.out, b.String())
		return
	}

	entry := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["time"] = time.Now().Format(time.RFC3339Nano)
	entry["level"] = name
	entry["msg"] = msg

	line, err := json.Marshal(entry)
	if err != nil {
		// Fields with unmarshalable values still deserve a log line.
		line = []byte(fmt.Sprintf(`{"level":%q,"msg":%q}`, name, msg))
	}
	line = append(line, '\n')
	_, _ = l.out.Write(line)
}
