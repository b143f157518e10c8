package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Output interface allows for different logging destinations.
type Output interface {
	Write(LogEntry) error
	Sync() error
	Close() error
}

// ConsoleOutput formats logs for human readability.
type ConsoleOutput struct {
	mu     sync.Mutex
	writer io.Writer
	color  bool // Whether to use ANSI color codes
}

type ConsoleOutputOption func(*ConsoleOutput)

func WithColor(enabled bool) ConsoleOutputOption {
	return func(c *ConsoleOutput) {
		c.color = enabled
	}
}

func NewConsoleOutput(useStderr bool, opts ...ConsoleOutputOption) *ConsoleOutput {
	// Choose the appropriate writer based on useStderr flag
	writer := os.Stdout
	if useStderr {
		writer = os.Stderr
	}

	c := &ConsoleOutput{
		writer: writer,
		color:  true, // Enable colors by default
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Helper function to get ANSI color codes for different severity levels.
func getSeverityColor(s Severity) string {
	switch s {
	case DEBUG:
		return "\033[37m" // Gray
	case INFO:
		return "\033[32m" // Green
	case WARN:
		return "\033[33m" // Yellow
	case ERROR:
		return "\033[31m" // Red
	case FATAL:
		return "\033[35m" // Magenta
	default:
		return ""
	}
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	var result string
	for k, v := range fields {
		result += fmt.Sprintf("%s=%v ", k, v)
	}
	return result
}

func (c *ConsoleOutput) Write(entry LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Unix(0, entry.Time).Format("15:04:05.000")
	sev := entry.Severity.String()
	if c.color {
		sev = getSeverityColor(entry.Severity) + sev + "\033[0m"
	}

	_, err := fmt.Fprintf(c.writer, "%s %s %s:%d %s %s\n",
		ts, sev, entry.File, entry.Line, entry.Message, formatFields(entry.Fields))
	return err
}

func (c *ConsoleOutput) Sync() error { return nil }

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends machine-parseable log lines to a file.
type FileOutput struct {
	mu   sync.Mutex
	file *os.File
}

func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{file: f}, nil
}

func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := fmt.Fprintf(f.file, "%d %s %s:%d %s %s %s\n",
		entry.Time, entry.Severity, entry.File, entry.Line, entry.Function,
		entry.Message, formatFields(entry.Fields))
	return err
}

func (f *FileOutput) Sync() error { return f.file.Sync() }

func (f *FileOutput) Close() error { return f.file.Close() }
