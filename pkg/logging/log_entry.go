package logging

// LogEntry represents a single structured log record.
type LogEntry struct {
	Time     int64  // Unix nanoseconds
	Severity Severity
	Message  string

	// Source information
	File     string
	Line     int
	Function string

	// Structured context
	Fields map[string]interface{}
}
