package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput records entries for assertions.
type captureOutput struct {
	entries []LogEntry
}

func (c *captureOutput) Write(e LogEntry) error {
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureOutput) Sync() error  { return nil }
func (c *captureOutput) Close() error { return nil }

func TestSeverityFiltering(t *testing.T) {
	ctx := context.Background()
	out := &captureOutput{}
	logger := NewLogger(Config{Severity: WARN, Outputs: []Output{out}})

	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept too")

	require.Len(t, out.entries, 2)
	assert.Equal(t, WARN, out.entries[0].Severity)
	assert.Equal(t, "kept", out.entries[0].Message)
	assert.Equal(t, ERROR, out.entries[1].Severity)
}

func TestMessageFormattingAndCaller(t *testing.T) {
	ctx := context.Background()
	out := &captureOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	logger.Info(ctx, "generation %d best %.1f", 7, 3.5)

	require.Len(t, out.entries, 1)
	entry := out.entries[0]
	assert.Equal(t, "generation 7 best 3.5", entry.Message)
	assert.Equal(t, "logger_test.go", entry.File)
	assert.NotZero(t, entry.Line)
	assert.NotZero(t, entry.Time)
}

func TestDefaultFieldsPropagate(t *testing.T) {
	ctx := context.Background()
	out := &captureOutput{}
	logger := NewLogger(Config{
		Severity:      DEBUG,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"island": 3},
	})

	logger.Info(ctx, "hello")
	require.Len(t, out.entries, 1)
	assert.Equal(t, 3, out.entries[0].Fields["island"])
}

func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	out := &captureOutput{}
	custom := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})
	SetLogger(custom)

	assert.Same(t, custom, GetLogger())
	GetLogger().Debug(context.Background(), "via global")
	assert.Len(t, out.entries, 1)
}

func TestSeverityStrings(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, WARN, ParseSeverity("WARN"))
	assert.Equal(t, INFO, ParseSeverity("garbage"))
}
