package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

type fatalSink struct {
	entries []logging.LogEntry
}

func (s *fatalSink) Write(e logging.LogEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *fatalSink) Sync() error  { return nil }
func (s *fatalSink) Close() error { return nil }

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(InvalidInput, "stable size must be at least 2")
	assert.Equal(t, "stable size must be at least 2", err.Error())

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, InvalidInput, e.Code())
}

func TestWrapPreservesOriginal(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ResourceExhausted, "snapshot write failed")

	assert.Equal(t, "snapshot write failed: disk full", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, Unknown, "ignored"))
	assert.Nil(t, WithFields(nil, Fields{"k": "v"}))
}

func TestWithFieldsAccumulates(t *testing.T) {
	err := New(ValidationFailed, "bad parameter")
	err = WithFields(err, Fields{"field": "crossover_ratio"})
	err = WithFields(err, Fields{"value": 1.5})

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, ValidationFailed, e.Code(), "code survives field additions")

	fields := e.Fields()
	assert.Equal(t, "crossover_ratio", fields["field"])
	assert.Equal(t, 1.5, fields["value"])

	// Fields() hands out a copy, not the internal map.
	fields["field"] = "mutated"
	assert.Equal(t, "crossover_ratio", e.Fields()["field"])
}

func TestWithFieldsOnForeignError(t *testing.T) {
	err := WithFields(fmt.Errorf("plain"), Fields{"rank": 3})

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, Unknown, e.Code())
	assert.Equal(t, 3, e.Fields()["rank"])
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(fmt.Errorf("inner"), Canceled, "run stopped")
	assert.True(t, stderrors.Is(err, New(Canceled, "anything")))
	assert.False(t, stderrors.Is(err, New(InvalidInput, "anything")))
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background(), "evolution"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CheckContext(ctx, "evolution")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, Canceled, e.Code())
}

func TestFatalfPanicsWithStructuredError(t *testing.T) {
	defer func() {
		v := recover()
		require.NotNil(t, v)

		err, fatal := IsFatal(v)
		assert.True(t, fatal)
		assert.Equal(t, "chromosome 2 out of range", err.Error())
	}()
	Fatalf(ContractViolation, "chromosome %d out of range", 2)
}

func TestFatalfLogsBeforePanicking(t *testing.T) {
	sink := &fatalSink{}
	prev := logging.GetLogger()
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.DEBUG,
		Outputs:  []logging.Output{sink},
	}))
	defer logging.SetLogger(prev)

	defer func() {
		_, fatal := IsFatal(recover())
		require.True(t, fatal)

		require.Len(t, sink.entries, 1, "the failure must be logged before the abort")
		assert.Equal(t, logging.FATAL, sink.entries[0].Severity)
		assert.Equal(t, "soup exhausted at 40 entities", sink.entries[0].Message)
	}()
	Fatalf(ResourceExhausted, "soup exhausted at %d entities", 40)
}

func TestIsFatal(t *testing.T) {
	for _, code := range []ErrorCode{
		ContractViolation, ResourceExhausted, SnapshotCorrupt, ProtocolViolation,
	} {
		_, fatal := IsFatal(New(code, "boom"))
		assert.True(t, fatal, "code %d", code)
	}

	_, fatal := IsFatal(New(InvalidInput, "boom"))
	assert.False(t, fatal)
	_, fatal = IsFatal("not even an error")
	assert.False(t, fatal)
}
