package errors

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

// CheckContext returns an error if the context is canceled or timed out.
// This provides a standardized way to check and wrap context errors.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, Canceled, operation+" canceled")
	}
	return nil
}

// Fatalf raises a fail-fast condition: contract violations, resource
// exhaustion, corrupt snapshots and migration protocol violations are logged
// at fatal severity and abort the running operation immediately rather than
// returning an error value. The panic carries a *Error so an embedding
// application can still recover it at a top-level boundary for clean
// shutdown.
func Fatalf(code ErrorCode, format string, args ...interface{}) {
	err := New(code, fmt.Sprintf(format, args...))
	logging.GetLogger().Fatal(context.Background(), "%s", err.Error())
	panic(err)
}

// IsFatal reports whether a recovered panic value is one of our fail-fast
// errors, returning it as an error when it is.
func IsFatal(v interface{}) (error, bool) {
	err, ok := v.(*Error)
	if !ok {
		return nil, false
	}
	switch err.Code() {
	case ContractViolation, ResourceExhausted, SnapshotCorrupt, ProtocolViolation:
		return err, true
	}
	return nil, false
}
