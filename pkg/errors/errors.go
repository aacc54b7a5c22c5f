package errors

import (
	"errors"
	"fmt"
	"time"
)

// ProvisioningError is returned when the fleet trigger command failed or timed out.
// Output holds the captured text exactly as the command produced it.
type ProvisioningError struct {
	ExitCode int
	Output   string
	TimedOut bool
}

func NewProvisioningError(exitCode int, output string) *ProvisioningError {
	return &ProvisioningError{ExitCode: exitCode, Output: output}
}

func NewProvisioningTimeoutError(output string) *ProvisioningError {
	return &ProvisioningError{ExitCode: -1, Output: output, TimedOut: true}
}

func (e *ProvisioningError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("TimeoutExpired: %s", e.Output)
	}
	return fmt.Sprintf("CalledProcessError (code: %d): %s", e.ExitCode, e.Output)
}

func IsProvisioningError(err error) bool {
	var e *ProvisioningError
	return errors.As(err, &e)
}

// ValidationError reports a configuration artifact that failed to parse.
type ValidationError struct {
	Path string
	Err  error
}

func NewValidationError(path string, err error) *ValidationError {
	return &ValidationError{Path: path, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration artifact %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// RetrievalMissError is returned when no running node matches the requested name.
type RetrievalMissError struct {
	Node string
}

func NewRetrievalMissError(node string) *RetrievalMissError {
	return &RetrievalMissError{Node: node}
}

func (e *RetrievalMissError) Error() string {
	return fmt.Sprintf("node %q not found", e.Node)
}

func IsRetrievalMissError(err error) bool {
	var e *RetrievalMissError
	return errors.As(err, &e)
}

// InternalError wraps an unexpected failure of an operation the harness depends on.
type InternalError struct {
	Op  string
	Err error
}

func NewInternalError(op string, err error) *InternalError {
	return &InternalError{Op: op, Err: err}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func IsInternalError(err error) bool {
	var e *InternalError
	return errors.As(err, &e)
}

// SettleTimeoutError is returned when the event log did not stop growing within the allowed wait.
type SettleTimeoutError struct {
	Waited    time.Duration
	LastCount int
	Err       error
}

func NewSettleTimeoutError(waited time.Duration, lastCount int, err error) *SettleTimeoutError {
	return &SettleTimeoutError{Waited: waited, LastCount: lastCount, Err: err}
}

func (e *SettleTimeoutError) Error() string {
	return fmt.Sprintf("event log did not settle after %s (last count %d): %v", e.Waited, e.LastCount, e.Err)
}

func (e *SettleTimeoutError) Unwrap() error { return e.Err }

func IsSettleTimeoutError(err error) bool {
	var e *SettleTimeoutError
	return errors.As(err, &e)
}

// CheckFailedError means the check ran and its assertion did not hold.
type CheckFailedError struct {
	Reason string
}

func NewCheckFailedError(format string, args ...any) *CheckFailedError {
	return &CheckFailedError{Reason: fmt.Sprintf(format, args...)}
}

func (e *CheckFailedError) Error() string {
	return e.Reason
}

func IsCheckFailedError(err error) bool {
	var e *CheckFailedError
	return errors.As(err, &e)
}

// ResourceNotFoundError is returned by the store when a record does not exist.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "run", ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}
