// Package xerr defines the error-value taxonomy shared by every component
// of the decision engine. Expected conditions are returned as values and
// matched with errors.Is/errors.As; nothing in this package panics.
package xerr

import "errors"

var (
	// ErrInsufficientHistory is returned when fewer than the configured
	// minimum number of closed bars is available. Recoverable on the next
	// controller tick once more history has accumulated.
	ErrInsufficientHistory = errors.New("xerr: insufficient bar history")

	// ErrTerminalUnavailable wraps a failed connect/fetch/order call against
	// the broker terminal port. The caller must not mutate state and should
	// trigger the reconnection backoff.
	ErrTerminalUnavailable = errors.New("xerr: terminal unavailable")

	// ErrInvalidInputData marks a malformed bar (NaN/negative OHLC) or other
	// structurally invalid input. The tick that produced it is skipped.
	ErrInvalidInputData = errors.New("xerr: invalid input data")

	// ErrTpConfigurationInvalid means risk_unit <= 0 or the TP ladder is not
	// strictly monotonic. The caller must refuse to open the position.
	ErrTpConfigurationInvalid = errors.New("xerr: invalid take-profit configuration")

	// ErrExitReasonMismatch means an exit's price is inconsistent with its
	// label (e.g. "TP3 Hit" below tp3_price). The caller auto-corrects and
	// warns rather than propagating this as a hard failure.
	ErrExitReasonMismatch = errors.New("xerr: exit reason mismatch")

	// ErrStatePersistenceFailure means a state-store write failed. In-memory
	// state is kept; the next flush writes the full state again. Failures
	// are not counted and do not block new position opens.
	ErrStatePersistenceFailure = errors.New("xerr: state persistence failure")

	// ErrRecoveryInconsistency means the broker's open-position list and the
	// store's recovered state disagree on startup.
	ErrRecoveryInconsistency = errors.New("xerr: recovery inconsistency")
)

// PersistenceError carries the underlying cause of an
// ErrStatePersistenceFailure and the operation that failed. FailedCount is
// left at zero by the store, which keeps no running failure count.
type PersistenceError struct {
	Op          string
	Err         error
	FailedCount int
}

func (e *PersistenceError) Error() string {
	return "xerr: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return ErrStatePersistenceFailure
}

// RecoveryError names the ticket that could not be reconciled between the
// broker's live position list and the store's recovered snapshot.
type RecoveryError struct {
	Ticket string
	Reason string
}

func (e *RecoveryError) Error() string {
	return "xerr: recovery inconsistency for ticket " + e.Ticket + ": " + e.Reason
}

func (e *RecoveryError) Unwrap() error {
	return ErrRecoveryInconsistency
}
