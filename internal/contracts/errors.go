package contracts

import "errors"

// Error taxonomy. Callers wrap these with fmt.Errorf("...: %w") and test with errors.Is.
var (
	// ErrDataUnavailable marks insufficient price history; it becomes a zero row, never a failure
	ErrDataUnavailable = errors.New("insufficient price history")

	// ErrProviderFailure marks a per-ticker fetch or compute failure; it becomes an error row
	ErrProviderFailure = errors.New("provider failure")

	// ErrDiffSourceUnavailable marks a missing previous universe; it is treated as empty
	ErrDiffSourceUnavailable = errors.New("previous universe unavailable")

	// ErrLoadFailure marks an unreadable ticker list; it aborts the run
	ErrLoadFailure = errors.New("ticker list unreadable")
)
