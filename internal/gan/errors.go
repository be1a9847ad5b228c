package gan

import "errors"

// Error kinds for the training core. Callers match with errors.Is.
//
// The core performs no local recovery: every error propagates to the
// caller and a failed step is fatal for the current run. Resuming from an
// earlier step on a later invocation is the only recovery mechanism.
var (
	// ErrInvalidArgument marks caller mistakes: a non-positive global
	// batch size, a zero logging interval, mismatched logit shapes.
	ErrInvalidArgument = errors.New("gan: invalid argument")

	// ErrComputation marks downstream numeric failures such as NaN or Inf
	// loss values. It is surfaced, never suppressed.
	ErrComputation = errors.New("gan: computation failure")
)
