package registry

import "errors"

// Strategy registry errors.
var (
	// ErrProfitThresholdTooLow is returned for thresholds below 10 bps.
	ErrProfitThresholdTooLow = errors.New("profit threshold must be at least 10 basis points")

	// ErrSlippageTooHigh is returned for slippage above 500 bps.
	ErrSlippageTooHigh = errors.New("max slippage cannot exceed 500 basis points")

	// ErrNoDexSpecified is returned when the venue list is empty or over
	// the per-strategy cap.
	ErrNoDexSpecified = errors.New("strategy must have at least one DEX venue")

	// ErrNoTokenPairSpecified is returned when the pair list is empty or
	// over the per-strategy cap.
	ErrNoTokenPairSpecified = errors.New("strategy must have at least one token pair")

	// ErrInvalidTokenPair is returned when a pair holds identical tokens.
	ErrInvalidTokenPair = errors.New("token pair cannot have identical tokens")

	// ErrInvalidStatus is returned for approve/reject outside Pending.
	// Approved and Rejected are terminal.
	ErrInvalidStatus = errors.New("strategy status is not pending")

	// ErrStrategyNotApproved gates execution and metrics updates.
	ErrStrategyNotApproved = errors.New("strategy is not approved for execution")

	// ErrUnauthorizedApprover is returned when the caller does not hold
	// the admin or governance capability.
	ErrUnauthorizedApprover = errors.New("only admin can approve strategies")
)
