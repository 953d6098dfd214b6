package governance

import "errors"

// Governance errors.
var (
	// ErrInsufficientTokens is returned when the proposer's balance is
	// below the proposal threshold.
	ErrInsufficientTokens = errors.New("insufficient governance tokens to create proposal")

	// ErrNoVotingPower is returned for voters with a zero token balance.
	ErrNoVotingPower = errors.New("no voting power")

	// ErrAlreadyVoted is returned on a second vote from the same voter
	// on the same proposal.
	ErrAlreadyVoted = errors.New("voter has already voted on this proposal")

	// ErrVotingEnded is returned for votes cast after the voting window.
	ErrVotingEnded = errors.New("voting period has ended")

	// ErrVotingStillActive is returned when execution is attempted
	// before the voting window closes.
	ErrVotingStillActive = errors.New("voting period is still active")

	// ErrAlreadyExecuted is returned on re-execution of a proposal.
	ErrAlreadyExecuted = errors.New("proposal has already been executed")

	// ErrQuorumNotReached is returned when participation is below the
	// quorum floor.
	ErrQuorumNotReached = errors.New("quorum not reached for proposal")

	// ErrProposalDefeated is returned when no votes are not outnumbered
	// by yes votes.
	ErrProposalDefeated = errors.New("proposal was defeated")

	// ErrDistributionCompleted guards the one-time token distribution.
	ErrDistributionCompleted = errors.New("token distribution already completed")

	// ErrDescriptionTooLong bounds proposal descriptions.
	ErrDescriptionTooLong = errors.New("proposal description too long")

	// ErrInvalidAmount rejects zero-amount treasury deposits.
	ErrInvalidAmount = errors.New("amount must be positive")
)
