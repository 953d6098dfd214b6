package domain

// EventType identifies a ledger event published for off-chain indexing.
type EventType string

// Event type constants.
const (
	EventStrategyCreated  EventType = "STRATEGY_CREATED"
	EventStrategyApproved EventType = "STRATEGY_APPROVED"
	EventStrategyRejected EventType = "STRATEGY_REJECTED"
	EventStrategyExecuted EventType = "STRATEGY_EXECUTED"
	EventProposalCreated  EventType = "PROPOSAL_CREATED"
	EventVoteCast         EventType = "VOTE_CAST"
	EventProposalExecuted EventType = "PROPOSAL_EXECUTED"
	EventFlashLoan        EventType = "FLASH_LOAN"
	EventTreasuryDeposit  EventType = "TREASURY_DEPOSIT"
)

// Event is a single ledger event. Fields not relevant to a given type are
// left at their zero value.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`

	Creator    Address `json:"creator,omitempty"`
	StrategyID uint64  `json:"strategy_id,omitempty"`
	ProposalID uint64  `json:"proposal_id,omitempty"`
	Actor      Address `json:"actor,omitempty"`

	Amount uint64 `json:"amount,omitempty"`
	Fee    uint64 `json:"fee,omitempty"`
	Profit uint64 `json:"profit,omitempty"`

	Choice VoteChoice `json:"choice,omitempty"`
	Weight uint64     `json:"weight,omitempty"`
}
