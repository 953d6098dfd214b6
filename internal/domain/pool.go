package domain

// FlashLoanPool holds pooled liquidity and tracks the single outstanding
// flash loan. At most one loan may be active at a time; the
// FlashLoanActive flag is the protocol-level reentrancy guard, independent
// of whatever locking the host provides.
type FlashLoanPool struct {
	Authority    Address
	TokenAccount Address

	// FeeBps is the immutable loan fee rate set at initialization.
	FeeBps uint16

	TotalDeposited     uint64
	TotalLoans         uint64
	TotalFeesCollected uint64

	FlashLoanActive    bool
	ActiveBorrowAmount uint64
}

// Fee computes the loan fee for a principal with truncating division.
// Rounding never favors the borrower.
func (p *FlashLoanPool) Fee(amount uint64) uint64 {
	return amount * uint64(p.FeeBps) / BpsDenominator
}

// RequiredRepayment returns principal plus fee.
func (p *FlashLoanPool) RequiredRepayment(principal uint64) uint64 {
	return principal + p.Fee(principal)
}
