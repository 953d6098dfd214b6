// Package exchange defines the external swap capability consumed by the
// execution engine. The engine trusts its availability but never its
// result: profit is always recomputed from the returned amount.
package exchange

import (
	"context"
	"errors"

	"solana-arb-dao/internal/domain"
)

// ErrRateNotFound is returned when no route exists for a pair and venue.
var ErrRateNotFound = errors.New("no exchange rate for token pair on venue")

// Exchange performs a swap along the configured venues and pairs and
// reports the final output amount.
type Exchange interface {
	Swap(ctx context.Context, inputAmount uint64, venues []string, pairs []domain.TokenPair) (uint64, error)
}

// Rate is a fixed-ratio quote on one venue. Output is computed as
// input * Numerator / Denominator with truncating division.
type Rate struct {
	FromToken domain.Address
	ToToken   domain.Address
	Venue     string

	Numerator   uint64
	Denominator uint64
}

// Output applies the rate to an input amount.
func (r Rate) Output(input uint64) uint64 {
	return input * r.Numerator / r.Denominator
}

// MockExchange simulates a two-hop arbitrage route over a static rate
// table. The demo table prices the second venue inefficiently, creating
// an 8% round-trip opportunity.
type MockExchange struct {
	rates []Rate
}

// Demo token tags for the mock rate table.
const (
	TokenSOL  domain.Address = "SOL"
	TokenUSDC domain.Address = "USDC"

	VenueA = "DEX_A"
	VenueB = "DEX_B"
)

// NewMockExchange creates the demo exchange: SOL→USDC on DEX_A at 100,
// USDC→SOL on DEX_B at 1.08/100, so a SOL round trip yields 8%.
func NewMockExchange() *MockExchange {
	return &MockExchange{rates: []Rate{
		{FromToken: TokenSOL, ToToken: TokenUSDC, Venue: VenueA, Numerator: 100, Denominator: 1},
		{FromToken: TokenUSDC, ToToken: TokenSOL, Venue: VenueA, Numerator: 1, Denominator: 100},
		{FromToken: TokenSOL, ToToken: TokenUSDC, Venue: VenueB, Numerator: 98, Denominator: 1},
		{FromToken: TokenUSDC, ToToken: TokenSOL, Venue: VenueB, Numerator: 108, Denominator: 10_000},
	}}
}

// Swap routes input through each (venue, pair) hop in order: hop i swaps
// pair i's TokenA to TokenB on venue i, cycling venues if there are more
// pairs than venues.
func (m *MockExchange) Swap(_ context.Context, inputAmount uint64, venues []string, pairs []domain.TokenPair) (uint64, error) {
	amount := inputAmount
	for i, pair := range pairs {
		venue := venues[i%len(venues)]
		rate, ok := m.find(pair.TokenA, pair.TokenB, venue)
		if !ok {
			return 0, ErrRateNotFound
		}
		amount = rate.Output(amount)
	}
	return amount, nil
}

func (m *MockExchange) find(from, to domain.Address, venue string) (Rate, bool) {
	for _, r := range m.rates {
		if r.FromToken == from && r.ToToken == to && r.Venue == venue {
			return r, true
		}
	}
	return Rate{}, false
}

// FixedRateExchange multiplies input by a constant ratio regardless of
// route. Used by tests to pin swap outcomes.
type FixedRateExchange struct {
	Numerator   uint64
	Denominator uint64
}

// Swap applies the fixed ratio.
func (f FixedRateExchange) Swap(_ context.Context, inputAmount uint64, _ []string, _ []domain.TokenPair) (uint64, error) {
	return inputAmount * f.Numerator / f.Denominator, nil
}

// Verify interface compliance at compile time.
var (
	_ Exchange = (*MockExchange)(nil)
	_ Exchange = FixedRateExchange{}
)
