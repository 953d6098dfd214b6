// Package ledger implements the trusted token-ledger capability used by
// the flash loan pool, governance, and the execution engine: per-mint
// balances with atomic transfer semantics.
package ledger

import (
	"errors"
	"sync"

	"solana-arb-dao/internal/domain"
)

// Ledger errors.
var (
	// ErrInsufficientFunds is returned when a transfer exceeds the
	// source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for zero-amount transfers and mints.
	ErrInvalidAmount = errors.New("amount must be positive")
)

type balanceKey struct {
	mint    domain.Address
	account domain.Address
}

// Snapshot is an opaque copy of ledger state, produced by
// Ledger.Snapshot and consumed by Ledger.Restore.
type Snapshot map[balanceKey]uint64

// Ledger holds token balances for all accounts across all mints.
// Every mutation is atomic; concurrent callers are serialized.
type Ledger struct {
	mu       sync.RWMutex
	balances map[balanceKey]uint64
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[balanceKey]uint64)}
}

// Balance returns the balance of account for mint.
func (l *Ledger) Balance(mint, account domain.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey{mint, account}]
}

// MintTo credits newly minted tokens to an account.
func (l *Ledger) MintTo(mint, account domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[balanceKey{mint, account}] += amount
	return nil
}

// Transfer moves amount of mint from one account to another. The debit
// and credit commit together or not at all.
func (l *Ledger) Transfer(mint, from, to domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := balanceKey{mint, from}
	if l.balances[fromKey] < amount {
		return ErrInsufficientFunds
	}

	l.balances[fromKey] -= amount
	l.balances[balanceKey{mint, to}] += amount
	return nil
}

// Snapshot captures the full balance state. Restore with Restore.
// This is the host-ledger transaction guarantee: a multi-step operation
// snapshots before its first transfer and restores on any failure, so
// partial transfers are never observable.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := make(Snapshot, len(l.balances))
	for k, v := range l.balances {
		snap[k] = v
	}
	return snap
}

// Restore replaces the balance state with a snapshot.
func (l *Ledger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[balanceKey]uint64, len(snap))
	for k, v := range snap {
		l.balances[k] = v
	}
}
