package ledger

import (
	"errors"
	"sync"
	"testing"

	"solana-arb-dao/internal/domain"
)

const mint = domain.Address("mint")

func TestMintToAndBalance(t *testing.T) {
	l := New()

	if err := l.MintTo(mint, "alice", 100); err != nil {
		t.Fatalf("MintTo failed: %v", err)
	}
	if got := l.Balance(mint, "alice"); got != 100 {
		t.Errorf("Balance = %d, want 100", got)
	}
	if got := l.Balance(mint, "bob"); got != 0 {
		t.Errorf("unfunded account balance = %d, want 0", got)
	}
	if got := l.Balance("other-mint", "alice"); got != 0 {
		t.Errorf("other mint balance = %d, want 0", got)
	}
}

func TestMintTo_ZeroAmount(t *testing.T) {
	l := New()
	if err := l.MintTo(mint, "alice", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	l := New()
	l.MintTo(mint, "alice", 100)

	if err := l.Transfer(mint, "alice", "bob", 40); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if got := l.Balance(mint, "alice"); got != 60 {
		t.Errorf("sender balance = %d, want 60", got)
	}
	if got := l.Balance(mint, "bob"); got != 40 {
		t.Errorf("receiver balance = %d, want 40", got)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	l := New()
	l.MintTo(mint, "alice", 10)

	err := l.Transfer(mint, "alice", "bob", 11)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Neither side of the failed transfer may be applied.
	if got := l.Balance(mint, "alice"); got != 10 {
		t.Errorf("sender balance after failed transfer = %d, want 10", got)
	}
	if got := l.Balance(mint, "bob"); got != 0 {
		t.Errorf("receiver balance after failed transfer = %d, want 0", got)
	}
}

func TestTransfer_ZeroAmount(t *testing.T) {
	l := New()
	l.MintTo(mint, "alice", 10)

	if err := l.Transfer(mint, "alice", "bob", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	l := New()
	l.MintTo(mint, "alice", 100)
	l.MintTo(mint, "bob", 50)

	snap := l.Snapshot()

	l.Transfer(mint, "alice", "bob", 100)
	l.MintTo(mint, "carol", 7)

	l.Restore(snap)

	if got := l.Balance(mint, "alice"); got != 100 {
		t.Errorf("alice after restore = %d, want 100", got)
	}
	if got := l.Balance(mint, "bob"); got != 50 {
		t.Errorf("bob after restore = %d, want 50", got)
	}
	if got := l.Balance(mint, "carol"); got != 0 {
		t.Errorf("carol after restore = %d, want 0", got)
	}
}

func TestSnapshot_IsolatedFromLaterMutations(t *testing.T) {
	l := New()
	l.MintTo(mint, "alice", 100)

	snap := l.Snapshot()
	l.MintTo(mint, "alice", 900)

	if got := snap[balanceKey{mint, "alice"}]; got != 100 {
		t.Errorf("snapshot mutated by later mint: %d, want 100", got)
	}
}

func TestConcurrentTransfers(t *testing.T) {
	l := New()
	l.MintTo(mint, "hub", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				l.Transfer(mint, "hub", "spoke", 1)
			}
		}()
	}
	wg.Wait()

	if got := l.Balance(mint, "hub"); got != 900 {
		t.Errorf("hub balance = %d, want 900", got)
	}
	if got := l.Balance(mint, "spoke"); got != 100 {
		t.Errorf("spoke balance = %d, want 100", got)
	}
}
