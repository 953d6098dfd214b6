package memory

import (
	"context"
	"errors"
	"testing"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

func TestGovernanceStore_ConfigLifecycle(t *testing.T) {
	store := NewGovernanceStore()
	ctx := context.Background()

	if _, err := store.GetConfig(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before init, got %v", err)
	}

	config := &domain.GovernanceConfig{
		Mint:              "mint",
		Authority:         "authority",
		TotalSupply:       domain.TotalSupply,
		QuorumPercentage:  10,
		ProposalThreshold: domain.ProposalThreshold,
	}
	if err := store.InitConfig(ctx, config); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if err := store.InitConfig(ctx, config); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	got, err := store.GetConfig(ctx)
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	got.NextProposalID = 99
	if err := store.UpdateConfig(ctx, got); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	fresh, _ := store.GetConfig(ctx)
	if fresh.NextProposalID != 99 {
		t.Errorf("NextProposalID = %d, want 99", fresh.NextProposalID)
	}
}

func TestGovernanceStore_ConfigCopyIsolation(t *testing.T) {
	store := NewGovernanceStore()
	ctx := context.Background()

	store.InitConfig(ctx, &domain.GovernanceConfig{TotalSupply: 100})

	got, _ := store.GetConfig(ctx)
	got.TotalSupply = 1

	fresh, _ := store.GetConfig(ctx)
	if fresh.TotalSupply != 100 {
		t.Error("mutating a returned config leaked into the store")
	}
}

func TestGovernanceStore_TreasuryLifecycle(t *testing.T) {
	store := NewGovernanceStore()
	ctx := context.Background()

	if _, err := store.GetTreasury(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before init, got %v", err)
	}

	if err := store.InitTreasury(ctx, &domain.Treasury{Authority: "authority"}); err != nil {
		t.Fatalf("InitTreasury failed: %v", err)
	}
	if err := store.InitTreasury(ctx, &domain.Treasury{}); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	tr, _ := store.GetTreasury(ctx)
	tr.TotalReceived = 500
	if err := store.UpdateTreasury(ctx, tr); err != nil {
		t.Fatalf("UpdateTreasury failed: %v", err)
	}

	fresh, _ := store.GetTreasury(ctx)
	if fresh.TotalReceived != 500 {
		t.Errorf("TotalReceived = %d, want 500", fresh.TotalReceived)
	}
}

func TestPoolStore_Lifecycle(t *testing.T) {
	store := NewPoolStore()
	ctx := context.Background()

	if _, err := store.Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before init, got %v", err)
	}
	if err := store.Update(ctx, &domain.FlashLoanPool{}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update before init, got %v", err)
	}

	pool := &domain.FlashLoanPool{Authority: "authority", FeeBps: 9}
	if err := store.Init(ctx, pool); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Init(ctx, pool); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	got, _ := store.Get(ctx)
	got.TotalLoans = 7
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh, _ := store.Get(ctx)
	if fresh.TotalLoans != 7 {
		t.Errorf("TotalLoans = %d, want 7", fresh.TotalLoans)
	}
	if fresh.FeeBps != 9 {
		t.Errorf("FeeBps = %d, want 9", fresh.FeeBps)
	}
}

func TestVaultStore_Lifecycle(t *testing.T) {
	store := NewVaultStore()
	ctx := context.Background()

	if _, err := store.GetVault(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before init, got %v", err)
	}

	if err := store.InitVault(ctx, &domain.ExecutionVault{Authority: "authority"}); err != nil {
		t.Fatalf("InitVault failed: %v", err)
	}
	if err := store.InitVault(ctx, &domain.ExecutionVault{}); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	vault, _ := store.GetVault(ctx)
	vault.AvailableLiquidity = 1234
	if err := store.UpdateVault(ctx, vault); err != nil {
		t.Fatalf("UpdateVault failed: %v", err)
	}

	fresh, _ := store.GetVault(ctx)
	if fresh.AvailableLiquidity != 1234 {
		t.Errorf("AvailableLiquidity = %d, want 1234", fresh.AvailableLiquidity)
	}
}

func TestVaultStore_ProfitConfig(t *testing.T) {
	store := NewVaultStore()
	ctx := context.Background()

	if _, err := store.GetProfitConfig(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before init, got %v", err)
	}

	cfg := &domain.ProfitConfig{
		Treasury:         "treasury",
		CreatorShareBps:  domain.CreatorShareBps,
		ExecutorShareBps: domain.ExecutorShareBps,
		TreasuryShareBps: domain.TreasuryShareBps,
	}
	if err := store.InitProfitConfig(ctx, cfg); err != nil {
		t.Fatalf("InitProfitConfig failed: %v", err)
	}
	if err := store.InitProfitConfig(ctx, cfg); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	got, err := store.GetProfitConfig(ctx)
	if err != nil {
		t.Fatalf("GetProfitConfig failed: %v", err)
	}
	if got.CreatorShareBps != 4000 || got.TreasuryShareBps != 2000 {
		t.Errorf("profit config shares = %d/%d/%d", got.CreatorShareBps, got.ExecutorShareBps, got.TreasuryShareBps)
	}
}
