// Package pda derives deterministic account addresses from seeds, using
// the Solana program-derived-address algorithm: sha256 over the seeds, a
// bump byte, the program id, and a fixed marker, retrying bumps until the
// result is off the ed25519 curve.
package pda

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-arb-dao/internal/domain"
)

// ErrNoBumpFound is returned when no bump in [1, 255] produces an
// off-curve address. Practically unreachable for honest seeds.
var ErrNoBumpFound = errors.New("no valid bump seed found")

// ProgramID tags which ledger program owns a derived account.
type ProgramID string

// Program identifiers used as derivation domains.
const (
	ProgramFlashLoan ProgramID = "flash_loan"
	ProgramRegistry  ProgramID = "strategy_registry"
	ProgramGovern    ProgramID = "dao_governance"
	ProgramExecution ProgramID = "execution_engine"
)

// Derive computes the deterministic address for seeds under a program.
func Derive(program ProgramID, seeds ...[]byte) (domain.Address, error) {
	programKey := sha256.Sum256([]byte(program))

	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programKey[:]...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			return domain.Address(base58.Encode(hash[:])), nil
		}
	}

	return "", ErrNoBumpFound
}

// MustDerive panics on derivation failure. Used for fixed-seed singleton
// accounts whose derivation cannot fail at runtime.
func MustDerive(program ProgramID, seeds ...[]byte) domain.Address {
	addr, err := Derive(program, seeds...)
	if err != nil {
		panic(err)
	}
	return addr
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

func uint64Seed(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// PoolAddress is the flash loan pool singleton account.
func PoolAddress() domain.Address {
	return MustDerive(ProgramFlashLoan, []byte("flash_pool"))
}

// PoolAuthority signs transfers out of the pool.
func PoolAuthority() domain.Address {
	return MustDerive(ProgramFlashLoan, []byte("flash_pool"), []byte("authority"))
}

// StrategyAddress derives the account for (creator, strategyID).
func StrategyAddress(creator domain.Address, strategyID uint64) domain.Address {
	return MustDerive(ProgramRegistry, []byte("strategy"), []byte(creator), uint64Seed(strategyID))
}

// AdminConfigAddress is the registry admin singleton.
func AdminConfigAddress() domain.Address {
	return MustDerive(ProgramRegistry, []byte("config"))
}

// GovernanceAddress is the governance config singleton, which also acts
// as the DAO's signing authority.
func GovernanceAddress() domain.Address {
	return MustDerive(ProgramGovern, []byte("governance"))
}

// ProposalAddress derives the account for a proposal id.
func ProposalAddress(proposalID uint64) domain.Address {
	return MustDerive(ProgramGovern, []byte("proposal"), uint64Seed(proposalID))
}

// VoteRecordAddress derives the double-vote guard account for
// (proposal, voter).
func VoteRecordAddress(proposalID uint64, voter domain.Address) domain.Address {
	return MustDerive(ProgramGovern, []byte("vote_record"), uint64Seed(proposalID), []byte(voter))
}

// TreasuryAddress is the DAO treasury singleton.
func TreasuryAddress() domain.Address {
	return MustDerive(ProgramGovern, []byte("treasury"))
}

// VaultAddress derives one of the token distribution vaults
// (community_vault, treasury_vault, team_vault, liquidity_vault).
func VaultAddress(name string) domain.Address {
	return MustDerive(ProgramGovern, []byte(name))
}

// ExecutionVaultAddress is the execution engine's working-capital vault.
func ExecutionVaultAddress() domain.Address {
	return MustDerive(ProgramExecution, []byte("execution_vault"))
}

// ProfitConfigAddress is the profit split singleton.
func ProfitConfigAddress() domain.Address {
	return MustDerive(ProgramExecution, []byte("profit_config"))
}

// MintAddress derives the governance token mint.
func MintAddress() domain.Address {
	return MustDerive(ProgramGovern, []byte("mint"))
}
