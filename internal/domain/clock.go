package domain

import "time"

// Clock supplies the ledger timestamp (unix seconds) to programs.
// Injected so tests can control time; the core never owns a wall clock.
type Clock func() int64

// SystemClock reads the host clock.
func SystemClock() int64 {
	return time.Now().Unix()
}

// WSOLMint is the wrapped-SOL mint address used for pool liquidity and
// profit distribution.
const WSOLMint Address = "So11111111111111111111111111111111111111112"
