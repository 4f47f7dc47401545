package chain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

var (
	// ErrIterationLimitExceeded is returned when the nonce search runs out of
	// iterations without finding a hash below the target.
	ErrIterationLimitExceeded = errors.New("could not mine block, hit iteration limit")

	// ErrNoParent is returned when appending to a chain that has no tail block.
	ErrNoParent = errors.New("chain has no parent block to append to")

	// ErrInvalidDifficulty is returned for difficulties outside [MinDifficulty, MaxDifficulty].
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// ValidationError describes the first block that failed verification.
type ValidationError struct {
	Height int
	Reason string
	Hash   chainhash.Hash
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d (%x): %s", e.Height, e.Hash[:], e.Reason)
}
