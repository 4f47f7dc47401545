package chain

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

const (
	// DefaultDifficulty is the number of leading zero hex digits a block hash
	// needs by default, i.e. a 24-bit leading-zero constraint.
	DefaultDifficulty = 6

	// DefaultMaxIterations bounds the nonce search so mining always terminates.
	DefaultMaxIterations uint64 = 100_000_000

	// MinDifficulty and MaxDifficulty bound the number of hex digits that can
	// be required to be zero in a 256-bit hash.
	MinDifficulty = 1
	MaxDifficulty = chainhash.HashSize * 2
)

// Miner searches for nonces that bring a block's digest below the target
// 2^(256 - 4*Difficulty).
type Miner struct {
	Difficulty    int
	MaxIterations uint64
}

// DefaultMiner returns a Miner with DefaultDifficulty and DefaultMaxIterations.
func DefaultMiner() Miner {
	return Miner{
		Difficulty:    DefaultDifficulty,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate checks that the difficulty yields a usable target.
func (m Miner) Validate() error {
	if m.Difficulty < MinDifficulty || m.Difficulty > MaxDifficulty {
		return errors.Wrapf(ErrInvalidDifficulty, "difficulty %d not in [%d, %d]",
			m.Difficulty, MinDifficulty, MaxDifficulty)
	}
	return nil
}

// Target returns 2^(256 - 4*Difficulty).
func (m Miner) Target() *big.Int {
	return targetFor(m.Difficulty)
}

func targetFor(difficulty int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(256-4*difficulty))
}

// HashToBig interprets hash as an unsigned big-endian integer.
func HashToBig(hash chainhash.Hash) *big.Int {
	return new(big.Int).SetBytes(hash[:])
}

// MeetsTarget reports whether hash, read big-endian, is strictly below target.
func MeetsTarget(hash chainhash.Hash, target *big.Int) bool {
	return HashToBig(hash).Cmp(target) < 0
}

// Mine returns the lowest nonce in [0, MaxIterations) whose digest meets the
// target, together with that digest.
func (m Miner) Mine(timestamp int64, prevHash chainhash.Hash, data []byte) (uint64, chainhash.Hash, error) {
	if err := m.Validate(); err != nil {
		return 0, chainhash.Hash{}, err
	}

	target := m.Target()
	hashInt := new(big.Int)

	// The header prefix is fixed for the whole search; only the nonce bytes
	// change between candidates.
	buf := Serialize(timestamp, prevHash, 0, data)
	for nonce := uint64(0); nonce < m.MaxIterations; nonce++ {
		putNonce(buf, nonce)
		hash := chainhash.HashH(buf)
		if hashInt.SetBytes(hash[:]).Cmp(target) < 0 {
			return nonce, hash, nil
		}
	}

	return 0, chainhash.Hash{}, errors.Wrapf(ErrIterationLimitExceeded,
		"no nonce below %d meets difficulty %d", m.MaxIterations, m.Difficulty)
}
