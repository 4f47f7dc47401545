package chain

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

func TestMinerTarget(t *testing.T) {
	tests := []struct {
		difficulty int
		bitLen     int
	}{
		{1, 253},
		{6, 233},
		{MaxDifficulty, 1},
	}

	for _, tt := range tests {
		m := Miner{Difficulty: tt.difficulty}
		if got := m.Target().BitLen(); got != tt.bitLen {
			t.Errorf("difficulty %d: target bit length = %d, want %d", tt.difficulty, got, tt.bitLen)
		}
	}
}

func TestMinerValidate(t *testing.T) {
	for _, d := range []int{0, -1, MaxDifficulty + 1} {
		err := Miner{Difficulty: d, MaxIterations: 10}.Validate()
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("difficulty %d: expected ErrInvalidDifficulty, got %v", d, err)
		}
	}
	if err := DefaultMiner().Validate(); err != nil {
		t.Fatalf("default miner: %v", err)
	}
}

func TestMeetsTarget(t *testing.T) {
	target := Miner{Difficulty: 1}.Target()

	var atTarget chainhash.Hash
	atTarget[0] = 0x10
	if MeetsTarget(atTarget, target) {
		t.Error("hash equal to target must not meet it")
	}

	var below chainhash.Hash
	below[0] = 0x0f
	for i := 1; i < len(below); i++ {
		below[i] = 0xff
	}
	if !MeetsTarget(below, target) {
		t.Error("hash just below target must meet it")
	}

	if HashToBig(below).Cmp(new(big.Int).Sub(target, big.NewInt(1))) != 0 {
		t.Error("hash should be read big-endian")
	}
}

func TestMineFirstFit(t *testing.T) {
	m := Miner{Difficulty: 2, MaxIterations: DefaultMaxIterations}
	prev := chainhash.HashH([]byte("parent"))
	data := []byte("first fit")

	nonce, hash, err := m.Mine(1700000000, prev, data)
	if err != nil {
		t.Fatal(err)
	}
	if hash != Digest(1700000000, prev, nonce, data) {
		t.Fatal("returned hash does not match digest of returned nonce")
	}
	if !MeetsTarget(hash, m.Target()) {
		t.Fatal("returned hash does not meet target")
	}
	for n := uint64(0); n < nonce; n++ {
		if MeetsTarget(Digest(1700000000, prev, n, data), m.Target()) {
			t.Fatalf("nonce %d meets target but %d was returned", n, nonce)
		}
	}
}

func TestMineDeterministic(t *testing.T) {
	m := Miner{Difficulty: 2, MaxIterations: DefaultMaxIterations}
	prev := chainhash.HashH([]byte("parent"))

	n1, h1, err := m.Mine(42, prev, []byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	n2, h2, err := m.Mine(42, prev, []byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	if n1 != n2 || h1 != h2 {
		t.Errorf("mining not deterministic: (%d, %x) vs (%d, %x)", n1, h1[:], n2, h2[:])
	}
}

func TestMineIterationLimit(t *testing.T) {
	m := Miner{Difficulty: 1, MaxIterations: 0}
	_, _, err := m.Mine(0, chainhash.Hash{}, []byte("nothing"))
	if !errors.Is(err, ErrIterationLimitExceeded) {
		t.Fatalf("expected ErrIterationLimitExceeded, got %v", err)
	}
}

func TestMineInvalidDifficulty(t *testing.T) {
	m := Miner{Difficulty: 0, MaxIterations: 10}
	if _, _, err := m.Mine(0, chainhash.Hash{}, nil); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
}
