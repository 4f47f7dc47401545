package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var testMiner = Miner{Difficulty: 1, MaxIterations: DefaultMaxIterations}

func TestSerializeLayout(t *testing.T) {
	var prev chainhash.Hash
	for i := range prev {
		prev[i] = byte(i)
	}

	got := Serialize(0x0102030405060708, prev, 0x1112131415161718, []byte("abc"))

	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	want = append(want, prev[:]...)
	want = append(want, 0x18, 0x17, 0x16, 0x15, 0x14, 0x13, 0x12, 0x11)
	want = append(want, 'a', 'b', 'c')

	if !bytes.Equal(got, want) {
		t.Fatalf("serialization mismatch\n got: %x\nwant: %x", got, want)
	}
}

func TestSerializeNegativeTimestamp(t *testing.T) {
	got := Serialize(-1, chainhash.Hash{}, 0, nil)
	if len(got) != headerSize {
		t.Fatalf("length = %d, want %d", len(got), headerSize)
	}
	for i := 0; i < 8; i++ {
		if got[i] != 0xff {
			t.Fatalf("timestamp byte %d = %x, want ff", i, got[i])
		}
	}
}

func TestDigestIsSHA256(t *testing.T) {
	prev := chainhash.HashH([]byte("p"))
	want := sha256.Sum256(Serialize(99, prev, 7, []byte("payload")))
	got := Digest(99, prev, 7, []byte("payload"))
	if !bytes.Equal(got[:], want[:]) {
		t.Fatalf("digest = %x, want %x", got[:], want[:])
	}
}

func TestNewGenesisBlock(t *testing.T) {
	b, err := NewGenesisBlock(FixedClock(1600000000), testMiner)
	if err != nil {
		t.Fatal(err)
	}
	if !b.IsGenesis() {
		t.Error("genesis block should have zero parent hash")
	}
	if string(b.Data()) != GenesisData {
		t.Errorf("data = %q, want %q", b.Data(), GenesisData)
	}
	if b.Timestamp() != 1600000000 {
		t.Errorf("timestamp = %d", b.Timestamp())
	}
	hash := b.Hash()
	if hash[0]>>4 != 0 {
		t.Errorf("top 4 bits of genesis hash not zero: %x", hash[:])
	}
	if b.Digest(b.Nonce()) != hash {
		t.Error("hash does not match recomputed digest")
	}
}

func TestNewBlockCopiesData(t *testing.T) {
	data := []byte("mutable")
	b, err := NewBlock(data, chainhash.Hash{}, FixedClock(1), testMiner)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'
	if string(b.Data()) != "mutable" {
		t.Fatalf("block data changed with caller slice: %q", b.Data())
	}

	out := b.Data()
	out[0] = 'Y'
	if string(b.Data()) != "mutable" {
		t.Fatalf("block data changed through accessor: %q", b.Data())
	}
}

func TestNewBlockIterationLimit(t *testing.T) {
	b, err := NewBlock([]byte("x"), chainhash.Hash{}, FixedClock(1), Miner{Difficulty: 1})
	if err == nil || b != nil {
		t.Fatalf("expected failure with no block, got %v, %v", b, err)
	}
}

func TestBlockString(t *testing.T) {
	b, err := NewBlock([]byte("hello"), chainhash.Hash{}, FixedClock(5), testMiner)
	if err != nil {
		t.Fatal(err)
	}
	hash := b.Hash()
	s := b.String()
	for _, want := range []string{"Timestamp: 5", `Data: "hello"`, hex.EncodeToString(hash[:])} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
