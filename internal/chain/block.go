package chain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// GenesisData is the payload of every genesis block.
const GenesisData = "Genesis block"

// Serialized header layout: timestamp (8, LE) | prev hash (32) | nonce (8, LE) | data.
const (
	timestampOffset = 0
	prevHashOffset  = timestampOffset + 8
	nonceOffset     = prevHashOffset + chainhash.HashSize
	headerSize      = nonceOffset + 8
)

// Block is a mined, immutable unit of the ledger.
type Block struct {
	timestamp int64
	prevHash  chainhash.Hash
	hash      chainhash.Hash
	nonce     uint64
	data      []byte
}

// NewGenesisBlock mines the first block of a chain. Its parent hash is all
// zeroes and its payload is GenesisData.
func NewGenesisBlock(clock Clock, miner Miner) (*Block, error) {
	return NewBlock([]byte(GenesisData), chainhash.Hash{}, clock, miner)
}

// NewBlock mines a block carrying data on top of prevHash. No block is
// returned unless mining succeeded.
func NewBlock(data []byte, prevHash chainhash.Hash, clock Clock, miner Miner) (*Block, error) {
	b := &Block{
		timestamp: clock.Now(),
		prevHash:  prevHash,
		data:      append([]byte(nil), data...),
	}

	nonce, hash, err := miner.Mine(b.timestamp, b.prevHash, b.data)
	if err != nil {
		return nil, err
	}

	b.nonce = nonce
	b.hash = hash
	return b, nil
}

// Serialize returns the bytes that are hashed for a block with the given
// fields. Integers are fixed-width little-endian.
func Serialize(timestamp int64, prevHash chainhash.Hash, nonce uint64, data []byte) []byte {
	buf := make([]byte, headerSize+len(data))
	binary.LittleEndian.PutUint64(buf[timestampOffset:], uint64(timestamp))
	copy(buf[prevHashOffset:], prevHash[:])
	binary.LittleEndian.PutUint64(buf[nonceOffset:], nonce)
	copy(buf[headerSize:], data)
	return buf
}

func putNonce(buf []byte, nonce uint64) {
	binary.LittleEndian.PutUint64(buf[nonceOffset:], nonce)
}

// Digest is the SHA-256 of Serialize(timestamp, prevHash, nonce, data).
func Digest(timestamp int64, prevHash chainhash.Hash, nonce uint64, data []byte) chainhash.Hash {
	return chainhash.HashH(Serialize(timestamp, prevHash, nonce, data))
}

// Serialize returns the block's hashing input for the given nonce.
func (b *Block) Serialize(nonce uint64) []byte {
	return Serialize(b.timestamp, b.prevHash, nonce, b.data)
}

// Digest hashes the block's fields with the given nonce.
func (b *Block) Digest(nonce uint64) chainhash.Hash {
	return Digest(b.timestamp, b.prevHash, nonce, b.data)
}

// Timestamp returns the block creation time in Unix seconds.
func (b *Block) Timestamp() int64 {
	return b.timestamp
}

// PrevHash returns the parent's hash.
func (b *Block) PrevHash() chainhash.Hash {
	return b.prevHash
}

// Hash returns the block hash.
func (b *Block) Hash() chainhash.Hash {
	return b.hash
}

// Nonce returns the nonce found by mining.
func (b *Block) Nonce() uint64 {
	return b.nonce
}

// Data returns a copy of the payload.
func (b *Block) Data() []byte {
	return append([]byte(nil), b.data...)
}

// IsGenesis reports whether the block has the all-zero parent hash.
func (b *Block) IsGenesis() bool {
	return b.prevHash == chainhash.Hash{}
}

func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, " Timestamp: %d\n", b.timestamp)
	fmt.Fprintf(&sb, " Prev Block Hash: %s\n", hex.EncodeToString(b.prevHash[:]))
	fmt.Fprintf(&sb, " Hash: %s\n", hex.EncodeToString(b.hash[:]))
	fmt.Fprintf(&sb, " Nonce: %d\n", b.nonce)
	if utf8.Valid(b.data) {
		fmt.Fprintf(&sb, " Data: %q\n", b.data)
	} else {
		fmt.Fprintf(&sb, " Data: 0x%x\n", b.data)
	}
	return sb.String()
}
