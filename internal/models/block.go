package models

import (
	"encoding/hex"
	"time"
	"unicode/utf8"

	"github.com/thanhnp/pow-ledger/internal/chain"
)

// Block represents a mined ledger block
type Block struct {
	Hash         string    `json:"hash"`
	Height       int64     `json:"height"`
	PreviousHash string    `json:"previous_hash"`
	Timestamp    time.Time `json:"timestamp"`
	Nonce        uint64    `json:"nonce"`
	Data         string    `json:"data"`     // UTF-8 payload, empty if not valid UTF-8
	DataHex      string    `json:"data_hex"` // hex payload
	Size         int       `json:"size"`     // payload size in bytes
	Difficulty   int       `json:"difficulty"`
}

// NewBlock builds the JSON view of a chain block at the given height
func NewBlock(b *chain.Block, height int64, difficulty int) *Block {
	hash := b.Hash()
	prev := b.PrevHash()
	data := b.Data()

	m := &Block{
		Hash:         hex.EncodeToString(hash[:]),
		Height:       height,
		PreviousHash: hex.EncodeToString(prev[:]),
		Timestamp:    time.Unix(b.Timestamp(), 0).UTC(),
		Nonce:        b.Nonce(),
		DataHex:      hex.EncodeToString(data),
		Size:         len(data),
		Difficulty:   difficulty,
	}
	if utf8.Valid(data) {
		m.Data = string(data)
	}
	return m
}
