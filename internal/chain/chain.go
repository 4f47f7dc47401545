package chain

import (
	"math/big"
	"strings"
)

// Chain is an append-only sequence of mined blocks starting at a genesis
// block. A Chain is not safe for concurrent use.
type Chain struct {
	blocks []*Block
	clock  Clock
	miner  Miner
}

// Option configures a Chain.
type Option func(*Chain)

// WithMiner sets both difficulty and iteration limit.
func WithMiner(m Miner) Option {
	return func(c *Chain) {
		c.miner = m
	}
}

// WithDifficulty overrides the mining difficulty.
func WithDifficulty(difficulty int) Option {
	return func(c *Chain) {
		c.miner.Difficulty = difficulty
	}
}

// WithMaxIterations overrides the nonce search ceiling.
func WithMaxIterations(n uint64) Option {
	return func(c *Chain) {
		c.miner.MaxIterations = n
	}
}

// New mines a genesis block and returns a chain holding it. The clock is used
// for the genesis block and for every later Append.
func New(clock Clock, opts ...Option) (*Chain, error) {
	c := &Chain{
		clock: clock,
		miner: DefaultMiner(),
	}
	for _, opt := range opts {
		opt(c)
	}

	genesis, err := NewGenesisBlock(c.clock, c.miner)
	if err != nil {
		return nil, err
	}
	c.blocks = []*Block{genesis}
	return c, nil
}

// Append mines a block carrying data on top of the current tip and adds it to
// the chain. On error the chain is left unchanged.
func (c *Chain) Append(data []byte) (*Block, error) {
	tip := c.Tip()
	if tip == nil {
		return nil, ErrNoParent
	}

	block, err := NewBlock(data, tip.hash, c.clock, c.miner)
	if err != nil {
		return nil, err
	}

	c.blocks = append(c.blocks, block)
	return block, nil
}

// Validate reports whether every block's hash, target and parent link hold.
func (c *Chain) Validate() bool {
	return c.Verify() == nil
}

// Verify recomputes every block hash and checks the difficulty target and the
// parent links. It returns a *ValidationError for the first bad block.
func (c *Chain) Verify() error {
	if len(c.blocks) == 0 {
		return ErrNoParent
	}

	target := c.miner.Target()
	for i, b := range c.blocks {
		fail := func(reason string) error {
			return &ValidationError{Height: i, Reason: reason, Hash: b.hash}
		}

		if b.Digest(b.nonce) != b.hash {
			return fail("hash does not match block contents")
		}
		if !MeetsTarget(b.hash, target) {
			return fail("hash does not meet difficulty target")
		}
		if i == 0 {
			if !b.IsGenesis() {
				return fail("genesis block has a parent hash")
			}
			continue
		}
		if b.prevHash != c.blocks[i-1].hash {
			return fail("previous hash does not match parent block")
		}
	}
	return nil
}

// Blocks returns the blocks in chain order. The slice is a copy; the blocks
// themselves are immutable.
func (c *Chain) Blocks() []*Block {
	return append([]*Block(nil), c.blocks...)
}

// Len returns the number of blocks including genesis.
func (c *Chain) Len() int {
	return len(c.blocks)
}

// Block returns the block at height, or nil if out of range.
func (c *Chain) Block(height int) *Block {
	if height < 0 || height >= len(c.blocks) {
		return nil
	}
	return c.blocks[height]
}

// Genesis returns the first block.
func (c *Chain) Genesis() *Block {
	return c.Block(0)
}

// Tip returns the last block, or nil for an empty chain.
func (c *Chain) Tip() *Block {
	return c.Block(len(c.blocks) - 1)
}

// Difficulty returns the mining difficulty.
func (c *Chain) Difficulty() int {
	return c.miner.Difficulty
}

// Target returns the difficulty target every block hash must be below.
func (c *Chain) Target() *big.Int {
	return c.miner.Target()
}

func (c *Chain) String() string {
	var sb strings.Builder
	for _, b := range c.blocks {
		sb.WriteString(b.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
