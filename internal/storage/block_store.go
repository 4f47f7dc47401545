package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/thanhnp/pow-ledger/internal/models"
)

// tipKey holds the height of the highest indexed block in CFIndexState
var tipKey = []byte("tip")

// BlockStore indexes mined blocks by hash and by height
type BlockStore struct {
	db *PebbleDB
}

// NewBlockStore creates a new BlockStore
func NewBlockStore(db *PebbleDB) *BlockStore {
	return &BlockStore{db: db}
}

// blockKey creates a key for the blocks column family
func blockKey(hash string) []byte {
	return []byte(hash)
}

// blockHeightKey creates a key for the blocks_by_height column family.
// Zero padding keeps lexical order equal to height order.
func blockHeightKey(height int64) []byte {
	return []byte(fmt.Sprintf("%020d", height))
}

// Save stores a block and advances the tip in a single batch
func (s *BlockStore) Save(block *models.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return errors.Wrap(err, "failed to marshal block")
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	// Store block by hash
	if err := s.db.PutBatch(batch, CFBlocks, blockKey(block.Hash), data); err != nil {
		return err
	}

	// Store hash by height for lookup
	if err := s.db.PutBatch(batch, CFBlocksByHeight, blockHeightKey(block.Height), []byte(block.Hash)); err != nil {
		return err
	}

	if err := s.db.PutBatch(batch, CFIndexState, tipKey, []byte(strconv.FormatInt(block.Height, 10))); err != nil {
		return err
	}

	return s.db.WriteBatch(batch)
}

// GetByHash retrieves a block by its hash
func (s *BlockStore) GetByHash(hash string) (*models.Block, error) {
	data, err := s.db.Get(CFBlocks, blockKey(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var block models.Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal block")
	}
	return &block, nil
}

// GetByHeight retrieves a block by its height
func (s *BlockStore) GetByHeight(height int64) (*models.Block, error) {
	// Get hash from height index
	hashData, err := s.db.Get(CFBlocksByHeight, blockHeightKey(height))
	if err != nil {
		return nil, err
	}
	if hashData == nil {
		return nil, nil
	}

	return s.GetByHash(string(hashData))
}

// TipHeight returns the height of the latest indexed block, or -1 if empty
func (s *BlockStore) TipHeight() (int64, error) {
	data, err := s.db.Get(CFIndexState, tipKey)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return -1, nil
	}

	height, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse tip height")
	}
	return height, nil
}

// GetLatest retrieves the latest indexed block
func (s *BlockStore) GetLatest() (*models.Block, error) {
	height, err := s.TipHeight()
	if err != nil {
		return nil, err
	}
	if height < 0 {
		return nil, nil
	}
	return s.GetByHeight(height)
}

// List returns up to limit blocks starting at height from, in height order
func (s *BlockStore) List(from int64, limit int) ([]*models.Block, error) {
	if from < 0 {
		from = 0
	}

	iter, err := s.db.NewRangeIterator(CFBlocksByHeight, blockHeightKey(from))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	blocks := make([]*models.Block, 0, limit)
	for ; iter.Valid() && len(blocks) < limit; iter.Next() {
		block, err := s.GetByHash(string(iter.Value()))
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, errors.Newf("height index references missing block %s", iter.Value())
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
