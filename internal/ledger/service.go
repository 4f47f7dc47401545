package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/pow-ledger/internal/chain"
	"github.com/thanhnp/pow-ledger/internal/models"
	"github.com/thanhnp/pow-ledger/internal/notifier"
	"github.com/thanhnp/pow-ledger/internal/storage"
)

// ErrNotStarted is returned by Append before Start has indexed the chain.
var ErrNotStarted = errors.New("ledger service not started")

// Service is the single writer of a chain. Appends are serialized; reads are
// served from the block index so they do not wait for mining.
type Service struct {
	mu       sync.Mutex
	chain    *chain.Chain
	store    *storage.BlockStore
	notifier *notifier.Notifier
	log      logrus.FieldLogger
	started  bool
}

// NewService creates a Service around an existing chain
func NewService(c *chain.Chain, store *storage.BlockStore, n *notifier.Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		chain:    c,
		store:    store,
		notifier: n,
		log:      log.WithField("component", "ledger"),
	}
}

// Start registers the block index and publishes the blocks already in the
// chain, genesis included.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.notifier.OnBlockConnected(s.store.Save)

	indexed, err := s.store.TipHeight()
	if err != nil {
		return errors.Wrap(err, "failed to read index tip")
	}

	blocks := s.chain.Blocks()
	for height := int(indexed) + 1; height < len(blocks); height++ {
		if err := s.publish(blocks[height], height); err != nil {
			return errors.Wrapf(err, "failed to index block %d", height)
		}
	}

	s.started = true
	s.log.WithField("height", len(blocks)-1).Info("Ledger started")
	return nil
}

// Append mines a block carrying data on top of the tip. The context is only
// checked before mining starts; a running search is bounded by the miner's
// iteration limit.
func (s *Service) Append(ctx context.Context, data []byte) (*models.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	block, err := s.chain.Append(data)
	if err != nil {
		s.log.WithError(err).WithField("size", len(data)).Warn("Mining failed")
		return nil, err
	}

	height := s.chain.Len() - 1
	s.log.WithFields(logrus.Fields{
		"height":  height,
		"nonce":   block.Nonce(),
		"elapsed": time.Since(start),
	}).Info("Block mined")

	m := models.NewBlock(block, int64(height), s.chain.Difficulty())
	if err := s.notifier.NotifyBlockConnected(m); err != nil {
		return m, errors.Wrapf(err, "block %d mined but not indexed", height)
	}
	return m, nil
}

func (s *Service) publish(b *chain.Block, height int) error {
	return s.notifier.NotifyBlockConnected(models.NewBlock(b, int64(height), s.chain.Difficulty()))
}

// Latest returns the tip block
func (s *Service) Latest() (*models.Block, error) {
	return s.store.GetLatest()
}

// ByHash returns the block with the given hex hash, or nil
func (s *Service) ByHash(hash string) (*models.Block, error) {
	return s.store.GetByHash(hash)
}

// ByHeight returns the block at height, or nil
func (s *Service) ByHeight(height int64) (*models.Block, error) {
	return s.store.GetByHeight(height)
}

// List returns up to limit blocks starting at height from
func (s *Service) List(from int64, limit int) ([]*models.Block, error) {
	return s.store.List(from, limit)
}

// Height returns the height of the latest indexed block
func (s *Service) Height() (int64, error) {
	return s.store.TipHeight()
}

// Difficulty returns the chain's mining difficulty
func (s *Service) Difficulty() int {
	return s.chain.Difficulty()
}

// Validate verifies the full chain. It waits for any append in progress.
func (s *Service) Validate() *models.Validation {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &models.Validation{
		Valid:  true,
		Height: int64(s.chain.Len() - 1),
	}
	if err := s.chain.Verify(); err != nil {
		v.Valid = false
		v.Error = err.Error()
	}
	return v
}
