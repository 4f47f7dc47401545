package notifier

import (
	"sync"

	"github.com/thanhnp/pow-ledger/internal/models"
)

// BlockHandler is called when a new block is connected to the chain
type BlockHandler func(block *models.Block) error

// Notifier fans block-connected events out to registered handlers
type Notifier struct {
	mu       sync.RWMutex
	handlers []BlockHandler
}

// New creates a Notifier with no handlers
func New() *Notifier {
	return &Notifier{}
}

// OnBlockConnected registers a handler for new blocks. Handlers run in
// registration order.
func (n *Notifier) OnBlockConnected(handler BlockHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, handler)
}

// NotifyBlockConnected calls every handler with block. All handlers run; the
// first error is returned.
func (n *Notifier) NotifyBlockConnected(block *models.Block) error {
	n.mu.RLock()
	handlers := append([]BlockHandler(nil), n.handlers...)
	n.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h(block); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
