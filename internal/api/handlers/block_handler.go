package handlers

import (
	"context"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/thanhnp/pow-ledger/internal/chain"
	"github.com/thanhnp/pow-ledger/internal/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Ledger is the subset of the ledger service used by the handlers
type Ledger interface {
	Append(ctx context.Context, data []byte) (*models.Block, error)
	Latest() (*models.Block, error)
	ByHash(hash string) (*models.Block, error)
	ByHeight(height int64) (*models.Block, error)
	List(from int64, limit int) ([]*models.Block, error)
	Height() (int64, error)
	Difficulty() int
	Validate() *models.Validation
}

// AppendRequest is the body of POST /api/v1/blocks
type AppendRequest struct {
	Data    string `json:"data"`
	DataHex string `json:"data_hex"` // takes precedence over Data when set
}

// BlockHandler handles block-related API requests
type BlockHandler struct {
	ledger Ledger
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(ledger Ledger) *BlockHandler {
	return &BlockHandler{
		ledger: ledger,
	}
}

// Health reports liveness and the current height
// GET /health
func (h *BlockHandler) Health(c *gin.Context) {
	height, err := h.ledger.Height()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.Health{
		Status:     "ok",
		Height:     height,
		Difficulty: h.ledger.Difficulty(),
	})
}

// Append mines a new block
// POST /api/v1/blocks
func (h *BlockHandler) Append(c *gin.Context) {
	var req AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	data := []byte(req.Data)
	if req.DataHex != "" {
		decoded, err := hex.DecodeString(req.DataHex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data_hex"})
			return
		}
		data = decoded
	}

	block, err := h.ledger.Append(c.Request.Context(), data)
	if err != nil {
		c.JSON(StatusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, block)
}

// List returns a page of blocks in height order
// GET /api/v1/blocks?from=&limit=
func (h *BlockHandler) List(c *gin.Context) {
	from, err := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil || from < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	blocks, err := h.ledger.List(from, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks": blocks,
		"from":   from,
		"limit":  limit,
	})
}

// GetByHash returns a block by its hash
// GET /api/v1/blocks/:hash
func (h *BlockHandler) GetByHash(c *gin.Context) {
	hash := strings.ToLower(c.Param("hash"))
	if len(hash) != 2*chainhash.HashSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hash"})
		return
	}
	if _, err := hex.DecodeString(hash); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hash"})
		return
	}

	block, err := h.ledger.ByHash(hash)
	h.respondBlock(c, block, err)
}

// GetByHeight returns a block by its height
// GET /api/v1/blocks/height/:height
func (h *BlockHandler) GetByHeight(c *gin.Context) {
	height, err := strconv.ParseInt(c.Param("height"), 10, 64)
	if err != nil || height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid height"})
		return
	}

	block, err := h.ledger.ByHeight(height)
	h.respondBlock(c, block, err)
}

// GetLatest returns the latest block
// GET /api/v1/blocks/latest
func (h *BlockHandler) GetLatest(c *gin.Context) {
	block, err := h.ledger.Latest()
	h.respondBlock(c, block, err)
}

// Validate verifies the whole chain
// GET /api/v1/chain/validate
func (h *BlockHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Validate())
}

func (h *BlockHandler) respondBlock(c *gin.Context, block *models.Block, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if block == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	c.JSON(http.StatusOK, block)
}

// StatusForError maps ledger errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, chain.ErrIterationLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
