package storage

import (
	"fmt"
	"testing"

	"github.com/thanhnp/pow-ledger/internal/models"
)

func newTestStore(t *testing.T) *BlockStore {
	t.Helper()
	db, err := NewMemDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBlockStore(db)
}

func testBlock(height int64) *models.Block {
	return &models.Block{
		Hash:         fmt.Sprintf("%064x", height+1),
		Height:       height,
		PreviousHash: fmt.Sprintf("%064x", height),
		Nonce:        uint64(height * 10),
		Data:         fmt.Sprintf("block %d", height),
	}
}

func TestBlockStoreEmpty(t *testing.T) {
	s := newTestStore(t)

	height, err := s.TipHeight()
	if err != nil || height != -1 {
		t.Fatalf("TipHeight() = %d, %v; want -1, nil", height, err)
	}
	latest, err := s.GetLatest()
	if err != nil || latest != nil {
		t.Fatalf("GetLatest() = %v, %v; want nil, nil", latest, err)
	}
	b, err := s.GetByHash("deadbeef")
	if err != nil || b != nil {
		t.Fatalf("GetByHash() = %v, %v; want nil, nil", b, err)
	}
}

func TestBlockStoreSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	for h := int64(0); h < 3; h++ {
		if err := s.Save(testBlock(h)); err != nil {
			t.Fatal(err)
		}
	}

	want := testBlock(1)
	got, err := s.GetByHash(want.Hash)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Height != 1 || got.Data != want.Data || got.Nonce != want.Nonce {
		t.Fatalf("GetByHash() = %+v", got)
	}

	got, err = s.GetByHeight(2)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Hash != testBlock(2).Hash {
		t.Fatalf("GetByHeight(2) = %+v", got)
	}

	latest, err := s.GetLatest()
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.Height != 2 {
		t.Fatalf("GetLatest() = %+v", latest)
	}
}

func TestBlockStoreList(t *testing.T) {
	s := newTestStore(t)

	// More than ten blocks so lexical and numeric order would differ without padding.
	for h := int64(0); h < 12; h++ {
		if err := s.Save(testBlock(h)); err != nil {
			t.Fatal(err)
		}
	}

	blocks, err := s.List(8, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("len = %d, want 3", len(blocks))
	}
	for i, b := range blocks {
		if b.Height != int64(8+i) {
			t.Errorf("blocks[%d].Height = %d, want %d", i, b.Height, 8+i)
		}
	}

	blocks, err = s.List(10, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("len = %d, want 2", len(blocks))
	}

	blocks, err = s.List(50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 0 {
		t.Fatalf("len = %d, want 0", len(blocks))
	}
}
