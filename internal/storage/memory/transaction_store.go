package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore
// and storage.TransactionEventStore.
type TransactionStore struct {
	mu    sync.RWMutex
	bySig map[string]*domain.TransactionRecord
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		bySig: make(map[string]*domain.TransactionRecord),
	}
}

// Insert adds a transaction. Returns ErrDuplicateKey if signature exists.
func (s *TransactionStore) Insert(_ context.Context, t *domain.TransactionRecord) error {
	if t == nil || t.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySig[t.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	s.bySig[t.Signature] = copyTransaction(t)
	return nil
}

// GetBySignature retrieves a transaction. Returns ErrNotFound if not exists.
func (s *TransactionStore) GetBySignature(_ context.Context, signature string) (*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.bySig[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyTransaction(t), nil
}

// ListByMint retrieves transactions for a mint, newest first.
func (s *TransactionStore) ListByMint(_ context.Context, mint string, limit int) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransactionRecord
	for _, t := range s.bySig {
		if t.TokenMint == mint {
			result = append(result, copyTransaction(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].Signature < result[j].Signature
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountByType counts transactions per operation kind on a network.
func (s *TransactionStore) CountByType(_ context.Context, network domain.Network) (map[domain.OperationKind]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.OperationKind]uint64)
	for _, t := range s.bySig {
		if network != "" && t.Network != network {
			continue
		}
		counts[t.Type]++
	}
	return counts, nil
}

func copyTransaction(t *domain.TransactionRecord) *domain.TransactionRecord {
	c := *t
	if t.Details != nil {
		c.Details = maps.Clone(t.Details)
	}
	return &c
}

var (
	_ storage.TransactionStore      = (*TransactionStore)(nil)
	_ storage.TransactionEventStore = (*TransactionStore)(nil)
)
