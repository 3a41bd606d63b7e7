package memory

import (
	"context"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// FeeConfigStore is an in-memory implementation of storage.FeeConfigStore.
type FeeConfigStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.FeeConfig
}

// NewFeeConfigStore creates a new in-memory fee config store.
func NewFeeConfigStore() *FeeConfigStore {
	return &FeeConfigStore{
		byID: make(map[string]*domain.FeeConfig),
	}
}

// Insert adds a fee config. Returns ErrDuplicateKey if id exists.
func (s *FeeConfigStore) Insert(_ context.Context, c *domain.FeeConfig) error {
	if c == nil || c.ID == "" || c.Network == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[c.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cfgCopy := *c
	s.byID[c.ID] = &cfgCopy
	return nil
}

// GetActive retrieves the newest active config for a network.
func (s *FeeConfigStore) GetActive(_ context.Context, network domain.Network) (*domain.FeeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.FeeConfig
	for _, c := range s.byID {
		if !c.IsActive || c.Network != network {
			continue
		}
		if best == nil || c.UpdatedAt > best.UpdatedAt ||
			(c.UpdatedAt == best.UpdatedAt && c.ID > best.ID) {
			best = c
		}
	}
	if best == nil {
		return nil, storage.ErrNotFound
	}

	cfgCopy := *best
	return &cfgCopy, nil
}

var _ storage.FeeConfigStore = (*FeeConfigStore)(nil)
