package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.TokenRecord
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byMint: make(map[string]*domain.TokenRecord),
	}
}

// Insert adds a created token. Returns ErrDuplicateKey if mint_address exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.TokenRecord) error {
	if t == nil || t.MintAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[t.MintAddress]; exists {
		return storage.ErrDuplicateKey
	}

	s.byMint[t.MintAddress] = copyToken(t)
	return nil
}

// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(_ context.Context, mint string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// ListByCreator retrieves tokens created by a wallet, newest first.
func (s *TokenStore) ListByCreator(_ context.Context, creator string, network domain.Network) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenRecord
	for _, t := range s.byMint {
		if t.CreatorWallet != creator {
			continue
		}
		if network != "" && t.Network != network {
			continue
		}
		result = append(result, copyToken(t))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].MintAddress < result[j].MintAddress
	})
	return result, nil
}

func copyToken(t *domain.TokenRecord) *domain.TokenRecord {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

var _ storage.TokenStore = (*TokenStore)(nil)
