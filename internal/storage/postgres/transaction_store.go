package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a transaction. Returns ErrDuplicateKey if signature exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.TransactionRecord) (err error) {
	if t == nil || t.Signature == "" {
		return storage.ErrInvalidInput
	}
	defer observe("token_transactions.insert", &err)()

	var details []byte
	if t.Details != nil {
		details, err = json.Marshal(t.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
	}

	query := `
		INSERT INTO token_transactions (
			id, signature, token_mint, user_wallet, transaction_type, network, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.pool.Exec(ctx, query,
		t.ID,
		t.Signature,
		t.TokenMint,
		t.UserWallet,
		string(t.Type),
		string(t.Network),
		details,
		t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token transaction: %w", err)
	}
	return nil
}

// GetBySignature retrieves a transaction. Returns ErrNotFound if not exists.
func (s *TransactionStore) GetBySignature(ctx context.Context, signature string) (_ *domain.TransactionRecord, err error) {
	defer observe("token_transactions.get_by_signature", &err)()

	query := `
		SELECT id, signature, token_mint, user_wallet, transaction_type, network, details, created_at
		FROM token_transactions
		WHERE signature = $1
	`

	t, err := scanTransaction(s.pool.QueryRow(ctx, query, signature))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token transaction: %w", err)
	}
	return t, nil
}

// ListByMint retrieves transactions for a mint, newest first.
func (s *TransactionStore) ListByMint(ctx context.Context, mint string, limit int) (_ []*domain.TransactionRecord, err error) {
	defer observe("token_transactions.list_by_mint", &err)()

	query := `
		SELECT id, signature, token_mint, user_wallet, transaction_type, network, details, created_at
		FROM token_transactions
		WHERE token_mint = $1
		ORDER BY created_at DESC, signature ASC
	`
	args := []any{mint}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query token transactions: %w", err)
	}
	defer rows.Close()

	var result []*domain.TransactionRecord
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token transaction row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token transaction rows: %w", err)
	}
	return result, nil
}

// scanTransaction scans a single row into TransactionRecord.
func scanTransaction(row pgx.Row) (*domain.TransactionRecord, error) {
	var (
		t         domain.TransactionRecord
		kind, net string
		details   []byte
	)

	err := row.Scan(
		&t.ID,
		&t.Signature,
		&t.TokenMint,
		&t.UserWallet,
		&kind,
		&net,
		&details,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.OperationKind(kind)
	t.Network = domain.Network(net)
	if details != nil {
		if err := json.Unmarshal(details, &t.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	return &t, nil
}
