package clickhouse

import (
	"context"
	"fmt"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// TransactionEventStore implements storage.TransactionEventStore using ClickHouse.
type TransactionEventStore struct {
	conn *Conn
}

// NewTransactionEventStore creates a new TransactionEventStore.
func NewTransactionEventStore(conn *Conn) *TransactionEventStore {
	return &TransactionEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransactionEventStore = (*TransactionEventStore)(nil)

// Insert appends one event. Returns ErrDuplicateKey if signature exists.
func (s *TransactionEventStore) Insert(ctx context.Context, t *domain.TransactionRecord) (err error) {
	if t == nil || t.Signature == "" {
		return storage.ErrInvalidInput
	}
	defer observe("token_transaction_events.insert", &err)()

	// MergeTree does not enforce uniqueness.
	exists, err := s.exists(ctx, t.Signature)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO token_transaction_events (
			id, signature, token_mint, user_wallet, type, network, details, created_at_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	details := t.Details
	if details == nil {
		details = map[string]string{}
	}

	err = batch.Append(
		t.ID, t.Signature, t.TokenMint, t.UserWallet,
		string(t.Type), string(t.Network), details, uint64(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// CountByType counts events per operation kind. An empty network counts all.
func (s *TransactionEventStore) CountByType(ctx context.Context, network domain.Network) (_ map[domain.OperationKind]uint64, err error) {
	defer observe("token_transaction_events.count_by_type", &err)()

	query := `
		SELECT type, count() AS n
		FROM token_transaction_events
		WHERE ? = '' OR network = ?
		GROUP BY type
	`

	rows, err := s.conn.Query(ctx, query, string(network), string(network))
	if err != nil {
		return nil, fmt.Errorf("query counts by type: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

// ListByMint retrieves events for a mint, newest first.
func (s *TransactionEventStore) ListByMint(ctx context.Context, mint string) (_ []*domain.TransactionRecord, err error) {
	defer observe("token_transaction_events.list_by_mint", &err)()

	query := `
		SELECT id, signature, token_mint, user_wallet, type, network, details, created_at_ms
		FROM token_transaction_events
		WHERE token_mint = ?
		ORDER BY created_at_ms DESC, signature ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query by mint: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// exists checks if an event with the given signature exists.
func (s *TransactionEventStore) exists(ctx context.Context, signature string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM token_transaction_events WHERE signature = ?`, signature,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanCounts(rows chRows) (map[domain.OperationKind]uint64, error) {
	counts := make(map[domain.OperationKind]uint64)
	for rows.Next() {
		var (
			kind string
			n    uint64
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[domain.OperationKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count rows: %w", err)
	}
	return counts, nil
}

func scanEvents(rows chRows) ([]*domain.TransactionRecord, error) {
	var events []*domain.TransactionRecord
	for rows.Next() {
		var (
			t           domain.TransactionRecord
			kind, net   string
			createdAtMs uint64
		)
		err := rows.Scan(
			&t.ID, &t.Signature, &t.TokenMint, &t.UserWallet,
			&kind, &net, &t.Details, &createdAtMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		t.Type = domain.OperationKind(kind)
		t.Network = domain.Network(net)
		t.CreatedAt = int64(createdAtMs)
		events = append(events, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}
