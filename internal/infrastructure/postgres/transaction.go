package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

// TxWrapper wraps sqlx.Tx behind the transaction.Tx interface.
type TxWrapper struct {
	*sqlx.Tx
}

// Commit commits the transaction.
func (t *TxWrapper) Commit() error {
	return t.Tx.Commit()
}

// Rollback rolls the transaction back.
func (t *TxWrapper) Rollback() error {
	return t.Tx.Rollback()
}

// TxManager is a transaction.Manager backed by sqlx.DB.
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx extracts the sqlx.Tx from a transaction.Tx.
// Used by the repository implementations.
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

var _ transaction.Manager = (*TxManager)(nil)
