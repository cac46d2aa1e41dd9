package transaction

import "context"

// Tx represents a transaction.
// It keeps the domain layer free of infrastructure (sqlx etc.) dependencies.
type Tx interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback rolls the transaction back.
	Rollback() error
}

// Manager starts transactions.
type Manager interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (Tx, error)
}
