package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

const offerColumns = `id, event_id, ticket_type, unit_price, initial_capacity, available_capacity, expires_at, created_at, updated_at`

type offerRow struct {
	ID                string          `db:"id"`
	EventID           string          `db:"event_id"`
	TicketType        string          `db:"ticket_type"`
	UnitPrice         decimal.Decimal `db:"unit_price"`
	InitialCapacity   int             `db:"initial_capacity"`
	AvailableCapacity int             `db:"available_capacity"`
	ExpiresAt         time.Time       `db:"expires_at"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (r *offerRow) toEntity() *offer.Offer {
	return &offer.Offer{
		ID: r.ID, EventID: r.EventID, TicketType: r.TicketType,
		UnitPrice: r.UnitPrice, InitialCapacity: r.InitialCapacity,
		AvailableCapacity: r.AvailableCapacity, ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type OfferRepository struct{ db *sqlx.DB }

func NewOfferRepository(db *sqlx.DB) *OfferRepository { return &OfferRepository{db: db} }

func (r *OfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	query := `INSERT INTO offers (event_id, ticket_type, unit_price, initial_capacity, available_capacity, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		o.EventID, o.TicketType, o.UnitPrice, o.InitialCapacity, o.AvailableCapacity, o.ExpiresAt, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (*offer.Offer, error) {
	var row offerRow
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offer.ErrOfferNotFound
		}
		return nil, fmt.Errorf("fetching offer: %w", err)
	}
	return row.toEntity(), nil
}

func (r *OfferRepository) ListByEventID(ctx context.Context, eventID string) ([]*offer.Offer, error) {
	var rows []offerRow
	query := `SELECT ` + offerColumns + ` FROM offers WHERE event_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	offers := make([]*offer.Offer, len(rows))
	for i, row := range rows {
		offers[i] = row.toEntity()
	}
	return offers, nil
}

func (r *OfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	query := `UPDATE offers SET ticket_type = $1, unit_price = $2, expires_at = $3, updated_at = NOW() WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, o.TicketType, o.UnitPrice, o.ExpiresAt, o.ID)
	if err != nil {
		return fmt.Errorf("updating offer: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return offer.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting offer: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return offer.ErrOfferNotFound
	}
	return nil
}

// ReserveSeats performs the check-and-decrement as one conditional UPDATE:
// the capacity guard is evaluated atomically with the write, so two
// interleaved requests can never both observe enough seats for an
// oversell.
func (r *OfferRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE offers
		SET available_capacity = available_capacity - $2, updated_at = NOW()
		WHERE id = $1 AND available_capacity >= $2
		RETURNING ` + offerColumns

	var row offerRow
	err := sqlxTx.GetContext(ctx, &row, query, offerID, count)
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reserving seats: %w", err)
	}

	// Zero rows: either the offer does not exist or the guard failed.
	var exists bool
	if err := sqlxTx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM offers WHERE id = $1)`, offerID); err != nil {
		return nil, fmt.Errorf("checking offer existence: %w", err)
	}
	if !exists {
		return nil, offer.ErrOfferNotFound
	}
	return nil, offer.ErrInsufficientCapacity
}

// ReleaseSeats restores seats, clamped at the initial capacity so a
// double release can never inflate availability.
func (r *OfferRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE offers
		SET available_capacity = LEAST(initial_capacity, available_capacity + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns

	var row offerRow
	if err := sqlxTx.GetContext(ctx, &row, query, offerID, count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offer.ErrOfferNotFound
		}
		return nil, fmt.Errorf("releasing seats: %w", err)
	}
	return row.toEntity(), nil
}

// ResizeCapacity changes the initial capacity while preserving the sold
// count; the sold-floor guard is part of the same atomic UPDATE.
func (r *OfferRepository) ResizeCapacity(ctx context.Context, offerID string, newInitial int) (*offer.Offer, error) {
	query := `UPDATE offers
		SET available_capacity = $2 - (initial_capacity - available_capacity),
		    initial_capacity = $2,
		    updated_at = NOW()
		WHERE id = $1 AND initial_capacity - available_capacity <= $2
		RETURNING ` + offerColumns

	var row offerRow
	err := r.db.GetContext(ctx, &row, query, offerID, newInitial)
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resizing capacity: %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM offers WHERE id = $1)`, offerID); err != nil {
		return nil, fmt.Errorf("checking offer existence: %w", err)
	}
	if !exists {
		return nil, offer.ErrOfferNotFound
	}
	return nil, offer.ErrBelowSoldFloor
}

var _ offer.Repository = (*OfferRepository)(nil)
