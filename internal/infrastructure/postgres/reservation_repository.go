package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

const reservationColumns = `id, confirmation_code, owner_id, offer_id, event_id, seat_count, total_amount, status, created_at, updated_at, cancelled_at`

type reservationRow struct {
	ID               string          `db:"id"`
	ConfirmationCode string          `db:"confirmation_code"`
	OwnerID          string          `db:"owner_id"`
	OfferID          string          `db:"offer_id"`
	EventID          string          `db:"event_id"`
	SeatCount        int             `db:"seat_count"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, ConfirmationCode: r.ConfirmationCode,
		OwnerID: r.OwnerID, OfferID: r.OfferID, EventID: r.EventID,
		SeatCount: r.SeatCount, TotalAmount: r.TotalAmount,
		Status: reservation.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, CancelledAt: r.CancelledAt,
	}
}

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO reservations (confirmation_code, owner_id, offer_id, event_id, seat_count, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := sqlxTx.QueryRowContext(ctx, query,
		res.ConfirmationCode, res.OwnerID, res.OfferID, res.EventID,
		res.SeatCount, res.TotalAmount, string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" && pgErr.Constraint == "reservations_confirmation_code_key" {
			return reservation.ErrConfirmationCodeTaken
		}
		return fmt.Errorf("creating reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("fetching reservation: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetByConfirmationCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE confirmation_code = $1`
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("fetching reservation: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, limit, offset); err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// MarkCancelled is a compare-and-set on the status column: only the
// confirmed -> cancelled transition matches, so concurrent cancels of
// the same reservation cannot both claim it.
func (r *ReservationRepository) MarkCancelled(ctx context.Context, tx transaction.Tx, id string, cancelledAt time.Time) (bool, error) {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE reservations SET status = 'cancelled', cancelled_at = $2, updated_at = $2 WHERE id = $1 AND status = 'confirmed'`
	result, err := sqlxTx.ExecContext(ctx, query, id, cancelledAt)
	if err != nil {
		return false, fmt.Errorf("cancelling reservation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancelling reservation: %w", err)
	}
	return rows == 1, nil
}

func (r *ReservationRepository) ConfirmedTotalsByOrganizer(ctx context.Context, organizerID string) (int64, decimal.Decimal, error) {
	var row struct {
		Count   int64           `db:"count"`
		Revenue decimal.Decimal `db:"revenue"`
	}
	query := `SELECT COUNT(*) AS count, COALESCE(SUM(r.total_amount), 0) AS revenue
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1 AND r.status = 'confirmed'`
	if err := r.db.GetContext(ctx, &row, query, organizerID); err != nil {
		return 0, decimal.Zero, fmt.Errorf("summing reservations: %w", err)
	}
	return row.Count, row.Revenue, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
