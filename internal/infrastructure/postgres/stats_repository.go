package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

const statColumns = `id, event_id, stat_date, view_count, reservation_count, revenue, created_at, updated_at`

type dailyStatRow struct {
	ID               string          `db:"id"`
	EventID          string          `db:"event_id"`
	StatDate         time.Time       `db:"stat_date"`
	ViewCount        int             `db:"view_count"`
	ReservationCount int             `db:"reservation_count"`
	Revenue          decimal.Decimal `db:"revenue"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r *dailyStatRow) toEntity() *stats.DailyStat {
	return &stats.DailyStat{
		ID: r.ID, EventID: r.EventID, Date: r.StatDate,
		ViewCount: r.ViewCount, ReservationCount: r.ReservationCount,
		Revenue: r.Revenue, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type StatsRepository struct{ db *sqlx.DB }

func NewStatsRepository(db *sqlx.DB) *StatsRepository { return &StatsRepository{db: db} }

// IncrementView upserts the (event, day) row with an atomic increment;
// concurrent callers serialize on the row and never lose updates.
func (r *StatsRepository) IncrementView(ctx context.Context, eventID string, day time.Time) error {
	query := `INSERT INTO daily_stats (event_id, stat_date, view_count, reservation_count, revenue)
		VALUES ($1, $2, 1, 0, 0)
		ON CONFLICT (event_id, stat_date)
		DO UPDATE SET view_count = daily_stats.view_count + 1, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, eventID, day); err != nil {
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

func (r *StatsRepository) AddSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error {
	query := `INSERT INTO daily_stats (event_id, stat_date, view_count, reservation_count, revenue)
		VALUES ($1, $2, 0, 1, $3)
		ON CONFLICT (event_id, stat_date)
		DO UPDATE SET reservation_count = daily_stats.reservation_count + 1,
		              revenue = daily_stats.revenue + EXCLUDED.revenue,
		              updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, eventID, day, amount); err != nil {
		return fmt.Errorf("recording sale: %w", err)
	}
	return nil
}

// SubtractSale floors both counters at zero; a missing row stays missing.
func (r *StatsRepository) SubtractSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error {
	query := `UPDATE daily_stats
		SET reservation_count = GREATEST(reservation_count - 1, 0),
		    revenue = GREATEST(revenue - $3, 0),
		    updated_at = NOW()
		WHERE event_id = $1 AND stat_date = $2`
	if _, err := r.db.ExecContext(ctx, query, eventID, day, amount); err != nil {
		return fmt.Errorf("recording cancellation: %w", err)
	}
	return nil
}

func (r *StatsRepository) GetByEventAndDate(ctx context.Context, eventID string, day time.Time) (*stats.DailyStat, error) {
	var row dailyStatRow
	query := `SELECT ` + statColumns + ` FROM daily_stats WHERE event_id = $1 AND stat_date = $2`
	if err := r.db.GetContext(ctx, &row, query, eventID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stats.ErrStatNotFound
		}
		return nil, fmt.Errorf("fetching daily stat: %w", err)
	}
	return row.toEntity(), nil
}

func (r *StatsRepository) ListByEvent(ctx context.Context, eventID string, from, to time.Time) ([]*stats.DailyStat, error) {
	var rows []dailyStatRow
	query := `SELECT ` + statColumns + ` FROM daily_stats WHERE event_id = $1 AND stat_date BETWEEN $2 AND $3 ORDER BY stat_date`
	if err := r.db.SelectContext(ctx, &rows, query, eventID, from, to); err != nil {
		return nil, fmt.Errorf("listing daily stats: %w", err)
	}
	result := make([]*stats.DailyStat, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ stats.Repository = (*StatsRepository)(nil)
