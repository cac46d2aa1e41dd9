package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
)

const eventColumns = `id, title, description, venue, image_url, event_date, start_time, status, view_count, organizer_id, created_at, updated_at`

type eventRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Venue       string    `db:"venue"`
	ImageURL    string    `db:"image_url"`
	EventDate   time.Time `db:"event_date"`
	StartTime   time.Time `db:"start_time"`
	Status      string    `db:"status"`
	ViewCount   int       `db:"view_count"`
	OrganizerID string    `db:"organizer_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID: r.ID, Title: r.Title, Description: r.Description,
		Venue: r.Venue, ImageURL: r.ImageURL,
		Date: r.EventDate, StartTime: r.StartTime,
		Status: event.Status(r.Status), ViewCount: r.ViewCount,
		OrganizerID: r.OrganizerID,
		CreatedAt:   r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type EventRepository struct{ db *sqlx.DB }

func NewEventRepository(db *sqlx.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `INSERT INTO events (title, description, venue, image_url, event_date, start_time, status, view_count, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Venue, e.ImageURL, e.Date, e.StartTime,
		string(e.Status), e.ViewCount, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	var row eventRow
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("fetching event: %w", err)
	}
	return row.toEntity(), nil
}

// Search builds the WHERE clause dynamically from the filter; only
// published events are visible to the public catalog.
func (r *EventRepository) Search(ctx context.Context, filter event.SearchFilter) ([]*event.Event, error) {
	conditions := []string{`status = 'published'`}
	args := []interface{}{}

	if filter.Query != "" {
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
		p := strconv.Itoa(len(args))
		conditions = append(conditions, `(LOWER(title) LIKE $`+p+` OR LOWER(venue) LIKE $`+p+`)`)
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, `event_date >= $`+strconv.Itoa(len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, `event_date <= $`+strconv.Itoa(len(args)))
	}

	orderBy := `event_date, start_time`
	switch filter.Sort {
	case event.SortDateDesc:
		orderBy = `event_date DESC, start_time DESC`
	case event.SortViews:
		orderBy = `view_count DESC`
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY ` + orderBy

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	var rows []eventRow
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, organizerID); err != nil {
		return nil, fmt.Errorf("listing organizer events: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `UPDATE events SET title = $1, description = $2, venue = $3, image_url = $4, event_date = $5, start_time = $6, status = $7, updated_at = $8 WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Venue, e.ImageURL, e.Date, e.StartTime, string(e.Status), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// IncrementViewCount is a single atomic UPDATE; concurrent views never
// lose increments.
func (r *EventRepository) IncrementViewCount(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("incrementing view count: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

var _ event.Repository = (*EventRepository)(nil)
