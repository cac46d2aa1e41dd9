package application

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

// In-memory fakes mirroring the conditional-update semantics of the
// postgres repositories, so concurrency properties can be exercised
// without a database.

// fakeTx applies writes eagerly and undoes them on rollback, mirroring
// how an aborted database transaction discards its effects.
type fakeTx struct {
	mu    sync.Mutex
	undos []func()
	done  bool
}

func (t *fakeTx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	t.undos = nil
	return nil
}

func (t *fakeTx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	for i := len(t.undos) - 1; i >= 0; i-- {
		t.undos[i]()
	}
	t.undos = nil
	return nil
}

func (t *fakeTx) onRollback(undo func()) {
	t.mu.Lock()
	t.undos = append(t.undos, undo)
	t.mu.Unlock()
}

func registerUndo(tx transaction.Tx, undo func()) {
	if ft, ok := tx.(*fakeTx); ok {
		ft.onRollback(undo)
	}
}

type fakeTxManager struct{}

func (m *fakeTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	return &fakeTx{}, nil
}

// --- offers ---

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*offer.Offer
	seq    int
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*offer.Offer)}
}

func cloneOffer(o *offer.Offer) *offer.Offer {
	c := *o
	return &c
}

func (r *fakeOfferRepo) Create(ctx context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	o.ID = "offer-" + strconv.Itoa(r.seq)
	r.offers[o.ID] = cloneOffer(o)
	return nil
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id string) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	return cloneOffer(o), nil
}

func (r *fakeOfferRepo) ListByEventID(ctx context.Context, eventID string) ([]*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*offer.Offer
	for _, o := range r.offers {
		if o.EventID == eventID {
			out = append(out, cloneOffer(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOfferRepo) Update(ctx context.Context, o *offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.offers[o.ID]
	if !ok {
		return offer.ErrOfferNotFound
	}
	stored.TicketType = o.TicketType
	stored.UnitPrice = o.UnitPrice
	stored.ExpiresAt = o.ExpiresAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOfferRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return offer.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) ReserveSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	if o.AvailableCapacity < count {
		return nil, offer.ErrInsufficientCapacity
	}
	o.AvailableCapacity -= count
	o.UpdatedAt = time.Now()
	registerUndo(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.offers[offerID]; ok {
			cur.AvailableCapacity += count
		}
	})
	return cloneOffer(o), nil
}

func (r *fakeOfferRepo) ReleaseSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	before := o.AvailableCapacity
	o.AvailableCapacity += count
	if o.AvailableCapacity > o.InitialCapacity {
		o.AvailableCapacity = o.InitialCapacity
	}
	applied := o.AvailableCapacity - before
	o.UpdatedAt = time.Now()
	registerUndo(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.offers[offerID]; ok {
			cur.AvailableCapacity -= applied
		}
	})
	return cloneOffer(o), nil
}

func (r *fakeOfferRepo) ResizeCapacity(ctx context.Context, offerID string, newInitial int) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	sold := o.InitialCapacity - o.AvailableCapacity
	if newInitial < sold {
		return nil, offer.ErrBelowSoldFloor
	}
	o.InitialCapacity = newInitial
	o.AvailableCapacity = newInitial - sold
	o.UpdatedAt = time.Now()
	return cloneOffer(o), nil
}

var _ offer.Repository = (*fakeOfferRepo)(nil)

// --- events ---

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*event.Event
	seq    int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*event.Event)}
}

func cloneEvent(e *event.Event) *event.Event {
	c := *e
	return &c
}

func (r *fakeEventRepo) Create(ctx context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.ID = "event-" + strconv.Itoa(r.seq)
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *fakeEventRepo) Search(ctx context.Context, filter event.SearchFilter) ([]*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*event.Event
	for _, e := range r.events {
		if !e.IsPublished() {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Venue), q) {
				continue
			}
		}
		if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.Sort {
		case event.SortDateDesc:
			return out[i].Date.After(out[j].Date)
		case event.SortViews:
			return out[i].ViewCount > out[j].ViewCount
		default:
			return out[i].Date.Before(out[j].Date)
		}
	})
	return out, nil
}

func (r *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*event.Event
	for _, e := range r.events {
		if e.OrganizerID == organizerID {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return event.ErrEventNotFound
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return event.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) IncrementViewCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return event.ErrEventNotFound
	}
	e.ViewCount++
	return nil
}

var _ event.Repository = (*fakeEventRepo)(nil)

// --- reservations ---

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*reservation.Reservation
	codes        map[string]bool
	// eventID -> organizerID, for ConfirmedTotalsByOrganizer
	eventOwners map[string]string
	seq         int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[string]*reservation.Reservation),
		codes:        make(map[string]bool),
		eventOwners:  make(map[string]string),
	}
}

func cloneReservation(res *reservation.Reservation) *reservation.Reservation {
	c := *res
	if res.CancelledAt != nil {
		at := *res.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

func (r *fakeReservationRepo) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codes[res.ConfirmationCode] {
		return reservation.ErrConfirmationCodeTaken
	}
	r.seq++
	res.ID = "res-" + strconv.Itoa(r.seq)
	r.codes[res.ConfirmationCode] = true
	r.reservations[res.ID] = cloneReservation(res)
	id, code := res.ID, res.ConfirmationCode
	registerUndo(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.reservations, id)
		delete(r.codes, code)
	})
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return cloneReservation(res), nil
}

func (r *fakeReservationRepo) GetByConfirmationCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.ConfirmationCode == code {
			return cloneReservation(res), nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (r *fakeReservationRepo) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.reservations {
		if res.OwnerID == ownerID {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeReservationRepo) MarkCancelled(ctx context.Context, tx transaction.Tx, id string, cancelledAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return false, nil
	}
	if res.Status != reservation.StatusConfirmed {
		return false, nil
	}
	res.Status = reservation.StatusCancelled
	res.CancelledAt = &cancelledAt
	res.UpdatedAt = cancelledAt
	registerUndo(tx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.reservations[id]; ok {
			cur.Status = reservation.StatusConfirmed
			cur.CancelledAt = nil
		}
	})
	return true, nil
}

func (r *fakeReservationRepo) ConfirmedTotalsByOrganizer(ctx context.Context, organizerID string) (int64, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	total := decimal.Zero
	for _, res := range r.reservations {
		if res.Status != reservation.StatusConfirmed {
			continue
		}
		if r.eventOwners[res.EventID] != organizerID {
			continue
		}
		count++
		total = total.Add(res.TotalAmount)
	}
	return count, total, nil
}

var _ reservation.Repository = (*fakeReservationRepo)(nil)

// --- daily stats ---

type fakeStatsRepo struct {
	mu   sync.Mutex
	rows map[string]*stats.DailyStat
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[string]*stats.DailyStat)}
}

func statKey(eventID string, day time.Time) string {
	return eventID + "|" + day.Format("2006-01-02")
}

func cloneStat(s *stats.DailyStat) *stats.DailyStat {
	c := *s
	return &c
}

func (r *fakeStatsRepo) IncrementView(ctx context.Context, eventID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := statKey(eventID, day)
	row, ok := r.rows[key]
	if !ok {
		row = &stats.DailyStat{ID: key, EventID: eventID, Date: day, Revenue: decimal.Zero}
		r.rows[key] = row
	}
	row.ViewCount++
	return nil
}

func (r *fakeStatsRepo) AddSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := statKey(eventID, day)
	row, ok := r.rows[key]
	if !ok {
		row = &stats.DailyStat{ID: key, EventID: eventID, Date: day, Revenue: decimal.Zero}
		r.rows[key] = row
	}
	row.ReservationCount++
	row.Revenue = row.Revenue.Add(amount)
	return nil
}

func (r *fakeStatsRepo) SubtractSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[statKey(eventID, day)]
	if !ok {
		return nil
	}
	if row.ReservationCount > 0 {
		row.ReservationCount--
	}
	row.Revenue = row.Revenue.Sub(amount)
	if row.Revenue.IsNegative() {
		row.Revenue = decimal.Zero
	}
	return nil
}

func (r *fakeStatsRepo) GetByEventAndDate(ctx context.Context, eventID string, day time.Time) (*stats.DailyStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[statKey(eventID, day)]
	if !ok {
		return nil, stats.ErrStatNotFound
	}
	return cloneStat(row), nil
}

func (r *fakeStatsRepo) ListByEvent(ctx context.Context, eventID string, from, to time.Time) ([]*stats.DailyStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*stats.DailyStat
	for _, row := range r.rows {
		if row.EventID != eventID {
			continue
		}
		if row.Date.Before(from) || row.Date.After(to) {
			continue
		}
		out = append(out, cloneStat(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

var _ stats.Repository = (*fakeStatsRepo)(nil)
