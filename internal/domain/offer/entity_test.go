package offer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOffer(t *testing.T) {
	o := NewOffer("event-1", "VIP", decimal.NewFromInt(350), 200, time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 200, o.InitialCapacity)
	assert.Equal(t, 200, o.AvailableCapacity)
	assert.Equal(t, 0, o.Sold())
}

func TestOffer_Sold(t *testing.T) {
	o := NewOffer("event-1", "Standard", decimal.NewFromInt(150), 100, time.Time{})
	o.AvailableCapacity = 37

	assert.Equal(t, 63, o.Sold())
}

func TestOffer_IsExpired(t *testing.T) {
	expiry := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	o := NewOffer("event-1", "VIP", decimal.NewFromInt(350), 200, expiry)

	t.Run("sellable on the expiration day itself", func(t *testing.T) {
		assert.False(t, o.IsExpired(time.Date(2026, 9, 19, 23, 0, 0, 0, time.UTC)))
	})

	t.Run("expired the day after", func(t *testing.T) {
		assert.True(t, o.IsExpired(time.Date(2026, 9, 20, 0, 0, 1, 0, time.UTC)))
	})

	t.Run("zero expiry never expires", func(t *testing.T) {
		open := NewOffer("event-1", "VIP", decimal.NewFromInt(350), 200, time.Time{})
		assert.False(t, open.IsExpired(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestOffer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Offer)
		wantErr error
	}{
		{"valid", func(o *Offer) {}, nil},
		{"missing event id", func(o *Offer) { o.EventID = "" }, ErrEventIDRequired},
		{"missing ticket type", func(o *Offer) { o.TicketType = "" }, ErrTicketTypeRequired},
		{"negative price", func(o *Offer) { o.UnitPrice = decimal.NewFromInt(-1) }, ErrNegativeUnitPrice},
		{"negative capacity", func(o *Offer) { o.InitialCapacity = -1; o.AvailableCapacity = -1 }, ErrInvalidCapacity},
		{"available above initial", func(o *Offer) { o.AvailableCapacity = o.InitialCapacity + 1 }, ErrInvalidCapacity},
		{"free offer is valid", func(o *Offer) { o.UnitPrice = decimal.Zero }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOffer("event-1", "VIP", decimal.NewFromInt(350), 200, time.Time{})
			tt.mutate(o)

			err := o.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
