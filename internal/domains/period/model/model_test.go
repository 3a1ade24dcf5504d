package model_test

import (
	"testing"
	"time"

	"tourdesk/internal/domains/period/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_Available(t *testing.T) {
	assert.Equal(t, 12, model.Period{Capacity: 30, Booked: 18}.Available())
	assert.Equal(t, 0, model.Period{Capacity: 10, Booked: 10}.Available())
	assert.Equal(t, 0, model.Period{Capacity: 8, Booked: 10}.Available())
}

func TestPeriod_ApplySeats(t *testing.T) {
	tests := []struct {
		name        string
		period      model.Period
		delta       int
		autoSoldOut bool
		want        model.SeatChange
		wantErr     error
	}{
		{
			name:   "reserve within capacity",
			period: model.Period{Capacity: 20, Booked: 10, SaleStatus: model.SaleStatusAvailable},
			delta:  4,
			want:   model.SeatChange{Booked: 14, SaleStatus: model.SaleStatusAvailable},
		},
		{
			name:    "reserve beyond capacity",
			period:  model.Period{Capacity: 20, Booked: 18, SaleStatus: model.SaleStatusAvailable},
			delta:   3,
			wantErr: model.ErrInsufficientSeats,
		},
		{
			name:    "release more than booked",
			period:  model.Period{Capacity: 20, Booked: 2},
			delta:   -3,
			wantErr: model.ErrNegativeBooked,
		},
		{
			name:   "filling up without auto transition keeps status",
			period: model.Period{Capacity: 10, Booked: 8, SaleStatus: model.SaleStatusBooking},
			delta:  2,
			want:   model.SeatChange{Booked: 10, SaleStatus: model.SaleStatusBooking},
		},
		{
			name:        "filling up with auto transition sells out",
			period:      model.Period{Capacity: 10, Booked: 8, SaleStatus: model.SaleStatusBooking},
			delta:       2,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 10, SaleStatus: model.SaleStatusSoldOut},
		},
		{
			name:        "release reopens a sold out period",
			period:      model.Period{Capacity: 10, Booked: 10, SaleStatus: model.SaleStatusSoldOut},
			delta:       -1,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 9, SaleStatus: model.SaleStatusAvailable},
		},
		{
			name:        "filling an available period sells out",
			period:      model.Period{Capacity: 4, Booked: 3, SaleStatus: model.SaleStatusAvailable},
			delta:       1,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 4, SaleStatus: model.SaleStatusSoldOut},
		},
		{
			name:        "filling a closed period keeps it closed",
			period:      model.Period{Capacity: 2, Booked: 1, SaleStatus: model.SaleStatusClosed},
			delta:       1,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 2, SaleStatus: model.SaleStatusClosed},
		},
		{
			name:        "release on a period still full stays sold out",
			period:      model.Period{Capacity: 10, Booked: 12, SaleStatus: model.SaleStatusSoldOut},
			delta:       -1,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 11, SaleStatus: model.SaleStatusSoldOut},
		},
		{
			name:        "release on a booking period keeps its status",
			period:      model.Period{Capacity: 10, Booked: 6, SaleStatus: model.SaleStatusBooking},
			delta:       -2,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 4, SaleStatus: model.SaleStatusBooking},
		},
		{
			name:        "release keeps a closed period closed",
			period:      model.Period{Capacity: 10, Booked: 5, SaleStatus: model.SaleStatusClosed},
			delta:       -2,
			autoSoldOut: true,
			want:        model.SeatChange{Booked: 3, SaleStatus: model.SaleStatusClosed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.period.ApplySeats(tt.delta, tt.autoSoldOut)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultEndDate(t *testing.T) {
	start := time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC), model.DefaultEndDate(start, 7))
	assert.Equal(t, start, model.DefaultEndDate(start, 1))
	assert.Equal(t, start, model.DefaultEndDate(start, 0))
}

func TestBulkUpdate_Validate(t *testing.T) {
	hidden := false
	soldOut := model.SaleStatusSoldOut
	unknown := "archived"
	promo := &model.Promo{
		Name:      "Early bird",
		StartDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		Quota:     20,
	}

	tests := []struct {
		name    string
		update  model.BulkUpdate
		wantErr error
	}{
		{
			name:   "visibility",
			update: model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindVisibility, Visibility: &hidden},
		},
		{
			name:   "sale status",
			update: model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindSaleStatus, SaleStatus: &soldOut},
		},
		{
			name:   "promo",
			update: model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindPromo, Promo: promo},
		},
		{
			name:    "empty selection",
			update:  model.BulkUpdate{Kind: model.BulkKindVisibility, Visibility: &hidden},
			wantErr: model.ErrEmptySelection,
		},
		{
			name:    "mixed payload",
			update:  model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindVisibility, Visibility: &hidden, SaleStatus: &soldOut},
			wantErr: model.ErrBulkPayload,
		},
		{
			name:    "payload does not match kind",
			update:  model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindPromo, Visibility: &hidden},
			wantErr: model.ErrBulkPayload,
		},
		{
			name:    "unknown sale status",
			update:  model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindSaleStatus, SaleStatus: &unknown},
			wantErr: model.ErrSaleStatus,
		},
		{
			name: "inverted promo window",
			update: model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindPromo, Promo: &model.Promo{
				StartDate: promo.EndDate,
				EndDate:   promo.StartDate,
			}},
			wantErr: model.ErrPromoWindow,
		},
		{
			name:    "unknown kind",
			update:  model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: "status", Visibility: &hidden},
			wantErr: model.ErrUnknownBulkKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBulkUpdate_NormalizeAndFields(t *testing.T) {
	visible := true
	update := model.BulkUpdate{
		PeriodIDs:  []string{"p1", "p2", "p1", " ", "p3", "p2"},
		Kind:       model.BulkKindVisibility,
		Visibility: &visible,
	}.Normalize()

	assert.Equal(t, []string{"p1", "p2", "p3"}, update.PeriodIDs)
	assert.Equal(t, map[string]any{model.FieldIsVisible: true}, update.Fields())
}

func TestOffer_PromoActive(t *testing.T) {
	name := "Early bird"
	empty := ""
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	quota := 5
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name  string
		offer model.Offer
		day   time.Time
		want  bool
	}{
		{
			name:  "unnamed promo",
			offer: model.Offer{PromoStartDate: &start, PromoEndDate: &end},
			day:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "blank name",
			offer: model.Offer{PromoName: &empty},
			day:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "inside window",
			offer: model.Offer{PromoName: &name, PromoStartDate: &start, PromoEndDate: &end},
			day:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "last day counts",
			offer: model.Offer{PromoName: &name, PromoStartDate: &start, PromoEndDate: &end},
			day:   time.Date(2025, 3, 31, 0, 0, 0, 0, jakarta),
			want:  true,
		},
		{
			name:  "before window",
			offer: model.Offer{PromoName: &name, PromoStartDate: &start, PromoEndDate: &end},
			day:   time.Date(2025, 2, 28, 0, 0, 0, 0, jakarta),
		},
		{
			name:  "after window",
			offer: model.Offer{PromoName: &name, PromoStartDate: &start, PromoEndDate: &end},
			day:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "open ended",
			offer: model.Offer{PromoName: &name},
			day:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "quota used up",
			offer: model.Offer{PromoName: &name, PromoQuota: &quota, PromoUsed: 5},
			day:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "quota left",
			offer: model.Offer{PromoName: &name, PromoQuota: &quota, PromoUsed: 4},
			day:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.offer.PromoActive(tt.day))
		})
	}
}
