package model

import (
	"time"

	"tourdesk/internal/pricing"
	"tourdesk/shared/model"
)

const (
	OfferTableName  = "period_offers"
	OfferEntityName = "period_offer"

	FieldPeriodID           = "period_id"
	FieldPromoName          = "promo_name"
	FieldPromoStartDate     = "promo_start_date"
	FieldPromoEndDate       = "promo_end_date"
	FieldPromoQuota         = "promo_quota"
	FieldPromoUsed          = "promo_used"
	FieldCancellationPolicy = "cancellation_policy"
)

// Offer is the priced configuration of a period. A period owns at most one.
type Offer struct {
	PeriodID string `db:"period_id"`

	PriceAdult      *float64 `db:"price_adult"`
	PriceSingle     *float64 `db:"price_single"`
	PriceChildBed   *float64 `db:"price_child_bed"`
	PriceChildNoBed *float64 `db:"price_child_nobed"`
	PriceInfant     *float64 `db:"price_infant"`

	DiscountAdult      *float64 `db:"discount_adult"`
	DiscountSingle     *float64 `db:"discount_single"`
	DiscountChildBed   *float64 `db:"discount_child_bed"`
	DiscountChildNoBed *float64 `db:"discount_child_nobed"`

	NetPriceAdult  *float64 `db:"net_price_adult"`
	NetPriceSingle *float64 `db:"net_price_single"`

	Deposit *float64 `db:"deposit"`

	PromoName      *string    `db:"promo_name"`
	PromoStartDate *time.Time `db:"promo_start_date"`
	PromoEndDate   *time.Time `db:"promo_end_date"`
	PromoQuota     *int       `db:"promo_quota"`
	PromoUsed      int        `db:"promo_used"`

	CancellationPolicy string `db:"cancellation_policy"`
	model.Metadata
}

// PromoActive reports whether the promo runs on day: it is named, day falls in
// its window (open ended bounds allowed) and the quota is not used up.
func (o Offer) PromoActive(day time.Time) bool {
	if o.PromoName == nil || *o.PromoName == "" {
		return false
	}

	day = calendarDay(day)

	if o.PromoStartDate != nil && day.Before(calendarDay(*o.PromoStartDate)) {
		return false
	}

	if o.PromoEndDate != nil && day.After(calendarDay(*o.PromoEndDate)) {
		return false
	}

	return o.PromoQuota == nil || o.PromoUsed < *o.PromoQuota
}

// calendarDay drops the clock and zone so DATE columns compare by day.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (o Offer) Pricing() pricing.Offer {
	return pricing.Offer{
		PriceAdult:         o.PriceAdult,
		PriceSingle:        o.PriceSingle,
		PriceChildBed:      o.PriceChildBed,
		PriceChildNoBed:    o.PriceChildNoBed,
		PriceInfant:        o.PriceInfant,
		DiscountAdult:      o.DiscountAdult,
		DiscountSingle:     o.DiscountSingle,
		DiscountChildBed:   o.DiscountChildBed,
		DiscountChildNoBed: o.DiscountChildNoBed,
		NetPriceAdult:      o.NetPriceAdult,
		NetPriceSingle:     o.NetPriceSingle,
	}
}
