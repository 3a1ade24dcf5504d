package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tourdesk/internal/domains/period/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

var ErrPromoUsedExceedsQuota = errors.New("promo_used cannot exceed promo_quota")

// UpsertOfferRequest mirrors the offer form: every number arrives as a string
// and a blank string clears the field.
type UpsertOfferRequest struct {
	PriceAdult      string `json:"price_adult"       validate:"amount"`
	PriceSingle     string `json:"price_single"      validate:"amount"`
	PriceChildBed   string `json:"price_child_bed"   validate:"amount"`
	PriceChildNoBed string `json:"price_child_nobed" validate:"amount"`
	PriceInfant     string `json:"price_infant"      validate:"amount"`

	DiscountAdult      string `json:"discount_adult"       validate:"amount"`
	DiscountSingle     string `json:"discount_single"      validate:"amount"`
	DiscountChildBed   string `json:"discount_child_bed"   validate:"amount"`
	DiscountChildNoBed string `json:"discount_child_nobed" validate:"amount"`

	NetPriceAdult  string `json:"net_price_adult"  validate:"amount"`
	NetPriceSingle string `json:"net_price_single" validate:"amount"`

	Deposit string `json:"deposit" validate:"amount"`

	PromoName      string `json:"promo_name"       validate:"omitempty,max=100"`
	PromoStartDate string `json:"promo_start_date" validate:"date"`
	PromoEndDate   string `json:"promo_end_date"   validate:"date"`
	PromoQuota     string `json:"promo_quota"      validate:"amount"`
	PromoUsed      string `json:"promo_used"       validate:"amount"`

	CancellationPolicy string `json:"cancellation_policy" validate:"omitempty,max=5000"`
}

type numberField struct {
	name   string
	value  string
	target **float64
}

func optionalDate(name, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil //nolint:nilnil
	}

	date, err := timezone.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	return &date, nil
}

// ToModel parses the form into an offer owned by periodID.
func (u *UpsertOfferRequest) ToModel(periodID, actor string) (model.Offer, error) {
	offer := model.Offer{
		PeriodID:           periodID,
		CancellationPolicy: strings.TrimSpace(u.CancellationPolicy),
		Metadata:           gModel.NewMetadata(actor, timezone.Now()),
	}

	fields := []numberField{
		{"price_adult", u.PriceAdult, &offer.PriceAdult},
		{"price_single", u.PriceSingle, &offer.PriceSingle},
		{"price_child_bed", u.PriceChildBed, &offer.PriceChildBed},
		{"price_child_nobed", u.PriceChildNoBed, &offer.PriceChildNoBed},
		{"price_infant", u.PriceInfant, &offer.PriceInfant},
		{"discount_adult", u.DiscountAdult, &offer.DiscountAdult},
		{"discount_single", u.DiscountSingle, &offer.DiscountSingle},
		{"discount_child_bed", u.DiscountChildBed, &offer.DiscountChildBed},
		{"discount_child_nobed", u.DiscountChildNoBed, &offer.DiscountChildNoBed},
		{"net_price_adult", u.NetPriceAdult, &offer.NetPriceAdult},
		{"net_price_single", u.NetPriceSingle, &offer.NetPriceSingle},
		{"deposit", u.Deposit, &offer.Deposit},
	}

	for _, field := range fields {
		parsed, err := shared.ParseOptionalFloat(field.value)
		if err != nil {
			return offer, fmt.Errorf("invalid %s: %w", field.name, err)
		}

		*field.target = parsed
	}

	if name := strings.TrimSpace(u.PromoName); name != "" {
		offer.PromoName = &name
	}

	var err error

	if offer.PromoStartDate, err = optionalDate("promo_start_date", u.PromoStartDate); err != nil {
		return offer, err
	}

	if offer.PromoEndDate, err = optionalDate("promo_end_date", u.PromoEndDate); err != nil {
		return offer, err
	}

	if offer.PromoStartDate != nil && offer.PromoEndDate != nil && offer.PromoEndDate.Before(*offer.PromoStartDate) {
		return offer, model.ErrPromoWindow
	}

	if offer.PromoQuota, err = shared.ParseOptionalInt(u.PromoQuota); err != nil {
		return offer, fmt.Errorf("invalid promo_quota: %w", err)
	}

	used, err := shared.ParseOptionalInt(u.PromoUsed)
	if err != nil {
		return offer, fmt.Errorf("invalid promo_used: %w", err)
	}

	if used != nil {
		offer.PromoUsed = *used
	}

	if offer.PromoQuota != nil && offer.PromoUsed > *offer.PromoQuota {
		return offer, ErrPromoUsedExceedsQuota
	}

	return offer, nil
}

type OfferResponse struct {
	PeriodID string `json:"period_id"`

	PriceAdult      *float64 `json:"price_adult"`
	PriceSingle     *float64 `json:"price_single"`
	PriceChildBed   *float64 `json:"price_child_bed"`
	PriceChildNoBed *float64 `json:"price_child_nobed"`
	PriceInfant     *float64 `json:"price_infant"`

	DiscountAdult      *float64 `json:"discount_adult"`
	DiscountSingle     *float64 `json:"discount_single"`
	DiscountChildBed   *float64 `json:"discount_child_bed"`
	DiscountChildNoBed *float64 `json:"discount_child_nobed"`

	NetPriceAdult  *float64 `json:"net_price_adult"`
	NetPriceSingle *float64 `json:"net_price_single"`

	Deposit *float64 `json:"deposit"`

	PromoName      *string `json:"promo_name"`
	PromoStartDate *string `json:"promo_start_date"`
	PromoEndDate   *string `json:"promo_end_date"`
	PromoQuota     *int    `json:"promo_quota"`
	PromoUsed      int     `json:"promo_used"`
	PromoActive    bool    `json:"promo_active"`

	CancellationPolicy string `json:"cancellation_policy"`
}

func formatOptionalDate(date *time.Time) *string {
	if date == nil {
		return nil
	}

	formatted := timezone.Format(*date, constant.DateOnlyFormat)

	return &formatted
}

func (r *OfferResponse) FromModel(offer model.Offer) {
	r.PeriodID = offer.PeriodID
	r.PriceAdult = offer.PriceAdult
	r.PriceSingle = offer.PriceSingle
	r.PriceChildBed = offer.PriceChildBed
	r.PriceChildNoBed = offer.PriceChildNoBed
	r.PriceInfant = offer.PriceInfant
	r.DiscountAdult = offer.DiscountAdult
	r.DiscountSingle = offer.DiscountSingle
	r.DiscountChildBed = offer.DiscountChildBed
	r.DiscountChildNoBed = offer.DiscountChildNoBed
	r.NetPriceAdult = offer.NetPriceAdult
	r.NetPriceSingle = offer.NetPriceSingle
	r.Deposit = offer.Deposit
	r.PromoName = offer.PromoName
	r.PromoStartDate = formatOptionalDate(offer.PromoStartDate)
	r.PromoEndDate = formatOptionalDate(offer.PromoEndDate)
	r.PromoQuota = offer.PromoQuota
	r.PromoUsed = offer.PromoUsed
	r.PromoActive = offer.PromoActive(timezone.Today())
	r.CancellationPolicy = offer.CancellationPolicy
}
