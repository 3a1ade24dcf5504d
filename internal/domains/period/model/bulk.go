package model

import (
	"errors"
	"slices"
	"time"

	"tourdesk/shared"
)

type BulkKind string

const (
	BulkKindVisibility BulkKind = "visibility"
	BulkKindSaleStatus BulkKind = "sale_status"
	BulkKindPromo      BulkKind = "promo"
)

var (
	ErrEmptySelection  = errors.New("at least one period must be selected")
	ErrBulkPayload     = errors.New("bulk update needs exactly one payload matching its kind")
	ErrUnknownBulkKind = errors.New("unknown bulk update kind")
	ErrSaleStatus      = errors.New("unknown sale status")
	ErrPromoWindow     = errors.New("promo end date is before its start date")
)

// Promo is the campaign written to every selected offer by a promo bulk update.
type Promo struct {
	Name      string    `json:"promo_name"`
	StartDate time.Time `json:"promo_start_date"`
	EndDate   time.Time `json:"promo_end_date"`
	Quota     int       `json:"promo_quota"`
}

// BulkUpdate applies one change to many periods at once.
type BulkUpdate struct {
	PeriodIDs  []string
	Kind       BulkKind
	Visibility *bool
	SaleStatus *string
	Promo      *Promo
}

// Normalize removes blank and repeated ids.
func (b BulkUpdate) Normalize() BulkUpdate {
	b.PeriodIDs = shared.UniqueStrings(b.PeriodIDs)

	return b
}

func (b BulkUpdate) Validate() error {
	if len(b.PeriodIDs) == 0 {
		return ErrEmptySelection
	}

	payloads := 0

	for _, set := range []bool{b.Visibility != nil, b.SaleStatus != nil, b.Promo != nil} {
		if set {
			payloads++
		}
	}

	if payloads != 1 {
		return ErrBulkPayload
	}

	switch b.Kind {
	case BulkKindVisibility:
		if b.Visibility == nil {
			return ErrBulkPayload
		}
	case BulkKindSaleStatus:
		if b.SaleStatus == nil {
			return ErrBulkPayload
		}

		if !slices.Contains(SaleStatuses, *b.SaleStatus) {
			return ErrSaleStatus
		}
	case BulkKindPromo:
		if b.Promo == nil {
			return ErrBulkPayload
		}

		if b.Promo.EndDate.Before(b.Promo.StartDate) {
			return ErrPromoWindow
		}
	default:
		return ErrUnknownBulkKind
	}

	return nil
}

// Fields are the period columns a visibility or sale status update writes.
func (b BulkUpdate) Fields() map[string]any {
	switch b.Kind {
	case BulkKindVisibility:
		return map[string]any{FieldIsVisible: *b.Visibility}
	case BulkKindSaleStatus:
		return map[string]any{FieldSaleStatus: *b.SaleStatus}
	default:
		return map[string]any{}
	}
}
