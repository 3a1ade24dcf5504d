package dto

import (
	"fmt"

	"tourdesk/internal/domains/period/model"
	"tourdesk/shared/timezone"
)

type BulkUpdateFields struct {
	IsVisible  *bool   `json:"is_visible"`
	SaleStatus *string `json:"sale_status" validate:"omitempty,oneof=available booking sold_out closed"`
}

type BulkUpdateRequest struct {
	PeriodIDs []string         `json:"period_ids" validate:"required,min=1,dive,uuid"`
	Updates   BulkUpdateFields `json:"updates"`
}

// ToModel picks the kind from whichever field is set. Setting both is left
// for model.BulkUpdate.Validate to reject.
func (b *BulkUpdateRequest) ToModel() model.BulkUpdate {
	update := model.BulkUpdate{
		PeriodIDs:  b.PeriodIDs,
		Visibility: b.Updates.IsVisible,
		SaleStatus: b.Updates.SaleStatus,
	}

	switch {
	case b.Updates.IsVisible != nil:
		update.Kind = model.BulkKindVisibility
	case b.Updates.SaleStatus != nil:
		update.Kind = model.BulkKindSaleStatus
	}

	return update
}

type BulkPromoRequest struct {
	PeriodIDs      []string `json:"period_ids"       validate:"required,min=1,dive,uuid"`
	PromoName      string   `json:"promo_name"       validate:"required,max=100"`
	PromoStartDate string   `json:"promo_start_date" validate:"required,date"`
	PromoEndDate   string   `json:"promo_end_date"   validate:"required,date"`
	PromoQuota     int      `json:"promo_quota"      validate:"min=0"`
}

func (b *BulkPromoRequest) ToModel() (model.BulkUpdate, error) {
	start, err := timezone.ParseDate(b.PromoStartDate)
	if err != nil {
		return model.BulkUpdate{}, fmt.Errorf("invalid promo_start_date: %w", err)
	}

	end, err := timezone.ParseDate(b.PromoEndDate)
	if err != nil {
		return model.BulkUpdate{}, fmt.Errorf("invalid promo_end_date: %w", err)
	}

	return model.BulkUpdate{
		PeriodIDs: b.PeriodIDs,
		Kind:      model.BulkKindPromo,
		Promo: &model.Promo{
			Name:      b.PromoName,
			StartDate: start,
			EndDate:   end,
			Quota:     b.PromoQuota,
		},
	}, nil
}

type BulkUpdateResponse struct {
	Kind    string `json:"kind"`
	Updated int    `json:"updated"`
}
