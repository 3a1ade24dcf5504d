package model

const (
	EventBulkUpdated  = "period.bulk_updated"
	EventOfferUpdated = "period.offer_updated"
	EventSynced       = "period.synced"
)

// BulkUpdatedEvent lets the promo quota owner react to bulk changes.
type BulkUpdatedEvent struct {
	PeriodIDs  []string `json:"period_ids"`
	Kind       BulkKind `json:"kind"`
	IsVisible  *bool    `json:"is_visible,omitempty"`
	SaleStatus *string  `json:"sale_status,omitempty"`
	Promo      *Promo   `json:"promo,omitempty"`
	Actor      string   `json:"actor"`
}

func (b BulkUpdate) Event(actor string) BulkUpdatedEvent {
	return BulkUpdatedEvent{
		PeriodIDs:  b.PeriodIDs,
		Kind:       b.Kind,
		IsVisible:  b.Visibility,
		SaleStatus: b.SaleStatus,
		Promo:      b.Promo,
		Actor:      actor,
	}
}

type PeriodEvent struct {
	PeriodID   string  `json:"period_id"`
	ExternalID *string `json:"external_id,omitempty"`
	Actor      string  `json:"actor"`
}
