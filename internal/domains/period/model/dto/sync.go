package dto

// SyncPeriodRequest is one period pushed by the wholesaler sync engine.
// Periods are matched on external_id and tours on their code.
type SyncPeriodRequest struct {
	ExternalID string              `json:"external_id" validate:"required,max=100"`
	TourCode   string              `json:"tour_code"   validate:"required"`
	StartDate  string              `json:"start_date"  validate:"required,date"`
	EndDate    string              `json:"end_date"    validate:"omitempty,date"`
	Capacity   int                 `json:"capacity"    validate:"required,min=1"`
	SaleStatus string              `json:"sale_status" validate:"omitempty,oneof=available booking sold_out closed"`
	IsVisible  *bool               `json:"is_visible"`
	Offer      *UpsertOfferRequest `json:"offer"       validate:"omitempty"`
}

func (s *SyncPeriodRequest) CreateRequest(tourID string) CreatePeriodRequest {
	return CreatePeriodRequest{
		TourID:     tourID,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		Capacity:   s.Capacity,
		SaleStatus: s.SaleStatus,
		IsVisible:  s.IsVisible,
	}
}
