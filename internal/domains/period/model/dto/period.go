package dto

import (
	"fmt"
	"strings"

	"tourdesk/internal/domains/period/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/google/uuid"
)

type CreatePeriodRequest struct {
	TourID     string `json:"tour_id"     validate:"required,uuid"`
	StartDate  string `json:"start_date"  validate:"required,date"`
	EndDate    string `json:"end_date"    validate:"omitempty,date"`
	Capacity   int    `json:"capacity"    validate:"required,min=1"`
	SaleStatus string `json:"sale_status" validate:"omitempty,oneof=available booking sold_out closed"`
	IsVisible  *bool  `json:"is_visible"`
}

// ToModel derives end_date from the tour duration when the operator left it empty.
func (c *CreatePeriodRequest) ToModel(actor string, durationDays int) (model.Period, error) {
	start, err := timezone.ParseDate(c.StartDate)
	if err != nil {
		return model.Period{}, fmt.Errorf("invalid start_date: %w", err)
	}

	end := model.DefaultEndDate(start, durationDays)

	if c.EndDate != "" {
		end, err = timezone.ParseDate(c.EndDate)
		if err != nil {
			return model.Period{}, fmt.Errorf("invalid end_date: %w", err)
		}
	}

	status := c.SaleStatus
	if status == "" {
		status = model.SaleStatusAvailable
	}

	visible := true
	if c.IsVisible != nil {
		visible = *c.IsVisible
	}

	return model.Period{
		ID:         uuid.NewString(),
		TourID:     c.TourID,
		StartDate:  start,
		EndDate:    end,
		Capacity:   c.Capacity,
		SaleStatus: status,
		IsVisible:  visible,
		Metadata:   gModel.NewMetadata(actor, timezone.Now()),
	}, nil
}

type UpdatePeriodRequest struct {
	StartDate  string `db:"start_date"  json:"start_date"  validate:"omitempty,date"`
	EndDate    string `db:"end_date"    json:"end_date"    validate:"omitempty,date"`
	Capacity   *int   `db:"capacity"    json:"capacity"    validate:"omitempty,min=1"`
	SaleStatus string `db:"sale_status" json:"sale_status" validate:"omitempty,oneof=available booking sold_out closed"`
	IsVisible  *bool  `db:"is_visible"  json:"is_visible"`
}

func (u UpdatePeriodRequest) IsEmpty() bool {
	return u == UpdatePeriodRequest{}
}

type PeriodResponse struct {
	ID         string         `json:"id"`
	TourID     string         `json:"tour_id"`
	TourCode   string         `json:"tour_code"`
	TourName   string         `json:"tour_name"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Capacity   int            `json:"capacity"`
	Booked     int            `json:"booked"`
	Available  int            `json:"available"`
	SaleStatus string         `json:"sale_status"`
	IsVisible  bool           `json:"is_visible"`
	ExternalID *string        `json:"external_id"`
	Offer      *OfferResponse `json:"offer,omitempty"`
	gDto.Metadata
}

func (r *PeriodResponse) FromModel(period model.Period) {
	r.ID = period.ID
	r.TourID = period.TourID
	r.TourCode = period.TourCode
	r.TourName = period.TourName
	r.StartDate = timezone.Format(period.StartDate, constant.DateOnlyFormat)
	r.EndDate = timezone.Format(period.EndDate, constant.DateOnlyFormat)
	r.Capacity = period.Capacity
	r.Booked = period.Booked
	r.Available = period.Available()
	r.SaleStatus = period.SaleStatus
	r.IsVisible = period.IsVisible
	r.ExternalID = period.ExternalID
	r.Metadata.FromModel(period.Metadata)
}

type GetPeriodsResponse struct {
	Periods   []PeriodResponse `json:"periods"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetPeriodsResponse) FromModels(models []model.Period, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Periods = make([]PeriodResponse, len(models))
	for i, mod := range models {
		r.Periods[i].FromModel(mod)
	}
}

// PeriodFilter are the list filters accepted on GET /v1/periods.
type PeriodFilter struct {
	TourID     string
	SaleStatus string
	IsVisible  *bool
	From       string
	To         string
}

func (f PeriodFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.TourID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldTourID, Operator: gDto.FilterOperatorEq, Value: f.TourID, Table: model.TableName})
	}

	if f.SaleStatus != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldSaleStatus, Operator: gDto.FilterOperatorEq, Value: strings.ToLower(f.SaleStatus), Table: model.TableName})
	}

	if f.IsVisible != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldIsVisible, Operator: gDto.FilterOperatorEq, Value: *f.IsVisible, Table: model.TableName})
	}

	if f.From != "" {
		filters = append(filters, gDto.Filter{ArgName: "start_from", Field: model.FieldStartDate, Operator: gDto.FilterOperatorGreaterEq, Value: f.From, Table: model.TableName})
	}

	if f.To != "" {
		filters = append(filters, gDto.Filter{ArgName: "start_to", Field: model.FieldStartDate, Operator: gDto.FilterOperatorLessEq, Value: f.To, Table: model.TableName})
	}

	return gDto.And(filters...)
}
