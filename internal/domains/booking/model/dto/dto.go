package dto

import (
	"strings"

	"tourdesk/internal/domains/booking/model"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/google/uuid"
)

// BookingRequest is the payload of both the create and the edit form.
// Unit prices are optional: when set they override the resolved offer price.
type BookingRequest struct {
	TourID    string `json:"tour_id"    validate:"required,uuid"`
	PeriodID  string `json:"period_id"  validate:"required,uuid"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=150"`
	Phone     string `json:"phone"      validate:"required,max=30"`

	QtyAdult       int `json:"qty_adult"        validate:"min=1"`
	QtyAdultSingle int `json:"qty_adult_single" validate:"min=0"`
	QtyChildBed    int `json:"qty_child_bed"    validate:"min=0"`
	QtyChildNoBed  int `json:"qty_child_nobed"  validate:"min=0"`
	QtyInfant      int `json:"qty_infant"       validate:"min=0"`
	QtyTriple      int `json:"qty_triple"       validate:"min=0"`
	QtyTwin        int `json:"qty_twin"         validate:"min=0"`
	QtyDouble      int `json:"qty_double"       validate:"min=0"`

	PriceAdult      *float64 `json:"price_adult"       validate:"omitempty,gte=0"`
	PriceSingle     *float64 `json:"price_single"      validate:"omitempty,gte=0"`
	PriceChildBed   *float64 `json:"price_child_bed"   validate:"omitempty,gte=0"`
	PriceChildNoBed *float64 `json:"price_child_nobed" validate:"omitempty,gte=0"`
	PriceInfant     *float64 `json:"price_infant"      validate:"omitempty,gte=0"`
	TotalAmount     *float64 `json:"total_amount"      validate:"omitempty,gte=0"`

	SaleCode       string `json:"sale_code"       validate:"omitempty,max=50"`
	SpecialRequest string `json:"special_request" validate:"omitempty,max=2000"`
	AdminNote      string `json:"admin_note"      validate:"omitempty,max=2000"`
	Status         string `json:"status"          validate:"omitempty,oneof=pending confirmed completed cancelled"`
}

func (b *BookingRequest) Quantities() pricing.Quantities {
	return pricing.Quantities{
		QtyAdult:       b.QtyAdult,
		QtyAdultSingle: b.QtyAdultSingle,
		QtyChildBed:    b.QtyChildBed,
		QtyChildNoBed:  b.QtyChildNoBed,
		QtyInfant:      b.QtyInfant,
		QtyTriple:      b.QtyTriple,
		QtyTwin:        b.QtyTwin,
		QtyDouble:      b.QtyDouble,
	}
}

// ApplyOverrides replaces resolved prices with the ones the operator typed in.
func (b *BookingRequest) ApplyOverrides(prices pricing.Prices) pricing.Prices {
	overrides := []struct {
		value  *float64
		target *float64
	}{
		{b.PriceAdult, &prices.Adult},
		{b.PriceSingle, &prices.Single},
		{b.PriceChildBed, &prices.ChildBed},
		{b.PriceChildNoBed, &prices.ChildNoBed},
		{b.PriceInfant, &prices.Infant},
	}

	for _, override := range overrides {
		if override.value != nil {
			*override.target = *override.value
		}
	}

	return prices
}

// ToModel snapshots the priced booking. id is empty for new bookings.
func (b *BookingRequest) ToModel(id, actor string, prices pricing.Prices, result pricing.Result) model.Booking {
	if id == constant.Empty {
		id = uuid.NewString()
	}

	status := b.Status
	if status == constant.Empty {
		status = model.StatusPending
	}

	return model.Booking{
		ID:              id,
		TourID:          b.TourID,
		PeriodID:        b.PeriodID,
		FirstName:       strings.TrimSpace(b.FirstName),
		LastName:        strings.TrimSpace(b.LastName),
		Email:           strings.ToLower(strings.TrimSpace(b.Email)),
		Phone:           strings.TrimSpace(b.Phone),
		QtyAdult:        b.QtyAdult,
		QtyAdultSingle:  b.QtyAdultSingle,
		QtyChildBed:     b.QtyChildBed,
		QtyChildNoBed:   b.QtyChildNoBed,
		QtyInfant:       b.QtyInfant,
		QtyTriple:       b.QtyTriple,
		QtyTwin:         b.QtyTwin,
		QtyDouble:       b.QtyDouble,
		PriceAdult:      prices.Adult,
		PriceSingle:     prices.Single,
		PriceChildBed:   prices.ChildBed,
		PriceChildNoBed: prices.ChildNoBed,
		PriceInfant:     prices.Infant,
		TotalAmount:     result.TotalAmount,
		SaleCode:        strings.TrimSpace(b.SaleCode),
		SpecialRequest:  b.SpecialRequest,
		AdminNote:       b.AdminNote,
		Status:          status,
		Metadata:        gModel.NewMetadata(actor, timezone.Now()),
	}
}

// UpdateFields are the columns an edit rewrites; creation stamps stay.
func UpdateFields(booking model.Booking) map[string]any {
	return map[string]any{
		"tour_id":           booking.TourID,
		"period_id":         booking.PeriodID,
		"first_name":        booking.FirstName,
		"last_name":         booking.LastName,
		"email":             booking.Email,
		"phone":             booking.Phone,
		"qty_adult":         booking.QtyAdult,
		"qty_adult_single":  booking.QtyAdultSingle,
		"qty_child_bed":     booking.QtyChildBed,
		"qty_child_nobed":   booking.QtyChildNoBed,
		"qty_infant":        booking.QtyInfant,
		"qty_triple":        booking.QtyTriple,
		"qty_twin":          booking.QtyTwin,
		"qty_double":        booking.QtyDouble,
		"price_adult":       booking.PriceAdult,
		"price_single":      booking.PriceSingle,
		"price_child_bed":   booking.PriceChildBed,
		"price_child_nobed": booking.PriceChildNoBed,
		"price_infant":      booking.PriceInfant,
		"total_amount":      booking.TotalAmount,
		"sale_code":         booking.SaleCode,
		"special_request":   booking.SpecialRequest,
		"admin_note":        booking.AdminNote,
		"status":            booking.Status,
		"modified_at":       booking.ModifiedAt,
		"modified_by":       booking.ModifiedBy,
	}
}

type BookingResponse struct {
	ID              string  `json:"id"`
	TourID          string  `json:"tour_id"`
	TourCode        string  `json:"tour_code"`
	TourName        string  `json:"tour_name"`
	PeriodID        string  `json:"period_id"`
	PeriodStartDate *string `json:"period_start_date"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`

	pricing.Quantities
	Prices          pricing.Prices `json:"prices"`
	TotalAmount     float64        `json:"total_amount"`
	TotalPassengers int            `json:"total_passengers"`
	TotalRooms      int            `json:"total_rooms"`

	SaleCode       string `json:"sale_code"`
	SpecialRequest string `json:"special_request"`
	AdminNote      string `json:"admin_note"`
	Status         string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.TourID = booking.TourID
	r.TourCode = booking.TourCode
	r.TourName = booking.TourName
	r.PeriodID = booking.PeriodID
	r.FirstName = booking.FirstName
	r.LastName = booking.LastName
	r.Email = booking.Email
	r.Phone = booking.Phone
	r.Quantities = booking.Quantities()
	r.Prices = pricing.Prices{
		Adult:      booking.PriceAdult,
		Single:     booking.PriceSingle,
		ChildBed:   booking.PriceChildBed,
		ChildNoBed: booking.PriceChildNoBed,
		Infant:     booking.PriceInfant,
	}
	r.TotalAmount = booking.TotalAmount
	r.SaleCode = booking.SaleCode
	r.SpecialRequest = booking.SpecialRequest
	r.AdminNote = booking.AdminNote
	r.Status = booking.Status
	r.Metadata.FromModel(booking.Metadata)

	result := pricing.Compute(r.Quantities, r.Prices)
	r.TotalPassengers = result.TotalPassengers
	r.TotalRooms = result.TotalRooms

	if booking.PeriodStartDate != nil {
		start := timezone.Format(*booking.PeriodStartDate, constant.DateOnlyFormat)
		r.PeriodStartDate = &start
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingFilter are the list filters accepted on GET /v1/bookings.
type BookingFilter struct {
	TourID   string
	PeriodID string
	Status   string
	Search   string
}

func (f BookingFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.TourID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldTourID, Operator: gDto.FilterOperatorEq, Value: f.TourID, Table: model.TableName})
	}

	if f.PeriodID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldPeriodID, Operator: gDto.FilterOperatorEq, Value: f.PeriodID, Table: model.TableName})
	}

	if f.Status != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: f.Status, Table: model.TableName})
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		filters = append(filters, gDto.Or(
			gDto.Filter{ArgName: "search_first_name", Field: model.FieldFirstName, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			gDto.Filter{ArgName: "search_last_name", Field: model.FieldLastName, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			gDto.Filter{ArgName: "search_email", Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
		))
	}

	return gDto.And(filters...)
}
