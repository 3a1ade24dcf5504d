package model

import (
	"time"

	"tourdesk/internal/pricing"
	"tourdesk/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldTourID    = "tour_id"
	FieldPeriodID  = "period_id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldStatus    = "status"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	EventCreated = "booking.created"
	EventUpdated = "booking.updated"
	EventDeleted = "booking.deleted"
)

// Booking stores the quantities and the unit prices quoted at submit time.
// It keeps no link to the offer it was priced from.
type Booking struct {
	ID        string `db:"id"`
	TourID    string `db:"tour_id"`
	PeriodID  string `db:"period_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`

	QtyAdult       int `db:"qty_adult"`
	QtyAdultSingle int `db:"qty_adult_single"`
	QtyChildBed    int `db:"qty_child_bed"`
	QtyChildNoBed  int `db:"qty_child_nobed"`
	QtyInfant      int `db:"qty_infant"`
	QtyTriple      int `db:"qty_triple"`
	QtyTwin        int `db:"qty_twin"`
	QtyDouble      int `db:"qty_double"`

	PriceAdult      float64 `db:"price_adult"`
	PriceSingle     float64 `db:"price_single"`
	PriceChildBed   float64 `db:"price_child_bed"`
	PriceChildNoBed float64 `db:"price_child_nobed"`
	PriceInfant     float64 `db:"price_infant"`
	TotalAmount     float64 `db:"total_amount"`

	SaleCode       string `db:"sale_code"`
	SpecialRequest string `db:"special_request"`
	AdminNote      string `db:"admin_note"`
	Status         string `db:"status"`

	TourCode        string     `column:"code"       db:"tour_code"         table:"tours"`
	TourName        string     `column:"name"       db:"tour_name"         table:"tours"`
	PeriodStartDate *time.Time `column:"start_date" db:"period_start_date" table:"periods"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN tours ON tours.id = bookings.tour_id LEFT JOIN periods ON periods.id = bookings.period_id"
}

func (b Booking) Quantities() pricing.Quantities {
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

// Seats is how many period seats the booking holds. Cancelled bookings hold
// none and infants never take a seat.
func (b Booking) Seats() int {
	if b.Status == StatusCancelled {
		return 0
	}

	return pricing.Compute(b.Quantities(), pricing.Prices{}).TotalPassengers
}

type Event struct {
	BookingID   string  `json:"booking_id"`
	TourID      string  `json:"tour_id"`
	PeriodID    string  `json:"period_id"`
	Status      string  `json:"status"`
	Seats       int     `json:"seats"`
	TotalAmount float64 `json:"total_amount"`
	Actor       string  `json:"actor"`
}

func (b Booking) Event(actor string) Event {
	return Event{
		BookingID:   b.ID,
		TourID:      b.TourID,
		PeriodID:    b.PeriodID,
		Status:      b.Status,
		Seats:       b.Seats(),
		TotalAmount: b.TotalAmount,
		Actor:       actor,
	}
}
