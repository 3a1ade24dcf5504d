package model

import (
	"errors"
	"time"

	"tourdesk/shared/model"
)

const (
	TableName  = "periods"
	EntityName = "period"

	FieldID         = "id"
	FieldTourID     = "tour_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldCapacity   = "capacity"
	FieldBooked     = "booked"
	FieldSaleStatus = "sale_status"
	FieldIsVisible  = "is_visible"
	FieldExternalID = "external_id"
)

const (
	SaleStatusAvailable = "available"
	SaleStatusBooking   = "booking"
	SaleStatusSoldOut   = "sold_out"
	SaleStatusClosed    = "closed"
)

var SaleStatuses = []string{SaleStatusAvailable, SaleStatusBooking, SaleStatusSoldOut, SaleStatusClosed}

var (
	ErrInsufficientSeats = errors.New("not enough seats left on period")
	ErrNegativeBooked    = errors.New("booked seats cannot go below zero")
	ErrCapacityBelowSold = errors.New("capacity cannot be lower than booked seats")
)

type Period struct {
	ID         string    `db:"id"`
	TourID     string    `db:"tour_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Capacity   int       `db:"capacity"`
	Booked     int       `db:"booked"`
	SaleStatus string    `db:"sale_status"`
	IsVisible  bool      `db:"is_visible"`
	ExternalID *string   `db:"external_id"`
	TourCode   string    `column:"code" db:"tour_code" table:"tours"`
	TourName   string    `column:"name" db:"tour_name" table:"tours"`
	model.Metadata
}

func (Period) GetJoinQuery() string {
	return "LEFT JOIN tours ON tours.id = periods.tour_id"
}

// Available never goes negative, even if capacity was lowered by hand.
func (p Period) Available() int {
	return max(p.Capacity-p.Booked, 0)
}

// SeatChange is the outcome of moving seats on a period.
type SeatChange struct {
	Booked     int
	SaleStatus string
}

// ApplySeats books delta seats (or releases them when negative). With
// autoSoldOut the sale status follows availability: running out of seats
// marks an open period sold out and freeing seats on a sold out period opens
// it again. A closed period stays closed.
func (p Period) ApplySeats(delta int, autoSoldOut bool) (SeatChange, error) {
	booked := p.Booked + delta

	switch {
	case booked < 0:
		return SeatChange{}, ErrNegativeBooked
	case delta > 0 && booked > p.Capacity:
		return SeatChange{}, ErrInsufficientSeats
	}

	status := p.SaleStatus

	if autoSoldOut {
		switch p.SaleStatus {
		case SaleStatusAvailable, SaleStatusBooking:
			if booked >= p.Capacity {
				status = SaleStatusSoldOut
			}
		case SaleStatusSoldOut:
			if booked < p.Capacity {
				status = SaleStatusAvailable
			}
		}
	}

	return SeatChange{Booked: booked, SaleStatus: status}, nil
}

// DefaultEndDate is the last travel day of a tour starting on start.
func DefaultEndDate(start time.Time, durationDays int) time.Time {
	if durationDays < 1 {
		return start
	}

	return start.AddDate(0, 0, durationDays-1)
}
