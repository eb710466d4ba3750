package dto

import (
	"time"

	domainbooking "guesthub/internal/domain/booking"
)

type BookingView struct {
	ID            string            `json:"id"`
	RoomID        string            `json:"room_id"`
	CheckIn       time.Time         `json:"check_in"`
	CheckOut      time.Time         `json:"check_out"`
	PartySize     int               `json:"party_size"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Price         PriceBreakdownDTO `json:"price"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type BookingCollection struct {
	Items []BookingView `json:"items"`
}

func NewBookingView(b *domainbooking.Booking) BookingView {
	return BookingView{
		ID:            string(b.ID),
		RoomID:        string(b.RoomID),
		CheckIn:       b.Stay.Range.CheckIn,
		CheckOut:      b.Stay.Range.CheckOut,
		PartySize:     b.Stay.PartySize,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Price:         NewPriceBreakdown(b.Price),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func NewBookingCollection(bookings []*domainbooking.Booking) BookingCollection {
	items := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, NewBookingView(b))
	}
	return BookingCollection{Items: items}
}
