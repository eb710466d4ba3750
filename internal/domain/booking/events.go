package booking

import (
	"time"

	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
)

type Created struct {
	BookingID BookingID
	RoomID    rooms.RoomID
	GuestID   string
	Stay      Stay
	Total     money.Money
	At        time.Time
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return string(e.BookingID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	BookingID BookingID
	RoomID    rooms.RoomID
	Stay      Stay
	At        time.Time
}

func (e Confirmed) EventName() string     { return "booking.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.BookingID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID BookingID
	RoomID    rooms.RoomID
	Reason    string
	At        time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type Paid struct {
	BookingID BookingID
	OrderID   string
	PaymentID string
	Amount    money.Money
	At        time.Time
}

func (e Paid) EventName() string     { return "booking.paid" }
func (e Paid) AggregateID() string   { return string(e.BookingID) }
func (e Paid) OccurredAt() time.Time { return e.At }

type Refunded struct {
	BookingID BookingID
	OrderID   string
	At        time.Time
}

func (e Refunded) EventName() string     { return "booking.refunded" }
func (e Refunded) AggregateID() string   { return string(e.BookingID) }
func (e Refunded) OccurredAt() time.Time { return e.At }
