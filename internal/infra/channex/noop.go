package channex

import "context"

// Disabled is the channel manager used when no Channex credentials are
// configured. Bookings proceed locally and never get a remote reservation
// id, so cancellations skip the remote call too.
type Disabled struct{}

func (Disabled) CreateBooking(_ context.Context, _ CreateBookingParams) (*Reservation, error) {
	return &Reservation{}, nil
}

func (Disabled) CancelBooking(_ context.Context, _ string) error {
	return nil
}
