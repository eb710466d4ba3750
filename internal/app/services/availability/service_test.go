package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
	"guesthub/internal/infra/storage/memory"
)

var testNow = time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

func date(day int) time.Time {
	return time.Date(2023, 6, day, 0, 0, 0, 0, time.UTC)
}

func seedRooms() *memory.RoomRepository {
	return memory.NewRoomRepository(
		&rooms.Room{ID: "r-standard", Name: "Standard", Type: rooms.TypeStandard, NightlyRate: money.Must(100, "USD"), Capacity: 2},
		&rooms.Room{ID: "r-suite", Name: "Suite", Type: rooms.TypeSuite, NightlyRate: money.Must(300, "USD"), Capacity: 4},
	)
}

func seedBooking(t *testing.T, repo *memory.BookingRepository, roomID rooms.RoomID, from, to int, status booking.Status) {
	t.Helper()
	stay, err := booking.NewStay(date(from), date(to), 1)
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:        booking.BookingID("b-" + string(roomID)),
		GuestID:   "other-guest",
		RoomID:    roomID,
		Stay:      stay,
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	if status == booking.StatusCancelled {
		require.NoError(t, b.Cancel("test", testNow))
	}
	require.NoError(t, repo.Save(context.Background(), b))
}

func TestSearchReturnsOffersWithQuotes(t *testing.T) {
	svc := &Service{Rooms: seedRooms(), Bookings: memory.NewBookingRepository(), Now: func() time.Time { return testNow }}

	offers, err := svc.Search(context.Background(), SearchParams{CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, rooms.RoomID("r-standard"), offers[0].Room.ID)
	assert.Equal(t, 3, offers[0].Price.Nights)
	assert.Equal(t, int64(300), offers[0].Price.RoomSubtotal.Amount)
	assert.Equal(t, int64(30), offers[0].Price.Tax.Amount)
	assert.Equal(t, int64(330), offers[0].Price.Total.Amount)
}

func TestSearchExcludesOverlappingBooking(t *testing.T) {
	bookings := memory.NewBookingRepository()
	seedBooking(t, bookings, "r-standard", 11, 14, booking.StatusPending)
	svc := &Service{Rooms: seedRooms(), Bookings: bookings, Now: func() time.Time { return testNow }}

	offers, err := svc.Search(context.Background(), SearchParams{CheckIn: date(10), CheckOut: date(12), PartySize: 2})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, rooms.RoomID("r-suite"), offers[0].Room.ID)
}

func TestSearchIgnoresCancelledBooking(t *testing.T) {
	bookings := memory.NewBookingRepository()
	seedBooking(t, bookings, "r-standard", 11, 14, booking.StatusCancelled)
	svc := &Service{Rooms: seedRooms(), Bookings: bookings, Now: func() time.Time { return testNow }}

	offers, err := svc.Search(context.Background(), SearchParams{CheckIn: date(10), CheckOut: date(12), PartySize: 2})
	require.NoError(t, err)
	assert.Len(t, offers, 2)
}

func TestSearchFiltersByPartySize(t *testing.T) {
	svc := &Service{Rooms: seedRooms(), Bookings: memory.NewBookingRepository(), Now: func() time.Time { return testNow }}

	offers, err := svc.Search(context.Background(), SearchParams{CheckIn: date(10), CheckOut: date(12), PartySize: 3})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, rooms.RoomID("r-suite"), offers[0].Room.ID)
}

func TestSearchRejectsPastCheckIn(t *testing.T) {
	svc := &Service{Rooms: seedRooms(), Bookings: memory.NewBookingRepository(), Now: func() time.Time { return testNow }}

	_, err := svc.Search(context.Background(), SearchParams{CheckIn: date(10).AddDate(0, -1, 0), CheckOut: date(12), PartySize: 1})
	assert.ErrorIs(t, err, booking.ErrCheckInInPast)
}

func TestSearchRejectsInvertedRange(t *testing.T) {
	svc := &Service{Rooms: seedRooms(), Bookings: memory.NewBookingRepository(), Now: func() time.Time { return testNow }}

	_, err := svc.Search(context.Background(), SearchParams{CheckIn: date(12), CheckOut: date(10), PartySize: 1})
	assert.ErrorIs(t, err, booking.ErrInvalidStay)
}
