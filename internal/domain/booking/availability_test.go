package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, checkIn, checkOut time.Time, party int) Stay {
	t.Helper()
	s, err := NewStay(checkIn, checkOut, party)
	require.NoError(t, err)
	return s
}

func testRoom(id string, capacity int) *rooms.Room {
	return &rooms.Room{
		ID:          rooms.RoomID(id),
		Name:        "Room " + id,
		Type:        rooms.TypeStandard,
		NightlyRate: money.Must(200, "USD"),
		Capacity:    capacity,
	}
}

func bookingFor(t *testing.T, roomID string, checkIn, checkOut time.Time, status Status) *Booking {
	t.Helper()
	return &Booking{
		ID:     BookingID("b-" + roomID + checkIn.Format("20060102")),
		RoomID: rooms.RoomID(roomID),
		Stay:   mustStay(t, checkIn, checkOut, 2),
		Status: status,
	}
}

func TestFindAvailableRoomsRejectsInvalidStay(t *testing.T) {
	_, err := FindAvailableRooms(nil, nil, Stay{})
	require.ErrorIs(t, err, ErrInvalidStay)

	s := mustStay(t, date(2023, 6, 1), date(2023, 6, 4), 2)
	s.PartySize = 0
	_, err = FindAvailableRooms(nil, nil, s)
	require.ErrorIs(t, err, ErrInvalidStay)
}

func TestFindAvailableRoomsCapacityOnly(t *testing.T) {
	candidates := []*rooms.Room{testRoom("101", 1), testRoom("201", 2), testRoom("301", 4)}
	stay := mustStay(t, date(2023, 6, 1), date(2023, 6, 4), 2)

	// With no bookings, a room is included iff capacity covers the party.
	got, err := FindAvailableRooms(candidates, nil, stay)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rooms.RoomID("201"), got[0].ID)
	assert.Equal(t, rooms.RoomID("301"), got[1].ID)
}

func TestFindAvailableRoomsOverlapByStatus(t *testing.T) {
	candidates := []*rooms.Room{testRoom("101", 2)}
	stay := mustStay(t, date(2023, 6, 1), date(2023, 6, 4), 2)

	for _, status := range []Status{StatusPending, StatusConfirmed} {
		existing := []*Booking{bookingFor(t, "101", date(2023, 6, 2), date(2023, 6, 6), status)}
		got, err := FindAvailableRooms(candidates, existing, stay)
		require.NoError(t, err)
		assert.Empty(t, got, "status %s must block", status)
	}

	for _, status := range []Status{StatusCancelled, StatusCompleted} {
		existing := []*Booking{bookingFor(t, "101", date(2023, 6, 2), date(2023, 6, 6), status)}
		got, err := FindAvailableRooms(candidates, existing, stay)
		require.NoError(t, err)
		assert.Len(t, got, 1, "status %s must never block", status)
	}
}

func TestFindAvailableRoomsBackToBackTurnover(t *testing.T) {
	candidates := []*rooms.Room{testRoom("101", 2)}

	// Existing booking checks out on the new stay's check-in day.
	existing := []*Booking{bookingFor(t, "101", date(2023, 6, 1), date(2023, 6, 5), StatusConfirmed)}
	stay := mustStay(t, date(2023, 6, 5), date(2023, 6, 8), 2)

	got, err := FindAvailableRooms(candidates, existing, stay)
	require.NoError(t, err)
	assert.Len(t, got, 1, "same-day turnover must not exclude the room")

	// And the mirrored case: new stay ends where the existing one begins.
	stay = mustStay(t, date(2023, 5, 28), date(2023, 6, 1), 2)
	got, err = FindAvailableRooms(candidates, existing, stay)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindAvailableRoomsPreservesOrderAndInput(t *testing.T) {
	candidates := []*rooms.Room{testRoom("301", 4), testRoom("101", 2), testRoom("201", 3)}
	existing := []*Booking{bookingFor(t, "101", date(2023, 6, 2), date(2023, 6, 6), StatusPending)}
	stay := mustStay(t, date(2023, 6, 1), date(2023, 6, 4), 2)

	got, err := FindAvailableRooms(candidates, existing, stay)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rooms.RoomID("301"), got[0].ID)
	assert.Equal(t, rooms.RoomID("201"), got[1].ID)
	assert.Len(t, candidates, 3, "input slice must be untouched")
}

func TestFindAvailableRoomsIgnoresOtherRoomsBookings(t *testing.T) {
	candidates := []*rooms.Room{testRoom("101", 2)}
	existing := []*Booking{bookingFor(t, "999", date(2023, 6, 1), date(2023, 6, 10), StatusConfirmed)}
	stay := mustStay(t, date(2023, 6, 2), date(2023, 6, 4), 2)

	got, err := FindAvailableRooms(candidates, existing, stay)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
