package complaints

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "guesthub/internal/domain/booking"
	"guesthub/internal/domain/complaint"
	"guesthub/internal/infra/storage/memory"
)

type fixture struct {
	svc      *Service
	bookings *memory.BookingRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	bookings := memory.NewBookingRepository()
	return fixture{
		svc: &Service{
			Complaints: memory.NewComplaintRepository(),
			Bookings:   bookings,
			Now:        func() time.Time { return time.Date(2023, 6, 10, 9, 0, 0, 0, time.UTC) },
		},
		bookings: bookings,
	}
}

func seedBooking(t *testing.T, repo *memory.BookingRepository, id, guestID string, createdAt time.Time) {
	t.Helper()
	err := repo.Save(context.Background(), &domainbooking.Booking{
		ID:        domainbooking.BookingID(id),
		GuestID:   guestID,
		Status:    domainbooking.StatusConfirmed,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestFilePinsComplaintToLatestBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedBooking(t, f.bookings, "b-old", "g-1", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	seedBooking(t, f.bookings, "b-new", "g-1", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	c, err := f.svc.File(ctx, FileParams{
		GuestID:     "g-1",
		Title:       "  Noisy air conditioner  ",
		Description: "The unit in the room rattles all night.",
	})
	require.NoError(t, err)
	assert.Equal(t, "b-new", c.BookingID)
	assert.Equal(t, "Noisy air conditioner", c.Title)
	assert.Equal(t, complaint.StatusPending, c.Status)

	list, err := f.svc.ListForGuest(ctx, "g-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestFileRequiresABooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.File(context.Background(), FileParams{
		GuestID:     "g-1",
		Title:       "No towels",
		Description: "Housekeeping never came.",
	})
	assert.ErrorIs(t, err, ErrNoBooking)
}

func TestFileValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedBooking(t, f.bookings, "b-1", "g-1", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.File(ctx, FileParams{GuestID: "g-1", Title: "   ", Description: "something"})
	assert.ErrorIs(t, err, complaint.ErrTitleRequired)

	_, err = f.svc.File(ctx, FileParams{GuestID: "g-1", Title: "Broken shower", Description: ""})
	assert.ErrorIs(t, err, complaint.ErrDescriptionRequired)

	_, err = f.svc.File(ctx, FileParams{GuestID: "g-1", Title: strings.Repeat("x", 101), Description: "too long"})
	assert.ErrorIs(t, err, complaint.ErrTitleTooLong)
}
