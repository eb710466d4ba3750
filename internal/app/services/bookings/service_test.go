package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/rooms"
	domainservices "guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/money"
	"guesthub/internal/infra/channex"
	"guesthub/internal/infra/storage/memory"
)

var testNow = time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

func date(day int) time.Time {
	return time.Date(2023, 6, day, 0, 0, 0, 0, time.UTC)
}

type stubChannel struct {
	created   []channex.CreateBookingParams
	cancelled []string
	createErr error
}

func (s *stubChannel) CreateBooking(ctx context.Context, params channex.CreateBookingParams) (*channex.Reservation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, params)
	return &channex.Reservation{ID: "chx-1"}, nil
}

func (s *stubChannel) CancelBooking(ctx context.Context, channexID string) error {
	s.cancelled = append(s.cancelled, channexID)
	return nil
}

type fixture struct {
	svc     *Service
	channel *stubChannel
	outbox  *memory.Outbox
	rooms   *memory.RoomRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	guests := memory.NewGuestRepository()
	g, err := guest.New(guest.CreateParams{
		ID:           "g-1",
		Email:        "jane@example.com",
		FullName:     "Jane Doe",
		Phone:        "+123",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	require.NoError(t, guests.Save(context.Background(), g))

	roomRepo := memory.NewRoomRepository(
		&rooms.Room{ID: "r-1", Name: "Standard", Type: rooms.TypeStandard, NightlyRate: money.Must(200, "USD"), Capacity: 2},
	)
	catalog := memory.NewServiceRepository(
		&domainservices.Service{ID: "spa", Name: "Spa", Price: money.Must(50, "USD")},
	)
	channel := &stubChannel{}
	box := memory.NewOutbox()
	svc := &Service{
		Bookings:    memory.NewBookingRepository(),
		Rooms:       roomRepo,
		Guests:      guests,
		Services:    catalog,
		Channel:     channel,
		Outbox:      box,
		Idempotency: memory.NewIdempotencyStore(),
		Now:         func() time.Time { return testNow },
	}
	return fixture{svc: svc, channel: channel, outbox: box, rooms: roomRepo}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateParams{
		GuestID:   "g-1",
		RoomID:    "r-1",
		CheckIn:   date(10),
		CheckOut:  date(13),
		PartySize: 2,
		Services:  []ServiceChoice{{ServiceID: "spa", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, booking.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, "chx-1", b.ChannexID)
	assert.Equal(t, int64(770), b.Price.Total.Amount)

	require.Len(t, f.channel.created, 1)
	pushed := f.channel.created[0]
	assert.Equal(t, rooms.TypeStandard, pushed.RoomType)
	assert.Equal(t, "Jane", pushed.Customer.Name)
	assert.Equal(t, "Doe", pushed.Customer.Surname)

	stored, err := f.svc.ByID(ctx, "g-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, stored.ID)

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.created", records[0].Name)
}

func TestCreateRejectsTakenRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(12), CheckOut: date(14), PartySize: 2})
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestCreateAllowsBackToBackStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(13), CheckOut: date(15), PartySize: 2})
	assert.NoError(t, err)
}

func TestCreateIdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := CreateParams{
		GuestID: "g-1", RoomID: "r-1",
		CheckIn: date(10), CheckOut: date(13), PartySize: 2,
		IdempotencyKey: "retry-1",
	}

	first, err := f.svc.Create(ctx, params)
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.channel.created, 1, "replay must not push a second reservation")
}

func TestCreateAbortsOnChannelFailure(t *testing.T) {
	f := newFixture(t)
	f.channel.createErr = errors.New("boom")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.Error(t, err)

	list, err := f.svc.ListForGuest(ctx, "g-1")
	require.NoError(t, err)
	assert.Empty(t, list, "failed push must not leave a local booking")
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, CancelParams{GuestID: "g-1", BookingID: b.ID, Reason: "plans changed"})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	assert.Equal(t, []string{"chx-1"}, f.channel.cancelled)

	// Cancelled bookings free the room.
	_, err = f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(11), CheckOut: date(12), PartySize: 2})
	assert.NoError(t, err)
}

func TestOwnershipIsEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateParams{GuestID: "g-1", RoomID: "r-1", CheckIn: date(10), CheckOut: date(13), PartySize: 2})
	require.NoError(t, err)

	_, err = f.svc.ByID(ctx, "g-2", b.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.Cancel(ctx, CancelParams{GuestID: "g-2", BookingID: b.ID})
	assert.ErrorIs(t, err, ErrNotOwner)
}
