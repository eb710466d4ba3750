package channex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/pricing"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
)

func testBooking(t *testing.T) *booking.Booking {
	t.Helper()
	stay, err := booking.NewStay(
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC),
		2,
	)
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:      "booking-1",
		GuestID: "guest-1",
		RoomID:  rooms.RoomID("101"),
		Stay:    stay,
		Price: pricing.PriceBreakdown{
			Nights:       3,
			RoomSubtotal: money.Must(600, "USD"),
			Total:        money.Must(770, "USD"),
		},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return b
}

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		APIURL:     url,
		APIKey:     "test-key",
		PropertyID: "prop-1",
		RatePlanID: "rate-1",
		RoomTypes:  map[rooms.RoomType]string{rooms.TypeStandard: "rt-standard"},
	}, nil)
	require.NoError(t, err)
	c.http.RetryMax = 0
	return c
}

func TestCreateBookingSendsEnvelope(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("user-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"chx-42","attributes":{"total":"770.00","currency":"USD"}}}`))
	}))
	defer srv.Close()

	res, err := testClient(t, srv.URL).CreateBooking(context.Background(), CreateBookingParams{
		Booking:  testBooking(t),
		RoomType: rooms.TypeStandard,
		Customer: Customer{Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", Phone: "+94777123456", Country: "GB"},
	})
	require.NoError(t, err)
	assert.Equal(t, "chx-42", res.ID)

	env, ok := captured["booking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "prop-1", env["property_id"])
	assert.Equal(t, "2023-06-01", env["arrival_date"])
	assert.Equal(t, "2023-06-04", env["departure_date"])

	room := env["rooms"].([]any)[0].(map[string]any)
	assert.Equal(t, "rt-standard", room["room_type_id"])
	assert.Equal(t, "rate-1", room["rate_plan_id"])
	days := room["days"].(map[string]any)
	require.Len(t, days, 3)
	assert.InDelta(t, 200.0, days["2023-06-02"], 0.001)
}

func TestCreateBookingUnmappedRoomType(t *testing.T) {
	c := testClient(t, "http://unused.invalid")
	_, err := c.CreateBooking(context.Background(), CreateBookingParams{
		Booking:  testBooking(t),
		RoomType: rooms.TypeSuite,
	})
	assert.ErrorIs(t, err, ErrRoomNotMapped)
}

func TestCreateBookingValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"details":{"rooms":["invalid room"]}}}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).CreateBooking(context.Background(), CreateBookingParams{
		Booking:  testBooking(t),
		RoomType: rooms.TypeStandard,
	})
	require.ErrorIs(t, err, ErrInvalidBooking)
	assert.Contains(t, err.Error(), "rooms")
}

func TestCreateBookingServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).CreateBooking(context.Background(), CreateBookingParams{
		Booking:  testBooking(t),
		RoomType: rooms.TypeStandard,
	})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCancelBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bookings/chx-42", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"chx-42"}}`))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).CancelBooking(context.Background(), "chx-42")
	assert.NoError(t, err)
}
