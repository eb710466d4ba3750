// Package channex talks to the Channex channel-manager API, the external
// reservation system of record. Bookings created here show up in the hotel
// PMS and in OTA calendars.
package channex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/rooms"
)

var (
	ErrNotConfigured    = errors.New("channex: api url, key and property id are required")
	ErrRoomNotMapped    = errors.New("channex: no room type mapping for room")
	ErrInvalidBooking   = errors.New("channex: booking rejected by validation")
	ErrUnavailable      = errors.New("channex: service temporarily unavailable")
	ErrUnexpectedStatus = errors.New("channex: unexpected response status")
)

type Config struct {
	APIURL     string
	APIKey     string
	PropertyID string
	RatePlanID string
	// RoomTypes maps a stable room type to the Channex room_type_id
	// configured for the property.
	RoomTypes map[rooms.RoomType]string
	OTAName   string
	Currency  string
}

// Client is a thin wrapper over the Channex REST API with retry on
// transient failures.
type Client struct {
	cfg    Config
	http   *retryablehttp.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIURL == "" || cfg.APIKey == "" || cfg.PropertyID == "" {
		return nil, ErrNotConfigured
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.OTAName == "" {
		cfg.OTAName = "Booking.com"
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil
	// Hand back the final response after retries are exhausted so status
	// codes can still be mapped to typed errors.
	rc.ErrorHandler = func(resp *http.Response, err error, _ int) (*http.Response, error) {
		return resp, err
	}

	return &Client{cfg: cfg, http: rc, logger: logger}, nil
}

type CreateBookingParams struct {
	Booking  *booking.Booking
	RoomType rooms.RoomType
	Customer Customer
}

type Customer struct {
	Name    string
	Surname string
	Email   string
	Phone   string
	Country string
}

type Reservation struct {
	ID       string
	Total    string
	Currency string
}

type bookingEnvelope struct {
	Booking bookingPayload `json:"booking"`
}

type bookingPayload struct {
	PropertyID         string            `json:"property_id"`
	ArrivalDate        string            `json:"arrival_date"`
	DepartureDate      string            `json:"departure_date"`
	OTAReservationCode string            `json:"ota_reservation_code"`
	OTAName            string            `json:"ota_name"`
	Currency           string            `json:"currency"`
	Customer           customerPayload   `json:"customer"`
	Rooms              []roomPayload     `json:"rooms"`
	Guarantee          map[string]string `json:"guarantee"`
	Status             string            `json:"status"`
}

type customerPayload struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Mail    string `json:"mail"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

type roomPayload struct {
	RoomTypeID string             `json:"room_type_id"`
	RatePlanID string             `json:"rate_plan_id"`
	Days       map[string]float64 `json:"days"`
	Occupancy  occupancyPayload   `json:"occupancy"`
}

type occupancyPayload struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type apiResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Total    json.Number `json:"total"`
			Currency string      `json:"currency"`
		} `json:"attributes"`
	} `json:"data"`
	Errors struct {
		Details map[string]json.RawMessage `json:"details"`
	} `json:"errors"`
}

// CreateBooking pushes a new reservation and returns the Channex id the
// local booking must reference.
func (c *Client) CreateBooking(ctx context.Context, params CreateBookingParams) (*Reservation, error) {
	b := params.Booking
	roomTypeID, ok := c.cfg.RoomTypes[params.RoomType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotMapped, params.RoomType)
	}

	payload := bookingEnvelope{Booking: bookingPayload{
		PropertyID:         c.cfg.PropertyID,
		ArrivalDate:        b.Stay.Range.CheckIn.Format("2006-01-02"),
		DepartureDate:      b.Stay.Range.CheckOut.Format("2006-01-02"),
		OTAReservationCode: fmt.Sprintf("MOBILE-%s", b.ID),
		OTAName:            c.cfg.OTAName,
		Currency:           c.cfg.Currency,
		Customer: customerPayload{
			Name:    params.Customer.Name,
			Surname: params.Customer.Surname,
			Mail:    params.Customer.Email,
			Phone:   params.Customer.Phone,
			Country: params.Customer.Country,
		},
		Rooms: []roomPayload{{
			RoomTypeID: roomTypeID,
			RatePlanID: c.cfg.RatePlanID,
			Days:       perDayPrices(b),
			Occupancy:  occupancyPayload{Adults: b.Stay.PartySize},
		}},
		Guarantee: map[string]string{"guarantee_type": "credit_card"},
		Status:    "new",
	}}

	var out apiResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", payload, &out); err != nil {
		return nil, err
	}
	return &Reservation{
		ID:       out.Data.ID,
		Total:    out.Data.Attributes.Total.String(),
		Currency: out.Data.Attributes.Currency,
	}, nil
}

// CancelBooking flips the remote reservation to cancelled.
func (c *Client) CancelBooking(ctx context.Context, channexID string) error {
	body := map[string]string{"status": "cancelled"}
	return c.do(ctx, http.MethodPut, "/bookings/"+channexID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("user-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil && resp == nil {
		return fmt.Errorf("channex: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		detail := readValidationDetail(resp.Body)
		if c.logger != nil {
			c.logger.Warn("channex rejected booking", "detail", detail)
		}
		return fmt.Errorf("%w: %s", ErrInvalidBooking, detail)
	case resp.StatusCode >= 500:
		return ErrUnavailable
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("channex: decode response: %w", err)
	}
	return nil
}

func readValidationDetail(r io.Reader) string {
	var parsed apiResponse
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return "invalid booking data"
	}
	parts := make([]string, 0, len(parsed.Errors.Details))
	for field, msg := range parsed.Errors.Details {
		parts = append(parts, field+": "+string(msg))
	}
	if len(parts) == 0 {
		return "invalid booking data"
	}
	return strings.Join(parts, "; ")
}

// perDayPrices spreads the room subtotal over each night, the per-day rate
// map Channex expects.
func perDayPrices(b *booking.Booking) map[string]float64 {
	days := b.Stay.Range.Days()
	if len(days) == 0 {
		return nil
	}
	perNight := float64(b.Price.RoomSubtotal.Amount) / float64(len(days))
	out := make(map[string]float64, len(days))
	for _, d := range days {
		out[d.Format("2006-01-02")] = perNight
	}
	return out
}
