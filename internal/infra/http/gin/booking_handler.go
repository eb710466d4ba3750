package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	bookingsvc "guesthub/internal/app/services/bookings"
	domainbooking "guesthub/internal/domain/booking"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Service *bookingsvc.Service
	Logger  *slog.Logger
}

type serviceChoiceRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type createBookingRequest struct {
	RoomID   string                 `json:"room_id"`
	CheckIn  time.Time              `json:"check_in"`
	CheckOut time.Time              `json:"check_out"`
	Guests   int                    `json:"guests"`
	Services []serviceChoiceRequest `json:"services"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	params := bookingsvc.CreateParams{
		GuestID:        guest.ID(p.ID),
		RoomID:         rooms.RoomID(req.RoomID),
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		PartySize:      req.Guests,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}
	for _, choice := range req.Services {
		params.Services = append(params.Services, bookingsvc.ServiceChoice{
			ServiceID: services.ServiceID(choice.ServiceID),
			Quantity:  choice.Quantity,
		})
	}
	b, err := h.Service.Create(c.Request.Context(), params)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBookingView(b))
}

func (h BookingHandler) List(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	list, err := h.Service.ListForGuest(c.Request.Context(), guest.ID(p.ID))
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingCollection(list))
}

func (h BookingHandler) Get(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	b, err := h.Service.ByID(c.Request.Context(), guest.ID(p.ID), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingView(b))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	b, err := h.Service.Cancel(c.Request.Context(), bookingsvc.CancelParams{
		GuestID:   guest.ID(p.ID),
		BookingID: domainbooking.BookingID(c.Param("id")),
		Reason:    req.Reason,
	})
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingView(b))
}

func (h BookingHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, rooms.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, services.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
	case errors.Is(err, bookingsvc.ErrNotOwner):
		// A foreign booking id looks identical to a missing one.
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, bookingsvc.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrInvalidStay),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("booking operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ BookingHTTP = BookingHandler{}
