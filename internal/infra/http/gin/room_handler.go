package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	availabilitysvc "guesthub/internal/app/services/availability"
	domainbooking "guesthub/internal/domain/booking"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/daterange"
)

// RoomHandler serves the room catalog and availability search.
type RoomHandler struct {
	Rooms        rooms.Repository
	Availability *availabilitysvc.Service
	Logger       *slog.Logger
}

func (h RoomHandler) Catalog(c *gin.Context) {
	if h.Rooms == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rooms unavailable"})
		return
	}
	list, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("room catalog failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	collection := dto.RoomCollection{Items: make([]dto.RoomView, 0, len(list))}
	for _, r := range list {
		collection.Items = append(collection.Items, dto.NewRoomView(r))
	}
	c.JSON(http.StatusOK, collection)
}

func (h RoomHandler) Get(c *gin.Context) {
	if h.Rooms == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rooms unavailable"})
		return
	}
	room, err := h.Rooms.ByID(c.Request.Context(), rooms.RoomID(c.Param("id")))
	if err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("room lookup failed", "error", err, "room_id", c.Param("id"))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewRoomView(room))
}

// Search answers GET /availability?check_in=2026-09-01&check_out=2026-09-04&guests=2.
func (h RoomHandler) Search(c *gin.Context) {
	if h.Availability == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability unavailable"})
		return
	}
	checkIn, err := parseDateParam(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := parseDateParam(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be a YYYY-MM-DD date"})
		return
	}
	guests := parsePositiveInt(c.Query("guests"), 1)

	offers, err := h.Availability.Search(c.Request.Context(), availabilitysvc.SearchParams{
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		PartySize: guests,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainbooking.ErrInvalidStay),
			errors.Is(err, daterange.ErrInvalidRange),
			errors.Is(err, domainbooking.ErrCheckInInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			if h.Logger != nil {
				h.Logger.Error("availability search failed", "error", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	collection := dto.AvailabilityCollection{Items: make([]dto.AvailabilityOffer, 0, len(offers))}
	for _, offer := range offers {
		collection.Items = append(collection.Items, dto.AvailabilityOffer{
			Room:  dto.NewRoomView(offer.Room),
			Price: dto.NewPriceBreakdown(offer.Price),
		})
	}
	c.JSON(http.StatusOK, collection)
}

func parseDateParam(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

var _ RoomHTTP = RoomHandler{}
