package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	complaintsvc "guesthub/internal/app/services/complaints"
	domaincomplaint "guesthub/internal/domain/complaint"
	"guesthub/internal/domain/guest"
)

// ComplaintHandler lets a guest raise an issue about their current stay and
// review what they have filed before.
type ComplaintHandler struct {
	Service *complaintsvc.Service
	Logger  *slog.Logger
}

type fileComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h ComplaintHandler) File(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "complaints unavailable"})
		return
	}
	var req fileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	filed, err := h.Service.File(c.Request.Context(), complaintsvc.FileParams{
		GuestID:     guest.ID(p.ID),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondComplaintError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewComplaintView(filed))
}

func (h ComplaintHandler) List(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "complaints unavailable"})
		return
	}
	list, err := h.Service.ListForGuest(c.Request.Context(), guest.ID(p.ID))
	if err != nil {
		h.respondComplaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewComplaintCollection(list))
}

func (h ComplaintHandler) respondComplaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaintsvc.ErrNoBooking):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no booking found for guest"})
	case errors.Is(err, domaincomplaint.ErrTitleRequired),
		errors.Is(err, domaincomplaint.ErrTitleTooLong),
		errors.Is(err, domaincomplaint.ErrDescriptionRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("complaint request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ComplaintHTTP = ComplaintHandler{}
