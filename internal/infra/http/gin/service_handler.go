package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	"guesthub/internal/domain/services"
)

// ServiceHandler serves the extra-services catalog (breakfast, airport
// pickup and the like) that guests can attach to a booking.
type ServiceHandler struct {
	Services services.Repository
	Logger   *slog.Logger
}

func (h ServiceHandler) Catalog(c *gin.Context) {
	if h.Services == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "services unavailable"})
		return
	}
	catalog, err := h.Services.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("service catalog failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewServiceCollection(catalog))
}

var _ ServiceHTTP = ServiceHandler{}
