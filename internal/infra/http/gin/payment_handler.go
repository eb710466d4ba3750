package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	paymentsvc "guesthub/internal/app/services/payments"
	domainbooking "guesthub/internal/domain/booking"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/payment"
	"guesthub/internal/infra/payhere"
)

type PaymentHandler struct {
	Service *paymentsvc.Service
	Logger  *slog.Logger
}

func (h PaymentHandler) Checkout(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments unavailable"})
		return
	}
	checkout, err := h.Service.PrepareCheckout(c.Request.Context(), paymentsvc.CheckoutParams{
		GuestID:   guest.ID(p.ID),
		BookingID: domainbooking.BookingID(c.Param("id")),
	})
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCheckoutResponse(checkout))
}

func (h PaymentHandler) List(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments unavailable"})
		return
	}
	intents, err := h.Service.ListForBooking(c.Request.Context(), guest.ID(p.ID), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentIntentCollection(intents))
}

// Webhook ingests the provider's form-encoded payment notification. Anything
// we do not want to act on, from a forged signature to an order we never
// issued, is answered 200 so the provider stops retrying. Only a local
// failure that a retry could actually fix returns 500.
func (h PaymentHandler) Webhook(c *gin.Context) {
	if h.Service == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	n := payhere.ParseWebhook(c.Request.PostForm)
	err := h.Service.HandleWebhook(c.Request.Context(), n)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, paymentsvc.ErrSignatureMismatch):
		if h.Logger != nil {
			h.Logger.Warn("webhook signature rejected", "order_id", n.OrderID)
		}
		c.Status(http.StatusOK)
	case errors.Is(err, payment.ErrIntentNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound):
		if h.Logger != nil {
			h.Logger.Warn("webhook for unknown order", "order_id", n.OrderID)
		}
		c.Status(http.StatusOK)
	default:
		if h.Logger != nil {
			h.Logger.Error("webhook processing failed", "error", err, "order_id", n.OrderID)
		}
		c.Status(http.StatusInternalServerError)
	}
}

func (h PaymentHandler) respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, paymentsvc.ErrNotOwner):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, paymentsvc.ErrAlreadyPaid),
		errors.Is(err, paymentsvc.ErrBookingCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("payment operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ PaymentHTTP = PaymentHandler{}
