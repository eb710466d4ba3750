package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"guesthub/internal/infra/config"
	"guesthub/internal/infra/obs"
)

type RoomHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Search(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Cancel(c *gin.Context)
}

type PaymentHTTP interface {
	Checkout(c *gin.Context)
	List(c *gin.Context)
	Webhook(c *gin.Context)
}

type ChatHTTP interface {
	Conversation(c *gin.Context)
	ListMessages(c *gin.Context)
	SendMessage(c *gin.Context)
	MarkRead(c *gin.Context)
	RegisterDevice(c *gin.Context)
}

type ServiceHTTP interface {
	Catalog(c *gin.Context)
}

type ComplaintHTTP interface {
	File(c *gin.Context)
	List(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Rooms          RoomHTTP
	Bookings       BookingHTTP
	Payments       PaymentHTTP
	Chat           ChatHTTP
	Services       ServiceHTTP
	Complaints     ComplaintHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.Catalog)
		api.GET("/rooms/:id", h.Rooms.Get)
		api.GET("/availability", h.Rooms.Search)
	}
	if h.Bookings != nil {
		api.POST("/bookings", h.Bookings.Create)
		api.GET("/bookings", h.Bookings.List)
		api.GET("/bookings/:id", h.Bookings.Get)
		api.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	}
	if h.Payments != nil {
		api.POST("/bookings/:id/checkout", h.Payments.Checkout)
		api.GET("/bookings/:id/payments", h.Payments.List)
		// The provider posts here server-to-server; the request carries its
		// own md5 signature instead of a bearer token.
		api.POST("/payments/payhere/webhook", h.Payments.Webhook)
	}
	if h.Chat != nil {
		chatGroup := api.Group("/chat")
		chatGroup.GET("/conversation", h.Chat.Conversation)
		chatGroup.GET("/messages", h.Chat.ListMessages)
		chatGroup.POST("/messages", h.Chat.SendMessage)
		chatGroup.POST("/read", h.Chat.MarkRead)
		chatGroup.POST("/devices", h.Chat.RegisterDevice)
	}
	if h.Services != nil {
		api.GET("/services", h.Services.Catalog)
	}
	if h.Complaints != nil {
		api.POST("/complaints", h.Complaints.File)
		api.GET("/complaints", h.Complaints.List)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
