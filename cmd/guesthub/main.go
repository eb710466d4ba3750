package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"guesthub/internal/app/idempotency"
	appoutbox "guesthub/internal/app/outbox"
	authsvc "guesthub/internal/app/services/auth"
	availabilitysvc "guesthub/internal/app/services/availability"
	bookingsvc "guesthub/internal/app/services/bookings"
	chatsvc "guesthub/internal/app/services/chat"
	complaintsvc "guesthub/internal/app/services/complaints"
	paymentsvc "guesthub/internal/app/services/payments"
	domainauth "guesthub/internal/domain/auth"
	domainbooking "guesthub/internal/domain/booking"
	domainchat "guesthub/internal/domain/chat"
	domaincomplaint "guesthub/internal/domain/complaint"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/payment"
	"guesthub/internal/domain/rooms"
	domainservices "guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/money"
	"guesthub/internal/infra/broker/kafka"
	"guesthub/internal/infra/cache/redis"
	"guesthub/internal/infra/channex"
	"guesthub/internal/infra/config"
	mongodb "guesthub/internal/infra/db/mongo"
	ginserver "guesthub/internal/infra/http/gin"
	"guesthub/internal/infra/inbox"
	"guesthub/internal/infra/notify"
	"guesthub/internal/infra/obs"
	infraoutbox "guesthub/internal/infra/outbox"
	"guesthub/internal/infra/payhere"
	"guesthub/internal/infra/security"
	"guesthub/internal/infra/storage/memory"
	"guesthub/internal/infra/storage/s3"
	"guesthub/internal/infra/storage/scylla"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if app.consumer != nil {
		go func() {
			if err := app.consumer.Run(ctx, app.consumerTopics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notifications consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers       ginserver.Handlers
	worker         *infraoutbox.Worker
	consumer       *kafka.Consumer
	consumerTopics []string
	ready          func() error
	closers        []func() error
}

func (a *application) close(logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{ready: func() error { return nil }}

	roomFixtures := loadRoomFixtures(cfg, logger)
	serviceFixtures := loadServiceFixtures(cfg, logger)

	var (
		guests      guest.Repository
		sessions    domainauth.SessionStore
		roomRepo    rooms.Repository
		bookingRepo domainbooking.Repository
		serviceRepo domainservices.Repository
		complaints  domaincomplaint.Repository
		intents     payment.IntentRepository
		idemStore   idempotency.Store
		outboxSink  appoutbox.Outbox
		eventStore  infraoutbox.EventStore
		chatStore   domainchat.Store
		tokenStore  chatsvc.TokenStore
		dedup       chatsvc.Dedup
		uploader    chatsvc.Uploader
		seenStore   notify.SeenStore
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		db := client.DB
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		app.closers = append(app.closers, func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(closeCtx)
		})

		guests = mongodb.NewGuestRepository(db)
		sessions = mongodb.NewSessionStore(db)
		mongoRooms := mongodb.NewRoomRepository(db)
		roomRepo = mongoRooms
		bookingRepo = mongodb.NewBookingRepository(db)
		mongoServices := mongodb.NewServiceRepository(db)
		serviceRepo = mongoServices
		intents = mongodb.NewIntentRepository(db)
		idemStore = mongodb.NewIdempotencyStore(db)
		complaints = mongodb.NewComplaintRepository(db)
		tokenStore = mongodb.NewPushTokenStore(db)
		store := infraoutbox.NewStore(db)
		outboxSink = store
		eventStore = store
		seenStore = inbox.NewStore(db, "notifications")

		for _, r := range roomFixtures {
			if err := mongoRooms.Upsert(ctx, r); err != nil {
				logger.Warn("room fixture upsert failed", "room_id", r.ID, "error", err)
			}
		}
		for _, s := range serviceFixtures {
			if err := mongoServices.Upsert(ctx, s); err != nil {
				logger.Warn("service fixture upsert failed", "service_id", s.ID, "error", err)
			}
		}

		if len(cfg.ScyllaHosts) > 0 {
			session, err := scylla.NewSession(scylla.Config{
				Hosts:    cfg.ScyllaHosts,
				Keyspace: cfg.ScyllaKeyspace,
			}, logger)
			if err != nil {
				return nil, fmt.Errorf("scylla: %w", err)
			}
			app.closers = append(app.closers, func() error {
				session.Close()
				return nil
			})
			chatStore = scylla.NewStore(session, logger)
		} else {
			logger.Warn("scylla not configured, chat history is in-memory only")
			chatStore = memory.NewChatStore()
		}

		if cfg.RedisAddr != "" {
			cache, err := redis.NewDedupCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				return nil, fmt.Errorf("redis: %w", err)
			}
			dedup = cache
		} else {
			logger.Warn("redis not configured, notification dedup is in-memory only")
			dedup = memory.NewDedupCache()
		}

		s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("s3 unavailable, chat attachments disabled", "error", err)
			uploader = s3.NoopUploader{}
		} else {
			uploader = s3Client
		}

	default:
		guests = memory.NewGuestRepository()
		sessions = memory.NewSessionStore()
		roomRepo = memory.NewRoomRepository(roomFixtures...)
		bookingRepo = memory.NewBookingRepository()
		serviceRepo = memory.NewServiceRepository(serviceFixtures...)
		intents = memory.NewIntentRepository()
		idemStore = memory.NewIdempotencyStore()
		complaints = memory.NewComplaintRepository()
		memOutbox := memory.NewOutbox()
		outboxSink = memOutbox
		eventStore = memOutbox
		chatStore = memory.NewChatStore()
		tokenStore = memory.NewPushTokenStore()
		dedup = memory.NewDedupCache()
		uploader = s3.NoopUploader{}
	}

	gateway, err := payhere.NewAdapter(payhere.Config{
		MerchantID:     cfg.PayHereMerchantID,
		MerchantSecret: cfg.PayHereSecret,
		Sandbox:        cfg.PayHereSandbox,
		ReturnURL:      cfg.PayHereReturnURL,
		CancelURL:      cfg.PayHereCancelURL,
		NotifyURL:      cfg.PayHereNotifyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("payhere: %w", err)
	}

	var channel bookingsvc.ChannelManager
	if cfg.ChannexAPIKey != "" {
		roomTypes := make(map[rooms.RoomType]string, len(cfg.ChannexRoomTypes))
		for roomType, id := range cfg.ChannexRoomTypes {
			roomTypes[rooms.RoomType(roomType)] = id
		}
		client, err := channex.NewClient(channex.Config{
			APIURL:     cfg.ChannexAPIURL,
			APIKey:     cfg.ChannexAPIKey,
			PropertyID: cfg.ChannexPropertyID,
			RatePlanID: cfg.ChannexRatePlanID,
			RoomTypes:  roomTypes,
			OTAName:    cfg.ChannexOTAName,
			Currency:   cfg.Currency,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("channex: %w", err)
		}
		channel = client
	} else {
		logger.Warn("channex not configured, bookings stay local only")
		channel = channex.Disabled{}
	}

	pusher := notify.NewExpoClient(cfg.ExpoPushURL, logger)

	authService := &authsvc.Service{
		Guests:     guests,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	availabilityService := &availabilitysvc.Service{
		Rooms:    roomRepo,
		Bookings: bookingRepo,
		Logger:   logger,
	}
	bookingService := &bookingsvc.Service{
		Bookings:    bookingRepo,
		Rooms:       roomRepo,
		Guests:      guests,
		Services:    serviceRepo,
		Channel:     channel,
		Outbox:      outboxSink,
		Idempotency: idemStore,
		Logger:      logger,
	}
	paymentService := &paymentsvc.Service{
		Bookings: bookingRepo,
		Guests:   guests,
		Intents:  intents,
		Gateway:  gateway,
		Outbox:   outboxSink,
		Logger:   logger,
	}
	complaintService := &complaintsvc.Service{
		Complaints: complaints,
		Bookings:   bookingRepo,
		Logger:     logger,
	}
	chatService := &chatsvc.Service{
		Store:   chatStore,
		Uploads: uploader,
		Pushes:  pusher,
		Dedup:   dedup,
		Tokens:  tokenStore,
		Logger:  logger,
	}

	app.handlers = ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Rooms: ginserver.RoomHandler{
			Rooms:        roomRepo,
			Availability: availabilityService,
			Logger:       logger,
		},
		Bookings:       ginserver.BookingHandler{Service: bookingService, Logger: logger},
		Payments:       ginserver.PaymentHandler{Service: paymentService, Logger: logger},
		Chat:           ginserver.ChatHandler{Service: chatService, Logger: logger},
		Services:       ginserver.ServiceHandler{Services: serviceRepo, Logger: logger},
		Complaints:     ginserver.ComplaintHandler{Service: complaintService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, producer.Close)
		hostname, _ := os.Hostname()
		app.worker = &infraoutbox.Worker{
			Store:       eventStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			ID:          hostname,
			Backoff:     cfg.RetryBackoff,
		}

		if seenStore != nil {
			handler := notify.BookingEventsHandler{
				Bookings: bookingRepo,
				Tokens:   tokenStore,
				Pushes:   pusher,
				Inbox:    seenStore,
				Logger:   logger,
			}
			consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "guesthub-notifications", nil, &handler, logger)
			if err != nil {
				return nil, fmt.Errorf("kafka consumer: %w", err)
			}
			app.closers = append(app.closers, consumer.Close)
			app.consumer = consumer
			app.consumerTopics = []string{cfg.KafkaTopicPrefix + "booking.events.v1"}
		}
	} else {
		logger.Info("kafka not configured, domain events stay in the outbox")
	}

	return app, nil
}

type roomFixture struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	NightlyRate int64    `json:"nightly_rate"`
	Capacity    int      `json:"capacity"`
	ImageURLs   []string `json:"image_urls"`
	Amenities   []string `json:"amenities"`
}

type serviceFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

func loadRoomFixtures(cfg config.Config, logger *slog.Logger) []*rooms.Room {
	path := getenv("ROOMS_FIXTURES", filepath.Join("fixtures", "rooms.json"))
	var fixtures []roomFixture
	if !readFixtures(path, &fixtures, logger) {
		return nil
	}
	result := make([]*rooms.Room, 0, len(fixtures))
	for _, fx := range fixtures {
		rate, err := money.New(fx.NightlyRate, cfg.Currency)
		if err != nil {
			logger.Error("room fixture invalid", "room_id", fx.ID, "error", err)
			continue
		}
		result = append(result, &rooms.Room{
			ID:          rooms.RoomID(fx.ID),
			Name:        fx.Name,
			Type:        rooms.RoomType(fx.Type),
			Description: fx.Description,
			NightlyRate: rate,
			Capacity:    fx.Capacity,
			ImageURLs:   fx.ImageURLs,
			Amenities:   fx.Amenities,
		})
	}
	if len(result) > 0 {
		logger.Info("room fixtures loaded", "count", len(result), "path", path)
	}
	return result
}

func loadServiceFixtures(cfg config.Config, logger *slog.Logger) []*domainservices.Service {
	path := getenv("SERVICES_FIXTURES", filepath.Join("fixtures", "services.json"))
	var fixtures []serviceFixture
	if !readFixtures(path, &fixtures, logger) {
		return nil
	}
	result := make([]*domainservices.Service, 0, len(fixtures))
	for _, fx := range fixtures {
		price, err := money.New(fx.Price, cfg.Currency)
		if err != nil {
			logger.Error("service fixture invalid", "service_id", fx.ID, "error", err)
			continue
		}
		result = append(result, &domainservices.Service{
			ID:          domainservices.ServiceID(fx.ID),
			Name:        fx.Name,
			Description: fx.Description,
			Price:       price,
			Category:    fx.Category,
			ImageURL:    fx.ImageURL,
		})
	}
	if len(result) > 0 {
		logger.Info("service fixtures loaded", "count", len(result), "path", path)
	}
	return result
}

func readFixtures(path string, target any, logger *slog.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("fixtures unreadable", "path", path, "error", err)
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		logger.Error("fixtures malformed", "path", path, "error", err)
		return false
	}
	return true
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
