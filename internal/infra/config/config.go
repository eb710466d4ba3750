package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Storage modes select which persistence stack the process wires up.
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	StorageMode string
	MongoURI    string
	MongoDB     string

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	SessionTTL time.Duration
	Currency   string

	PayHereMerchantID string
	PayHereSecret     string
	PayHereSandbox    bool
	PayHereReturnURL  string
	PayHereCancelURL  string
	PayHereNotifyURL  string

	ChannexAPIURL     string
	ChannexAPIKey     string
	ChannexPropertyID string
	ChannexRatePlanID string
	ChannexRoomTypes  map[string]string
	ChannexOTAName    string

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	ScyllaHosts    []string
	ScyllaKeyspace string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExpoPushURL string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:         getEnv("APP_ENV", "dev"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		StorageMode: strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DB", "guesthub"),

		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),

		Currency: getEnv("CURRENCY", "USD"),

		PayHereMerchantID: os.Getenv("PAYHERE_MERCHANT_ID"),
		PayHereSecret:     os.Getenv("PAYHERE_MERCHANT_SECRET"),
		PayHereReturnURL:  getEnv("PAYHERE_RETURN_URL", "guesthub://payment/return"),
		PayHereCancelURL:  getEnv("PAYHERE_CANCEL_URL", "guesthub://payment/cancel"),
		PayHereNotifyURL:  os.Getenv("PAYHERE_NOTIFY_URL"),

		ChannexAPIURL:     getEnv("CHANNEX_API_URL", "https://staging.channex.io/api/v1"),
		ChannexAPIKey:     os.Getenv("CHANNEX_API_KEY"),
		ChannexPropertyID: os.Getenv("CHANNEX_PROPERTY_ID"),
		ChannexRatePlanID: os.Getenv("CHANNEX_RATE_PLAN_ID"),
		ChannexOTAName:    getEnv("CHANNEX_OTA_NAME", "Booking.com"),

		S3Endpoint:       getEnv("S3_ENDPOINT", "localhost:9000"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "guesthub-chat"),

		ScyllaKeyspace: getEnv("SCYLLA_KEYSPACE", "guesthub_chat"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ExpoPushURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}
	if hosts := getEnv("SCYLLA_HOSTS", ""); hosts != "" {
		cfg.ScyllaHosts = splitList(hosts)
	}

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range splitList(retryStr) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	sandbox, err := parseBoolEnv("PAYHERE_SANDBOX", true)
	if err != nil {
		return Config{}, err
	}
	cfg.PayHereSandbox = sandbox

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB

	roomTypes, err := parsePairs(getEnv("CHANNEX_ROOM_TYPES", ""))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CHANNEX_ROOM_TYPES: %w", err)
	}
	cfg.ChannexRoomTypes = roomTypes

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	if cfg.PayHereMerchantID == "" || cfg.PayHereSecret == "" {
		return Config{}, fmt.Errorf("PAYHERE_MERCHANT_ID and PAYHERE_MERCHANT_SECRET are required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parsePairs reads "key=value,key=value" maps such as the room-type mapping.
func parsePairs(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range splitList(raw) {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("malformed pair %q", item)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid %s integer: %q", key, raw)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
