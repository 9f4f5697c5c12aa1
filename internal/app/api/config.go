package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	identityapp "github.com/Apurer/dairy-storefront/internal/domains/identity/application"
	orderkafka "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/messaging/kafka"
	platformmongo "github.com/Apurer/dairy-storefront/internal/platform/mongo"
)

// StoreKind selects the order store backend.
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StoreMongo    StoreKind = "mongo"
	StorePostgres StoreKind = "postgres"
)

// Config carries environment-driven settings for the API process and the worker.
type Config struct {
	Port                 string
	Environment          string
	LogLevel             string
	LogFormat            string
	OrderStore           StoreKind
	PostgresDSN          string
	MongoURI             string
	MongoDatabase        string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	KafkaBrokers         []string
	KafkaTopic           string
	AdminUsername        string
	AdminPassword        string
	SessionTTL           time.Duration
	SeedDemoOrders       int
	SessionPurgeInterval time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "local"),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		LogFormat:         envDefault("LOG_FORMAT", "json"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     envDefault("MONGO_DATABASE", platformmongo.DefaultDatabase),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", orderkafka.DefaultTopic),
		AdminUsername:     envDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		SessionTTL:        identityapp.DefaultSessionTTL,
	}

	switch kind := StoreKind(strings.ToLower(strings.TrimSpace(os.Getenv("ORDER_STORE")))); kind {
	case "":
		cfg.OrderStore = StoreMemory
		if cfg.PostgresDSN != "" {
			cfg.OrderStore = StorePostgres
		}
	case StoreMemory, StoreMongo, StorePostgres:
		cfg.OrderStore = kind
	default:
		return Config{}, fmt.Errorf("ORDER_STORE must be one of memory, mongo, postgres (got %q)", kind)
	}
	if cfg.OrderStore == StoreMongo && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required when ORDER_STORE=mongo")
	}
	if cfg.OrderStore == StorePostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required when ORDER_STORE=postgres")
	}

	if hours, err := positiveInt("SESSION_TTL_HOURS"); err != nil {
		return Config{}, err
	} else if hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if minutes, err := positiveInt("SESSION_PURGE_INTERVAL_MINUTES"); err != nil {
		return Config{}, err
	} else if minutes > 0 {
		cfg.SessionPurgeInterval = time.Duration(minutes) * time.Minute
	}
	if raw := strings.TrimSpace(os.Getenv("SEED_DEMO_ORDERS")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return Config{}, fmt.Errorf("SEED_DEMO_ORDERS must be a non-negative integer")
		}
		cfg.SeedDemoOrders = count
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
