package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type API struct {
	Addr           string
	AllowedOrigins []string
	// BroadcastInterval is the fallback period for pushing summaries to
	// websocket subscribers when no order event has arrived.
	BroadcastInterval time.Duration
}

type Log struct {
	File  string
	Level string
}

type Journal struct {
	Path string // empty disables the pebble journal
}

type Kafka struct {
	Brokers []string // empty disables publishing
	Topic   string
}

type Events struct {
	Buffer int
}

type Feeder struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
	NumUsers  int
}

type Config struct {
	API     API
	Log     Log
	Journal Journal
	Kafka   Kafka
	Events  Events
	Feeder  Feeder
}

func Default() Config {
	return Config{
		API: API{
			Addr:              ":8080",
			AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:3001"},
			BroadcastInterval: time.Second,
		},
		Log: Log{
			File:  "data/server.log",
			Level: "info",
		},
		Kafka: Kafka{
			Topic: "silverbar.orders",
		},
		Events: Events{
			Buffer: 1024,
		},
		Feeder: Feeder{
			Enabled:   false,
			Interval:  100 * time.Millisecond,
			BatchSize: 10,
			NumUsers:  50,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// godotenv never overrides variables that are already set
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	if origins := splitList(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		cfg.API.AllowedOrigins = origins
	}
	cfg.API.BroadcastInterval = getMillis("BROADCAST_INTERVAL_MS", cfg.API.BroadcastInterval)

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Journal.Path = getEnv("JOURNAL_PATH", cfg.Journal.Path)

	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.Events.Buffer = getInt("EVENT_BUFFER", cfg.Events.Buffer)

	if enabled := os.Getenv("ENABLE_ORDERGEN"); enabled != "" {
		cfg.Feeder.Enabled = enabled == "true"
	}
	cfg.Feeder.Interval = getMillis("ORDERGEN_INTERVAL_MS", cfg.Feeder.Interval)
	cfg.Feeder.BatchSize = getInt("ORDERGEN_BATCH", cfg.Feeder.BatchSize)
	cfg.Feeder.NumUsers = getInt("ORDERGEN_USERS", cfg.Feeder.NumUsers)

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getMillis(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
