package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"crowd-bidding/internal/payments"
	"crowd-bidding/utils"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the runtime configuration of the bidding server
type Config struct {
	Port               string
	LogLevel           string
	DatabaseURL        string // empty selects the in-memory store
	RoundDuration      time.Duration
	RoundSweepInterval time.Duration // 0 disables the sweeper
	Payments           payments.Settings
	JWTSecret          string
	RabbitMQURL        string
	RoundEventsQueue   string
	RateLimit          RateLimitConfig
}

// LoadConfig reads .env (when present) and the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Debug("no .env file loaded, using system environment variables", map[string]any{"error": err.Error()})
	}

	settings, err := loadPayments()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               envStr("PORT", "8080"),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		DatabaseURL:        envStr("DATABASE_URL", ""),
		RoundDuration:      envDur("ROUND_DURATION", 5*time.Minute),
		RoundSweepInterval: envDur("ROUND_SWEEP_INTERVAL", 0),
		Payments:           settings,
		JWTSecret:          envStr("JWT_SECRET", ""),
		RabbitMQURL:        envStr("RABBITMQ_URL", ""),
		RoundEventsQueue:   envStr("ROUND_EVENTS_QUEUE", ""),
		RateLimit:          LoadRateLimitConfig(),
	}, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func loadPayments() (payments.Settings, error) {
	s := payments.DefaultSettings()
	s.MinimumBid = envInt64("MIN_BID_CENTS", s.MinimumBid)
	s.BidIncrement = envInt64("BID_INCREMENT_CENTS", s.BidIncrement)
	s.FeeFlat = envInt64("FEE_FLAT_CENTS", s.FeeFlat)

	if v := os.Getenv("FEE_PERCENT"); v != "" {
		pct, err := decimal.NewFromString(v)
		if err != nil {
			return payments.Settings{}, fmt.Errorf("config: invalid FEE_PERCENT %q: %w", v, err)
		}
		s.FeePercent = pct
	}
	if v := os.Getenv("PRESET_OFFSETS_CENTS"); v != "" {
		offsets, err := parseInt64List(v)
		if err != nil {
			return payments.Settings{}, fmt.Errorf("config: invalid PRESET_OFFSETS_CENTS %q: %w", v, err)
		}
		s.PresetOffsets = offsets
	}

	if err := s.Validate(); err != nil {
		return payments.Settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

func parseInt64List(v string) ([]int64, error) {
	parts := strings.Split(v, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.Warn("invalid boolean env var, using default", map[string]any{"key": k, "value": v})
		return d
	}
	return b
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Warn("invalid integer env var, using default", map[string]any{"key": k, "value": v})
		return d
	}
	return n
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		utils.Warn("invalid integer env var, using default", map[string]any{"key": k, "value": v})
		return d
	}
	return n
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		utils.Warn("invalid duration env var, using default", map[string]any{"key": k, "value": v})
		return d
	}
	return dur
}
