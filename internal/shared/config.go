package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	RedisAddr      string // empty disables the fetch cache
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	PlayBaseURL    string
	AppStoreURL    string
	AppStoreAPI    string
	Lang           string
	DefaultCountry string
	MaxReviews     int
	PlayPageSize   int
	PlayMaxPages   int
	OutboundRPS    int
	Workers        int
	TopTerms       int
	RequestTimeout time.Duration
}

// Load reads the environment, after seeding it from a .env file when one is
// present in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		PlayBaseURL:    env("PLAY_BASE_URL", "https://play.google.com"),
		AppStoreURL:    env("APPSTORE_BASE_URL", "https://apps.apple.com"),
		AppStoreAPI:    env("APPSTORE_API_URL", "https://amp-api.apps.apple.com"),
		Lang:           env("REVIEWS_LANG", "pt"),
		DefaultCountry: env("DEFAULT_COUNTRY", "br"),
		MaxReviews:     atoi("MAX_REVIEWS", 1000),
		PlayPageSize:   atoi("PLAY_PAGE_SIZE", 200),
		PlayMaxPages:   atoi("PLAY_MAX_PAGES", 50),
		OutboundRPS:    atoi("OUTBOUND_RPS", 5),
		Workers:        atoi("EXTRACT_WORKERS", 4),
		TopTerms:       atoi("TOP_TERMS", 50),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, fetch cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
