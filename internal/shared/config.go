package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	StoreDriver   string // redis|mysql
	StorePrefix   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	RatesBase     string
	RatesKey      string
	RatesRPS      int
	TripStart     time.Time
	TripDays      int
	DefaultRate   float64
	BaseCurrency  string
	QuoteCurrency string
	Workers       int
}

const dateLayout = "2006-01-02"

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
			log.Warn().Str("var", k).Str("value", v).Msg("ignoring invalid number")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StoreDriver:   strings.ToLower(env("STORE_DRIVER", "redis")),
		StorePrefix:   env("STORE_PREFIX", ""),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/trip?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RatesBase:     env("RATES_BASE_URL", ""),
		RatesKey:      env("RATES_API_KEY", ""),
		RatesRPS:      atoi("RATES_RPS", 2),
		TripDays:      atoi("TRIP_DAYS", 7),
		DefaultRate:   atof("DEFAULT_EXCHANGE_RATE", 3300),
		BaseCurrency:  strings.ToUpper(env("BASE_CURRENCY", "TWD")),
		QuoteCurrency: strings.ToUpper(env("QUOTE_CURRENCY", "VND")),
		Workers:       atoi("IMPORT_WORKERS", 4),
	}

	start := env("TRIP_START", "2026-01-23")
	t, err := time.ParseInLocation(dateLayout, start, time.Local)
	if err != nil {
		log.Warn().Err(err).Str("TRIP_START", start).Msg("invalid trip start, using 2026-01-23")
		t = time.Date(2026, time.January, 23, 0, 0, 0, 0, time.Local)
	}
	c.TripStart = t
	if c.TripDays <= 0 {
		c.TripDays = 7
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.RatesBase == "" {
		log.Debug().Msg("RATES_BASE_URL is empty; rate refresh disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
