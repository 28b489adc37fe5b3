package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreRedis = "redis"
	StoreMySQL = "mysql"
	StoreFile  = "file"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	HostawayBase   string
	HostawayToken  string
	GoogleBase     string
	GoogleKey      string
	SourceRPS      int
	ApprovalStore  string
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	MySQLDSN       string
	ApprovalFile   string
	RequestTimeout time.Duration
	TrendMonths    int
}

// Load reads the environment, after an optional .env in the working dir.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		HostawayBase:   env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayToken:  env("HOSTAWAY_TOKEN", ""),
		GoogleBase:     env("GOOGLE_BASE_URL", "http://localhost:8081"),
		GoogleKey:      env("GOOGLE_API_KEY", ""),
		SourceRPS:      atoi("SOURCE_RPS", 5),
		ApprovalStore:  strings.ToLower(env("APPROVAL_STORE", StoreRedis)),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		ApprovalFile:   env("APPROVAL_FILE", "data/approvals.json"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		TrendMonths:    atoi("TREND_MONTHS", 6),
	}
	switch c.ApprovalStore {
	case StoreRedis, StoreMySQL, StoreFile:
	default:
		log.Warn().Str("store", c.ApprovalStore).Msg("unknown APPROVAL_STORE, using redis")
		c.ApprovalStore = StoreRedis
	}
	if c.HostawayToken == "" {
		log.Warn().Msg("HOSTAWAY_TOKEN is empty")
	}
	return c
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
