package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	Env      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	EmailLogOnly bool

	// CodeTTL is the validity window of an issued code.
	CodeTTL time.Duration

	// RedisAddr, when set, switches code storage from the in-process map
	// to Redis (host:port).
	RedisAddr string
	RedisPass string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		Env:      os.Getenv("APP_ENV"),

		SMTPHost:     getenv("SMTP_HOST", "127.0.0.1"),
		SMTPPort:     getint("SMTP_PORT", 25),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     getenv("SMTP_FROM", "no-reply@example.com"),
		EmailLogOnly: os.Getenv("EMAIL_LOG_ONLY") == "1",

		CodeTTL: getduration("CODE_TTL", 15*time.Minute),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),

		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 10),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
