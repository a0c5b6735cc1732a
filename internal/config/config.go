package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           int
	DBURL          string
	JWTSecret      string
	TokenTTL       time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AllowedOrigins []string
	OTLPEndpoint   string
}

func Load() Config {
	// .env is optional; deployed environments set real env vars.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:            env,
		Port:           port,
		DBURL:          dbURL,
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_TTL_SECONDS", 3600)) * time.Second,
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		AllowedOrigins: splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "devconnect")
	pass := getEnv("DB_PASSWORD", "devconnect")
	name := getEnv("DB_NAME", "devconnect")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
