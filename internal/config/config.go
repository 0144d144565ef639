package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/akulikov/class_registration/internal/domain"
)

const minSecretLen = 32

type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string

	JWTSecret []byte

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string

	LogLevel string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment variables")
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "registration"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "registration_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

// ValidateSecret rejects a missing or under-length signing secret so a
// misconfigured process fails at startup instead of issuing weak tokens.
func (c Config) ValidateSecret() error {
	if len(c.JWTSecret) == 0 {
		return &domain.ConfigError{Reason: "JWT_SECRET is not set"}
	}
	if len(c.JWTSecret) < minSecretLen {
		return &domain.ConfigError{Reason: "JWT_SECRET must be at least 256 bits"}
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
