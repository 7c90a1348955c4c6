package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	APIBasePath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional: empty address disables the event cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventCacheTTL time.Duration

	RateLimitPerMinute int
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	PasswordHasher        string
	EnforceEventOwnership bool

	// Email
	EmailProvider    string // smtp, resend, none
	EmailDelivery    string // direct, kafka
	EmailWorkers     int
	EmailMaxAttempts int
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFromName     string
	SMTPFromEmail    string
	ResendAPIKey     string

	// Kafka
	KafkaBrokers         []string
	KafkaTicketTopic     string
	KafkaGroupID         string
	KafkaConsumerEnabled bool
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		APIBasePath: getEnv("API_BASE_PATH", "/api"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		EventCacheTTL: time.Duration(getInt("EVENT_CACHE_TTL_SECONDS", 60)) * time.Second,

		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 100),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		PasswordHasher:        getEnv("PASSWORD_HASHER", "argon2id"),
		EnforceEventOwnership: getBool("ENFORCE_EVENT_OWNERSHIP", false),

		EmailProvider:    getEnv("EMAIL_PROVIDER", "smtp"),
		EmailDelivery:    getEnv("EMAIL_DELIVERY", "direct"),
		EmailWorkers:     getInt("EMAIL_WORKERS", 2),
		EmailMaxAttempts: getInt("EMAIL_MAX_ATTEMPTS", 3),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:     getEnv("SMTP_FROM_NAME", "DiscoveryEvent's"),
		SMTPFromEmail:    os.Getenv("SMTP_FROM_EMAIL"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),

		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTicketTopic:     getEnv("KAFKA_TICKET_TOPIC", "ticket-confirmations"),
		KafkaGroupID:         getEnv("KAFKA_GROUP_ID", "ticket-mailer"),
		KafkaConsumerEnabled: getBool("KAFKA_CONSUMER_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
