package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the gateway reads from the environment.
type Config struct {
	Server   Server
	Database Database
	Carrier  Carrier
	Redis    Redis
	Kafka    Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// JWTSigningKey enables inbound bearer authentication on the
	// registration endpoint when non-empty.
	JWTSigningKey string
}

// Database holds PostgreSQL connection parameters. The pool bounds mirror the
// carrier-facing production deployment: at most MaxOpenConns concurrent
// connections, idle connections reclaimed after ConnMaxIdleTime.
type Database struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

// DSN renders the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// Carrier holds the upstream SmartRICA endpoints and client behaviour.
// RegistrationURLs is an ordered fallback list; order is fixed configuration,
// never reordered at runtime.
type Carrier struct {
	AuthURL          string
	RegistrationURLs []string
	RequestTimeout   time.Duration
}

// Redis configures the optional durable token mirror. Empty URL disables it.
type Redis struct {
	URL string
}

// Kafka configures the optional registration audit publisher. Empty broker
// list disables it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds the full Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("PAVRICA_ADDR", ":3000"),
			JWTSigningKey: os.Getenv("PAVRICA_JWT_SIGNING_KEY"),
		},
		Database: Database{
			Host:            envOr("DB_HOST", "localhost"),
			Port:            envInt("DB_PORT", 5432),
			User:            envOr("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASS"),
			Name:            envOr("DB_NAME", "pavrica"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxIdleTime: envDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
		},
		Carrier: Carrier{
			AuthURL: envOr("SMARTRICA_AUTH_URL",
				"https://test.smartcall.co.za:8101/webservice/auth"),
			RegistrationURLs: envList("SMARTRICA_REGISTRATION_URLS",
				"https://test.smartcall.co.za:8101/webservice/smartrica/registrations"),
			RequestTimeout: envDuration("SMARTRICA_REQUEST_TIMEOUT", 30*time.Second),
		},
		Redis: Redis{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: Kafka{
			Brokers: envList("KAFKA_BROKERS", ""),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "pavrica.registrations"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// envList splits a comma-separated env var, dropping empty entries.
func envList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
