package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Geocoding GeocodingConfig
	Search    SearchConfig
	NATS      NATSConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
	AccessLog       bool
}

type StorageConfig struct {
	// Backend is "memory" or "postgres".
	Backend     string
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	// MemberSeedFile is a JSON member list loaded into the memory directory at startup.
	MemberSeedFile string
}

type AuthConfig struct {
	SubjectHeader  string
	DevSubject     string
	AllowAnonymous bool
}

type GeocodingConfig struct {
	Endpoint string
	// APIKey is used when no key is stored in settings.
	APIKey     string
	Timeout    time.Duration
	Transports []string
	CacheFile  string
	UserAgent  string
}

type SearchConfig struct {
	MaxRadius float64
}

// NATSConfig is disabled when URL is empty.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the environment.
func Load() (Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 25*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
			AccessLog:       getEnvAsBool("SERVER_ACCESS_LOG", true),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(getEnv("STORAGE_BACKEND", "memory")),
			DatabaseURL:    getEnv("DATABASE_URL", ""),
			MaxConns:       int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("DB_MIN_CONNS", 0)),
			MaxLifetime:    getEnvAsDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MemberSeedFile: getEnv("MEMBER_SEED_FILE", ""),
		},
		Auth: AuthConfig{
			SubjectHeader:  getEnv("AUTH_SUBJECT_HEADER", "X-Member-Subject"),
			DevSubject:     getEnv("DEV_SUBJECT", ""),
			AllowAnonymous: getEnvAsBool("SEARCH_ALLOW_ANONYMOUS", false),
		},
		Geocoding: GeocodingConfig{
			Endpoint:   getEnv("GEOCODING_ENDPOINT", "https://maps.googleapis.com/maps/api/geocode/json"),
			APIKey:     getEnv("GEOCODING_API_KEY", ""),
			Timeout:    getEnvAsDuration("GEOCODING_TIMEOUT", 5*time.Second),
			Transports: getEnvAsSlice("GEOCODING_TRANSPORTS", []string{"pooled", "direct"}),
			CacheFile:  getEnv("GEOCODING_CACHE_FILE", ""),
			UserAgent:  getEnv("GEOCODING_USER_AGENT", ""),
		},
		Search: SearchConfig{
			MaxRadius: getEnvAsFloat("SEARCH_MAX_RADIUS", 500),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
	}

	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	switch cfg.Storage.Backend {
	case "memory":
	case "postgres":
		if cfg.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.Storage.Backend)
	}
	if len(cfg.Geocoding.Transports) == 0 {
		return fmt.Errorf("GEOCODING_TRANSPORTS must name at least one transport")
	}
	if cfg.Geocoding.Timeout <= 0 {
		return fmt.Errorf("GEOCODING_TIMEOUT must be positive")
	}
	if cfg.Search.MaxRadius < 0 {
		return fmt.Errorf("SEARCH_MAX_RADIUS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits on commas and drops empty items.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, s := range strings.Split(valueStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
