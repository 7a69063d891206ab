package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	GinMode  string

	LogLevel  string
	LogPretty bool

	CORSOrigins       []string
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	RateLimitPerMin   int
	CacheTTL          time.Duration

	// Cliente (shopctl)
	GatewayURL     string
	SnapshotPath   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	HydrateTimeout time.Duration
	ActivityLimit  int
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local; en producción se usan las variables del sistema
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("error loading .env file")
		} else {
			log.Info().Msg(".env file loaded")
		}
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "storefront"),
		GinMode:  getEnv("GIN_MODE", "release"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getBool("LOG_PRETTY", false),

		CORSOrigins:       getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		RateLimitPerMin:   getInt("RATE_LIMIT_PER_MIN", 30),
		CacheTTL:          getDuration("CACHE_TTL", 2*time.Minute),

		GatewayURL:     getEnv("GATEWAY_URL", "http://localhost:8080"),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "storefront-state.json"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),
		HydrateTimeout: getDuration("HYDRATE_TIMEOUT", 5*time.Second),
		ActivityLimit:  getInt("ACTIVITY_LIMIT", 1000),
	}
}

// AdminEnabled indica si las acciones de administración exigen token
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
