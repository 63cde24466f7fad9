package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config is loaded once at process start and immutable afterwards.
type Config struct {
	Env  string
	Port string

	DBURL string

	JWTSecret        string
	AccessExpiryMin  int
	RefreshExpiryMin int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PublicPathPrefixes lists the path prefixes the authentication gate
	// lets through without a token.
	PublicPathPrefixes []string

	// FrontendURL receives the token redirect after a federated login.
	FrontendURL string
}

// defaultPublicPrefixes mirrors the original allow-list: home, shared read
// endpoints, the auth entry points and the docs/health surface.
const defaultPublicPrefixes = "/,/home,/common,/healthz,/auth/signup,/auth/login,/auth/refresh,/auth/oauth,/swagger-ui,/v3/api-docs"

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:   getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		PublicPathPrefixes: getEnvAsSlice("PUBLIC_PATH_PREFIXES", defaultPublicPrefixes),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsSlice(key string, defaultVal string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	parts := strings.Split(valStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
