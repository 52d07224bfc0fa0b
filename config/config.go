package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	OpenTok  OpenTokConfig
	AWS      AWSConfig
	Resolver ResolverConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	StaticDir          string // directory served for the browser demo; empty = disabled
}

// OpenTokConfig holds video provider credentials and endpoint.
type OpenTokConfig struct {
	APIKey         string
	APISecret      string
	APIURL         string // provider REST base URL
	TokenExpireSec int64  // client token lifetime
}

// AWSConfig holds credentials and the archive bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	ArchivesBucket       string
	PresignExpireMinutes int
}

// ResolverConfig tunes the archive media resolution loop.
type ResolverConfig struct {
	PollIntervalSec int
	MaxWaitSec      int // 0 = wait forever
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "120"))
	tokenExpire, _ := strconv.ParseInt(getEnv("OT_TOKEN_EXPIRE_SEC", "86400"), 10, 64)

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8000"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:          getEnv("STATIC_DIR", "public"),
		},
		OpenTok: OpenTokConfig{
			APIKey:         getEnv("OT_API_KEY", ""),
			APISecret:      getEnv("OT_API_SECRET", ""),
			APIURL:         getEnv("OT_API_URL", "https://api.opentok.com"),
			TokenExpireSec: tokenExpire,
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ArchivesBucket:       getEnv("AWS_S3_ARCHIVES_BUCKET", ""),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 5),
		},
		Resolver: ResolverConfig{
			PollIntervalSec: getEnvInt("RESOLVER_POLL_INTERVAL_SEC", 10),
			MaxWaitSec:      getEnvInt("RESOLVER_MAX_WAIT_SEC", 0),
		},
	}

	if cfg.OpenTok.APIKey == "" || cfg.OpenTok.APISecret == "" {
		return nil, fmt.Errorf("config: OT_API_KEY and OT_API_SECRET are required")
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
