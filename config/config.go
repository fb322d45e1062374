package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const devSessionSecret = "dev-only-session-secret"

// ErrMissingSessionSecret is returned by Load outside development when
// SESSION_SECRET is unset.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required unless APP_ENV=dev")

type Config struct {
	AppEnv  string
	Port    string
	BaseURL string

	DBDriver string
	DBSeed   bool

	SessionSecret string
	SessionTTL    time.Duration

	GithubClientID     string
	GithubClientSecret string
	KakaoClientID      string
	KakaoClientSecret  string

	AvatarStorage string
	UploadsDir    string
	S3Region      string
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string

	AdminAPIKey string
	CORSOrigins []string
}

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env; continuing with environment variables")
	}

	cfg := &Config{
		AppEnv:             strings.ToLower(envOrDefault("APP_ENV", "production")),
		Port:               envOrDefault("PORT", "8080"),
		BaseURL:            strings.TrimRight(envOrDefault("BASE_URL", "http://127.0.0.1:8000"), "/"),
		DBDriver:           strings.ToLower(envOrDefault("DB_DRIVER", "mysql")),
		DBSeed:             envBool("DB_SEED", true),
		SessionSecret:      envOrDefault("SESSION_SECRET", ""),
		SessionTTL:         envDuration("SESSION_TTL", 14*24*time.Hour),
		GithubClientID:     envOrDefault("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: envOrDefault("GITHUB_CLIENT_SECRET", ""),
		KakaoClientID:      envOrDefault("KAKAO_CLIENT_ID", ""),
		KakaoClientSecret:  envOrDefault("KAKAO_CLIENT_SECRET", ""),
		AvatarStorage:      strings.ToLower(envOrDefault("AVATAR_STORAGE", "local")),
		UploadsDir:         envOrDefault("UPLOADS_DIR", "uploads"),
		S3Region:           envOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:         envOrDefault("S3_ENDPOINT", ""),
		S3Bucket:           envOrDefault("S3_BUCKET", ""),
		S3AccessKey:        envOrDefault("S3_ACCESS_KEY", ""),
		S3SecretKey:        envOrDefault("S3_SECRET_KEY", ""),
		AdminAPIKey:        envOrDefault("ADMIN_API_KEY", ""),
		CORSOrigins:        parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
	}

	if cfg.SessionSecret == "" {
		if !cfg.IsDev() {
			return nil, ErrMissingSessionSecret
		}
		logrus.Warn("SESSION_SECRET is not set; using the development secret")
		cfg.SessionSecret = devSessionSecret
	}
	return cfg, nil
}

// IsDev reports whether APP_ENV names a development or test environment.
func (c *Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid boolean %q, using %v", raw, def)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", raw, def)
		return def
	}
	return d
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
