package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort            = 8080
	defaultPostsDir        = "./content/posts"
	defaultUploadDir       = "./public/uploads"
	defaultUploadURLPrefix = "/uploads"
	defaultSessionTTL      = 7 * 24 * time.Hour
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultEnvFile         = ".env"
)

type Config struct {
	Port            int    `validate:"min=1,max=65535"`
	PostsDir        string `validate:"required"`
	UploadDir       string `validate:"required"`
	UploadURLPrefix string `validate:"required,startswith=/"`

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string        `validate:"required"`
	SessionTTL        time.Duration `validate:"gt=0"`

	AllowedOrigins []string `validate:"dive,url"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// Load reads configuration from the environment, after first applying the
// .env file named by ENV_FILE (default ".env") if it exists. Variables already
// set in the process environment win over the file.
func Load() (*Config, error) {
	envFile := getenv("ENV_FILE", defaultEnvFile)
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load environment from %s: %w", envFile, err)
		}
		log.Debug().Str("file", envFile).Msg("No env file found, using process environment")
	}

	port, err := getenvInt("PORT", defaultPort)
	if err != nil {
		return nil, err
	}

	ttl, err := getenvDuration("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              port,
		PostsDir:          getenv("POSTS_DIR", defaultPostsDir),
		UploadDir:         getenv("UPLOAD_DIR", defaultUploadDir),
		UploadURLPrefix:   getenv("UPLOAD_URL_PREFIX", defaultUploadURLPrefix),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        ttl,
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", defaultLogFormat)),
	}

	if cfg.SessionSecret == "" {
		// Sessions will not survive a restart.
		log.Warn().Msg("SESSION_SECRET is not set, generating an ephemeral one")
		cfg.SessionSecret = uuid.NewString()
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		log.Warn().Msg("Neither ADMIN_PASSWORD nor ADMIN_PASSWORD_HASH is set, admin login is disabled")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the field constraints declared on Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 24h: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
