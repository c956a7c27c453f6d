package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// EnvFileName is the local env file read at startup when present
const EnvFileName = ".env.local"

// Config is the process configuration resolved from the environment
type Config struct {
	Env            string
	Port           string
	APIKey         string
	Model          string
	Language       string
	CloudRunURL    string
	AllowedOrigins []string

	RateLimitInterval time.Duration
	RateLimitBurst    int
	DailyQuota        int64
}

// LoadEnvFile loads variables from the given files. Missing files are ignored.
func LoadEnvFile(paths ...string) {
	if len(paths) == 0 {
		paths = []string{EnvFileName}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to load env file")
		}
	}
}

// Load reads the configuration from environment variables
func Load() *Config {
	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("API_KEY", "")
	}

	return &Config{
		Env:               getEnv("ENV", ""),
		Port:              getEnv("PORT", "8080"),
		APIKey:            apiKey,
		Model:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Language:          getEnv("ANALYSIS_LANGUAGE", "Korean"),
		CloudRunURL:       getEnv("CLOUD_RUN_URL", ""),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimitInterval: getDuration("RATE_LIMIT_INTERVAL", 2*time.Second),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 3),
		DailyQuota:        int64(getInt("DAILY_QUOTA", 500)),
	}
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
