package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string

	APIBaseURL string
	IngestURL  string
	OrgID      string
	AccessKey  string
	APISecret  string

	HTTPTimeoutSeconds int

	CatalogPath   string
	CheckpointDir string
	ProfilePath   string

	SkipExisting      bool
	PartialCheckpoint bool

	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:            getenv("APP_SERVICE", "meterseed"),
		AppVersion:         getenv("APP_VERSION", "0.1.0"),
		APIBaseURL:         strings.TrimRight(getenv("M3TER_API_URL", "https://api.m3ter.com"), "/"),
		IngestURL:          strings.TrimRight(getenv("M3TER_INGEST_URL", "https://ingest.m3ter.com"), "/"),
		OrgID:              strings.TrimSpace(getenv("M3TER_ORG_ID", "")),
		AccessKey:          strings.TrimSpace(getenv("M3TER_ACCESS_KEY", "")),
		APISecret:          strings.TrimSpace(getenv("M3TER_API_SECRET", "")),
		HTTPTimeoutSeconds: int(getenvInt64("HTTP_TIMEOUT_SECONDS", 30)),
		CatalogPath:        getenv("CATALOG_PATH", "catalog.yaml"),
		CheckpointDir:      getenv("CHECKPOINT_DIR", "."),
		ProfilePath:        getenv("PROFILE_PATH", ""),
		SkipExisting:       getenvBool("SKIP_EXISTING", false),
		PartialCheckpoint:  getenvBool("CHECKPOINT_PARTIAL", false),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogFormat:          getenv("LOG_FORMAT", "console"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
