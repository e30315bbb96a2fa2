package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Spreadsheet
	SheetID         string
	CredentialsFile string
	CatalogueTable  string
	AdminsTable     string

	// Image repository
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string
	ImagesDir    string

	// Catalogue policy
	PlaceholderImageURL string
	SoldStampURL        string
	MaxFolderBytes      int64
	ImageMaxWidth       uint
	JPEGQuality         int

	// Web
	CSRFKey      []byte
	SessionKey   []byte
	TokenSecret  []byte
	TokenTTL     time.Duration
	CookieDomain string
	CookieSecure bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8585"),
		SheetID:         getEnv("SHEET_ID", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "./service-account.json"),
		CatalogueTable:  getEnv("CATALOGUE_TABLE", "catalogue"),
		AdminsTable:     getEnv("ADMINS_TABLE", "admins"),

		GitHubToken:  getEnv("GITHUB_TOKEN", ""),
		GitHubOwner:  getEnv("GITHUB_OWNER", ""),
		GitHubRepo:   getEnv("GITHUB_REPO", ""),
		GitHubBranch: getEnv("GITHUB_BRANCH", "main"),
		ImagesDir:    getEnv("IMAGES_DIR", "images"),

		PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", "/static/placeholder.jpg"),
		SoldStampURL:        getEnv("SOLD_STAMP_URL", "/static/sold.png"),
		MaxFolderBytes:      getEnvInt64("MAX_IMAGES_FOLDER_BYTES", 500_000_000),
		ImageMaxWidth:       uint(getEnvInt64("IMAGE_MAX_WIDTH", 1200)),
		JPEGQuality:         int(getEnvInt64("JPEG_QUALITY", 85)),

		TokenTTL:     time.Duration(getEnvInt64("TOKEN_TTL_HOURS", 12)) * time.Hour,
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")
	cfg.TokenSecret = loadKey("TOKEN_SECRET")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	if cfg.SheetID == "" {
		slog.Warn("SHEET_ID is not set; the server cannot reach the catalogue spreadsheet without it.")
	}

	return cfg, nil
}

// loadKey reads a base64 key from the environment, generating a random
// development key when absent or too short. Generated keys change on every
// restart: sessions and tokens will not survive.
func loadKey(envName string) []byte {
	raw := os.Getenv(envName)
	if raw == "" {
		slog.Warn("Key not set, generating a random one for development. PLEASE SET IT IN PRODUCTION!", "env", envName)
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("Key is invalid or too short (min 32 bytes). Generating a random one for development.", "env", envName)
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("Invalid numeric environment variable, using default", "env", key, "value", raw)
		return defaultValue
	}
	return n
}

// generateRandomBytes generates a random byte slice of specified length
// using crypto/rand.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
