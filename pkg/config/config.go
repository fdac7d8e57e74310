package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"scan-in/pkg/extract"
	"scan-in/pkg/fuzzy"
	"scan-in/pkg/services/ocr"
)

// Config holds the service settings, read from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	MaxUploadBytes int64
	OCRTimeout     time.Duration
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	GinMode        string
	OCR            ocr.Settings
	Threshold      float64
	ShipModes      []string
	Debtors        []string
}

// Load reads .env if present, then the environment.
func Load() Config {
	// A missing .env is fine: deployments set real variables.
	_ = godotenv.Load()

	return Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 20<<20),
		OCRTimeout:     getEnvDurationOrDefault("OCR_TIMEOUT", time.Minute),
		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "json"),
		GinMode:        os.Getenv("GIN_MODE"),
		OCR: ocr.Settings{
			Engine:            getEnvOrDefault("OCR_ENGINE", "azure"),
			AzureEndpoint:     os.Getenv("AZURE_VISION_ENDPOINT"),
			AzureKey:          os.Getenv("AZURE_VISION_KEY"),
			TesseractLanguage: getEnvOrDefault("TESSERACT_LANG", "eng"),
		},
		Threshold: getEnvFloatOrDefault("FUZZY_THRESHOLD", fuzzy.DefaultThreshold),
		ShipModes: getEnvListOrDefault("KNOWN_SHIP_MODES", nil),
		Debtors:   getEnvListOrDefault("KNOWN_DEBTORS", nil),
	}
}

// Lexicon returns the default lexicon with any configured overrides.
func (c Config) Lexicon() extract.Lexicon {
	lex := extract.DefaultLexicon()
	if len(c.ShipModes) > 0 {
		lex.ShipModes = c.ShipModes
	}
	if len(c.Debtors) > 0 {
		lex.Debtors = c.Debtors
	}
	return lex
}

// PersistenceEnabled reports whether a database is configured.
func (c Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated variable.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
