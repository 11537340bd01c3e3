package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// VariantATS serves the ATS-check frontend, VariantCoverLetter the
	// cover-letter frontend. Both run the same pipeline; they differ only in
	// default port and allowed CORS origin.
	VariantATS         = "ats"
	VariantCoverLetter = "coverletter"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	Variant       string
	AllowedOrigin string
}

type GeminiConfig struct {
	APIKey string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
}

type WorkerConfig struct {
	Concurrency int
}

// Load reads configuration from the environment (and .env when present).
// GEMINI_API_KEY is required; the process must not start without it.
// History (Postgres) and the similarity index (Qdrant) are optional and stay
// disabled unless their hosts are configured.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment values.")
	}

	variant := getEnv("SERVICE_VARIANT", VariantATS)
	if variant != VariantATS && variant != VariantCoverLetter {
		return nil, fmt.Errorf("invalid SERVICE_VARIANT %q: must be %q or %q", variant, VariantATS, VariantCoverLetter)
	}

	defaultPort := "3000"
	defaultOrigin := "http://localhost:5173"
	if variant == VariantCoverLetter {
		defaultPort = "3002"
		defaultOrigin = "http://localhost:5174"
	}

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", defaultPort),
			Env:           getEnv("ENV", "development"),
			Variant:       variant,
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", defaultOrigin),
		},
		Gemini: GeminiConfig{
			APIKey: apiKey,
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
		},
		Database: DatabaseConfig{
			Enabled:  getEnv("DB_HOST", "") != "",
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_assistant"),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnv("QDRANT_URL", "") != "",
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_analyses"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
	}, nil
}

// IsDevelopment reports whether internal error detail may be included in
// responses.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
