package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// UploadConfig holds local storage settings for uploaded audio artifacts.
type UploadConfig struct {
	Dir string
}

// ASRConfig holds settings for the speech-to-text inference server.
// The server exposes an OpenAI-compatible /v1/audio/transcriptions endpoint.
type ASRConfig struct {
	BaseURL         string
	Model           string
	APIKey          string
	DefaultLanguage string
}

// MinIOConfig holds object storage settings for the optional audio archive.
// Archival is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	OwnerID       int64
	OwnerEmail    string
	OwnerPassword string
	Database      DatabaseConfig
	Upload        UploadConfig
	ASR           ASRConfig
	MinIO         MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
// Database defaults fall back to a local instance.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8000"),
		Port:    getEnv("PORT", "8000"),

		// Entry ownership is threaded explicitly through handlers until a
		// real authentication context exists.
		OwnerID:       int64(getEnvInt("JOURNAL_OWNER_ID", 1)),
		OwnerEmail:    getEnv("JOURNAL_OWNER_EMAIL", "journal@localhost"),
		OwnerPassword: getEnv("JOURNAL_OWNER_PASSWORD", "changeme"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "postgres"),
			Password:           getEnv("DB_PASSWORD", "postgres"),
			Name:               getEnv("DB_NAME", "journal"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads/audio"),
		},
		ASR: ASRConfig{
			BaseURL:         getEnv("ASR_BASE_URL", "http://localhost:9000"),
			Model:           getEnv("ASR_MODEL", "glm-asr-nano-2512"),
			APIKey:          getEnv("ASR_API_KEY", ""),
			DefaultLanguage: getEnv("ASR_DEFAULT_LANGUAGE", "en"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "journal-audio"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
