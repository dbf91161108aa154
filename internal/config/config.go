package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	MongoURI        string
	MongoDBName     string
	JWTSecret       string
	JWTExpiration   time.Duration
	UploadDir       string
	DataDir         string
	MaxUploadSizeMB int64

	RecaptchaSecret string

	SendGridAPIKey  string
	ReportEmailFrom string
	ReportEmailTo   string

	PhotoModeration bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "generalink"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:   24 * time.Hour,
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		MaxUploadSizeMB: getEnvInt64("MAX_UPLOAD_SIZE_MB", 10),

		RecaptchaSecret: getEnv("RECAPTCHA_SECRET", ""),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		ReportEmailFrom: getEnv("REPORT_EMAIL_FROM", ""),
		ReportEmailTo:   getEnv("REPORT_EMAIL_TO", ""),

		PhotoModeration: getEnvBool("PHOTO_MODERATION", false),
	}
}

// UseMongo reports whether a Mongo connection string was configured. Without
// one the server runs on in-memory stores with JSON snapshots.
func (c *Config) UseMongo() bool {
	return c.MongoURI != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
