package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	ModelName       string
	ImageModelName  string
	DBPath          string
	ReferenceDir    string
	DocumentsDir    string
	PurchaseOrder   string
	ProformaInvoice string
	AllowedOrigins  []string
	StageTimeout    time.Duration
	ChartTimeout    time.Duration
	Postgres        PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
}

func GetConfig() Config {
	// Load .env if present; environment variables take precedence.
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "9090"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		ModelName:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ImageModelName:  getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		DBPath:          getEnv("DB_PATH", "./data/badger"),
		ReferenceDir:    getEnv("REFERENCE_DIR", "./reference"),
		DocumentsDir:    getEnv("DOCUMENTS_DIR", "./pdf_data"),
		PurchaseOrder:   getEnv("PURCHASE_ORDER_FILE", "Purchase_Order_2025-12-12.md"),
		ProformaInvoice: getEnv("PROFORMA_INVOICE_FILE", "Proforma_Invoice_2025-12-12.md"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		StageTimeout:    getEnvDuration("STAGE_TIMEOUT", 120*time.Second),
		ChartTimeout:    getEnvDuration("CHART_TIMEOUT", 300*time.Second),
		Postgres: PostgresConfig{
			Host:     getEnv("PG_HOST", ""),
			Port:     getEnv("PG_PORT", "5432"),
			Database: getEnv("PG_DATABASE", "postgres"),
			User:     getEnv("PG_USER", "postgres"),
			Password: getEnv("PG_PASSWORD", ""),
			SSLMode:  getEnv("PG_SSLMODE", "require"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
