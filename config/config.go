package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	Year     int
	Seed     uint64
	SeedFile string

	OutputDir string

	ScrapeURL     string
	ScrapeTimeout time.Duration
	SettleDelay   time.Duration
	MaxRetries    int
	ChromeBin     string
	Headless      bool

	SpreadsheetID   string
	CredentialsFile string

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "housing"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "housing123"),
		PostgresDB:       getEnv("POSTGRES_DB", "housing"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Year:     getEnvInt("GEN_YEAR", 2024),
		Seed:     uint64(getEnvInt("GEN_SEED", 0)),
		SeedFile: getEnv("GEN_SEED_FILE", ""),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		ScrapeURL:     getEnv("SCRAPE_URL", "https://zfcj.gz.gov.cn/zfcj/tjxx/spfxstjxx"),
		ScrapeTimeout: time.Duration(getEnvInt("SCRAPE_TIMEOUT_SEC", 60)) * time.Second,
		SettleDelay:   time.Duration(getEnvInt("SCRAPE_SETTLE_MS", 3000)) * time.Millisecond,
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		Headless:      getEnvBool("HEADLESS", true),

		SpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
