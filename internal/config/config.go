package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	CachePath     string
	HistoryDBPath string
	OutputDir     string

	SheetName     string
	SheetPassword string
	HeaderRow     int
	BOMHeaderRow  int

	StaleMaxAgeDays int
	MacroName       string
	WriteColumn     int
	FirstDataRow    int

	MouserAPIKey  string
	MouserBaseURL string

	ACBaseURL string

	NexarClientID     string
	NexarClientSecret string
	NexarTokenURL     string
	NexarAPIURL       string
	FXRateURL         string

	VendorTimeoutMs    int
	VendorRateLimitRPS int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CachePath:     getEnv("DB_CACHE_PATH", filepath.Join(cwd, "data", "database.json")),
		HistoryDBPath: getEnv("HISTORY_DB_PATH", filepath.Join(cwd, "data", "history.db")),
		OutputDir:     getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		SheetName:     getEnv("EXCEL_SHEET_NAME", "DB_4erDS"),
		SheetPassword: getEnv("EXCEL_PASSWORD", ""),
		HeaderRow:     getEnvInt("EXCEL_HEADER_ROW", 6),
		BOMHeaderRow:  getEnvInt("BOM_HEADER_ROW", 6),

		StaleMaxAgeDays: getEnvInt("STALE_MAX_AGE_DAYS", 365),
		MacroName:       getEnv("EXCEL_MACRO_NAME", "NewPricesInDB"),
		WriteColumn:     getEnvInt("EXCEL_WRITE_COLUMN", 24),
		FirstDataRow:    getEnvInt("EXCEL_FIRST_DATA_ROW", 8),

		MouserAPIKey:  getEnv("MOUSER_API_KEY", ""),
		MouserBaseURL: getEnv("MOUSER_BASE_URL", "https://api.mouser.com/api/v1"),

		ACBaseURL: getEnv("AC_BASE_URL", "https://www.automotive-connectors.com"),

		NexarClientID:     getEnv("NEXAR_CLIENT_ID", ""),
		NexarClientSecret: getEnv("NEXAR_CLIENT_SECRET", ""),
		NexarTokenURL:     getEnv("NEXAR_TOKEN_URL", "https://identity.nexar.com/connect/token"),
		NexarAPIURL:       getEnv("NEXAR_API_URL", "https://api.nexar.com/graphql"),
		FXRateURL:         getEnv("FX_RATE_URL", "https://api.exchangerate.host/latest?base=USD&symbols=EUR"),

		VendorTimeoutMs:    getEnvInt("VENDOR_TIMEOUT_MS", 10000),
		VendorRateLimitRPS: getEnvInt("VENDOR_RATE_LIMIT_RPS", 2),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
