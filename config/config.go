package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Market describes one market's input CSV and report output directory.
type Market struct {
	Name      string
	CSVPath   string
	OutputDir string
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataDir    string
	OutputDir  string
	Markets    []Market
	VendorCSV  string
	PhotogCSV  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	GitHubToken   string
	GitHubRepo    string
	GitHubBranch  string
	GitHubCSVPath string

	MLSLoginURL  string
	MLSSearchURL string
	MLSUsername  string
	MLSPassword  string
	ChromeBin    string
	Headless     bool

	MaxConcurrency  int
	RateLimitMs     int
	MaxRetries      int
	IntervalHours   int
	PreviewSettleMs int

	ImportSources map[string][]string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		DataDir:   dataDir,
		OutputDir: getEnv("OUTPUT_DIR", "./output"),
		Markets: []Market{
			{
				Name:      getEnv("MARKET_1_NAME", "phoenix"),
				CSVPath:   getEnv("MARKET_1_CSV", filepath.Join(dataDir, "phoenix_listings.csv")),
				OutputDir: getEnv("MARKET_1_OUTPUT_DIR", "./phx-internal"),
			},
			{
				Name:      getEnv("MARKET_2_NAME", "tucson"),
				CSVPath:   getEnv("MARKET_2_CSV", filepath.Join(dataDir, "tucson_listings.csv")),
				OutputDir: getEnv("MARKET_2_OUTPUT_DIR", "./tuc-internal"),
			},
		},
		VendorCSV: getEnv("VENDOR_ORDERS_CSV", filepath.Join(dataDir, "listerpros_orders.csv")),
		PhotogCSV: getEnv("PREFERRED_PHOTOGRAPHERS_CSV", filepath.Join(dataDir, "preferred_photographers.csv")),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "listings"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "listings123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		GitHubRepo:    getEnv("GITHUB_REPO", ""),
		GitHubBranch:  getEnv("GITHUB_BRANCH", "main"),
		GitHubCSVPath: getEnv("GITHUB_CSV_PATH", "data/phoenix_listings.csv"),

		MLSLoginURL:  getEnv("MLS_LOGIN_URL", "https://armls.flexmls.com"),
		MLSSearchURL: getEnv("MLS_SEARCH_URL", ""),
		MLSUsername:  getEnv("MLS_USERNAME", ""),
		MLSPassword:  getEnv("MLS_PASSWORD", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),
		Headless:     getEnvBool("HEADLESS", true),

		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		IntervalHours:   getEnvInt("INTERVAL_HOURS", 6),
		PreviewSettleMs: getEnvInt("PREVIEW_SETTLE_MS", 15000),

		ImportSources: map[string][]string{},
	}

	for _, m := range cfg.Markets {
		current := getEnv("IMPORT_"+envKey(m.Name)+"_CURRENT", "")
		archive := getEnv("IMPORT_"+envKey(m.Name)+"_ARCHIVE", "")
		var sources []string
		if current != "" {
			sources = append(sources, current)
		}
		if archive != "" {
			sources = append(sources, archive)
		}
		cfg.ImportSources[m.Name] = sources
	}

	return cfg
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

func envKey(market string) string {
	out := make([]byte, 0, len(market))
	for i := 0; i < len(market); i++ {
		ch := market[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch == ' ' || ch == '-' {
			ch = '_'
		}
		out = append(out, ch)
	}
	return string(out)
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
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
