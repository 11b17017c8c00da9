package config

import (
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether an attempt-history database was configured at all.
func (c DatabaseConfig) Enabled() bool {
	return c.DBName != ""
}

type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxCalls    int           // rate-limiter window capacity
	Window      time.Duration // rate-limiter window size
	MaxTokens   int
	Temperature float64
}

// Enabled reports whether an AI backend is configured. Without a key the
// engine runs in heuristic-only mode.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

type BrowserConfig struct {
	Headless       bool
	SlowMoMs       float64
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
	NavTimeout     time.Duration
}

type AppConfig struct {
	AI         AIConfig
	Browser    BrowserConfig
	Database   DatabaseConfig
	LedgerPath string
	RedisURL   string // optional cross-run answer store
	JobTimeout time.Duration
	MaxTabs    int
	AWSRegion  string
	AWSBucket  string
}

func GetAIConfig() AIConfig {
	return AIConfig{
		APIKey:      getEnv("DEEPSEEK_API_KEY", ""),
		BaseURL:     getEnv("AI_BASE_URL", "https://api.deepseek.com"),
		Model:       getEnv("AI_MODEL", "deepseek-chat"),
		Timeout:     getDurationEnv("AI_TIMEOUT_SECONDS", 30) * time.Second,
		MaxCalls:    getIntEnv("AI_RATE_MAX_CALLS", 50),
		Window:      getDurationEnv("AI_RATE_WINDOW_SECONDS", 60) * time.Second,
		MaxTokens:   getIntEnv("AI_MAX_TOKENS", 150),
		Temperature: 0.7,
	}
}

func GetBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       getEnv("BROWSER_HEADLESS", "false") == "true",
		SlowMoMs:       50,
		UserAgent:      getEnv("BROWSER_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		ViewportWidth:  getIntEnv("BROWSER_VIEWPORT_WIDTH", 1440),
		ViewportHeight: getIntEnv("BROWSER_VIEWPORT_HEIGHT", 900),
		Locale:         getEnv("BROWSER_LOCALE", "en-US"),
		TimezoneID:     getEnv("BROWSER_TIMEZONE", "America/Chicago"),
		NavTimeout:     getDurationEnv("BROWSER_NAV_TIMEOUT_SECONDS", 60) * time.Second,
	}
}

func GetDatabaseConfig() DatabaseConfig {
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetAppConfig() AppConfig {
	return AppConfig{
		AI:         GetAIConfig(),
		Browser:    GetBrowserConfig(),
		Database:   GetDatabaseConfig(),
		LedgerPath: getEnv("LEDGER_PATH", "submissions_database.json"),
		RedisURL:   getEnv("REDIS_URL", ""),
		JobTimeout: getDurationEnv("JOB_TIMEOUT_SECONDS", 600) * time.Second,
		MaxTabs:    getIntEnv("MAX_TABS", 1),
		AWSRegion:  getEnv("AWS_REGION", ""),
		AWSBucket:  getEnv("AWS_S3_BUCKET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, defaultSeconds))
}
