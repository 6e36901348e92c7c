package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Metals provider
	GoldURL     string
	SilverURL   string
	CombinedURL string
	APIKey      string
	AuthHeader  string

	// History file
	HistoryPath string

	// Firestore
	ServiceAccount   string
	FirestoreProject string
	Collection       string

	// Postgres archive (optional)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Notifications
	WebhookURL string
	BotName    string

	// REST API
	Port            int
	APIServerKey    string
	CORSAllowOrigin string

	// Scheduler
	SyncIntervalMinutes int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GoldURL:     envStr("METALS_GOLD_URL", "https://api.gold-api.com/price/XAU"),
		SilverURL:   envStr("METALS_SILVER_URL", "https://api.gold-api.com/price/XAG"),
		CombinedURL: strings.TrimSpace(envStr("METALS_API_URL", "")),
		APIKey:      strings.TrimSpace(envStr("METALS_API_KEY", "")),
		AuthHeader:  envStr("API_AUTH_HEADER", "X-API-Key"),

		HistoryPath: envStr("HISTORY_JSON_PATH", "history.json"),

		ServiceAccount:   envStr("FIREBASE_SERVICE_ACCOUNT", ""),
		FirestoreProject: envStr("FIRESTORE_PROJECT_ID", ""),
		Collection:       envStr("FIRESTORE_COLLECTION", "metals_daily_usd"),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "metals"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		WebhookURL: envStr("WEBHOOK_URL", ""),
		BotName:    envStr("BOT_NAME", "MetalsDailySync"),

		Port:            envInt("PORT", 3001),
		APIServerKey:    envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		SyncIntervalMinutes: envInt("SYNC_INTERVAL_MINUTES", 60),
	}

	return cfg, nil
}

// ValidateDailySync checks the settings the Firestore sync job needs.
func (c *Config) ValidateDailySync() error {
	var errs []string

	if c.ServiceAccount == "" {
		errs = append(errs, "FIREBASE_SERVICE_ACCOUNT is required")
	}
	if c.CombinedURL == "" && (c.GoldURL == "" || c.SilverURL == "") {
		errs = append(errs, "METALS_API_URL or both METALS_GOLD_URL and METALS_SILVER_URL are required")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] METALS_API_KEY not set — requests go out unauthenticated")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ValidateHistorySync checks the settings the history file job needs.
func (c *Config) ValidateHistorySync() error {
	var errs []string

	if c.GoldURL == "" || c.SilverURL == "" {
		errs = append(errs, "METALS_GOLD_URL and METALS_SILVER_URL are required")
	}
	if c.HistoryPath == "" {
		errs = append(errs, "HISTORY_JSON_PATH must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ValidateServer checks the settings the API server needs.
func (c *Config) ValidateServer() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required for the API server")
	}
	if c.APIServerKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if c.ServiceAccount == "" {
		fmt.Println("[WARN] FIREBASE_SERVICE_ACCOUNT not set — in-process daily sync disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ArchiveEnabled reports whether a Postgres archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.DBUser != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) Print() {
	fmt.Println("=== Metals Daily Sync Configuration ===")
	if c.CombinedURL != "" {
		fmt.Printf("Combined endpoint: %s\n", c.CombinedURL)
	} else {
		fmt.Printf("Gold endpoint:   %s\n", c.GoldURL)
		fmt.Printf("Silver endpoint: %s\n", c.SilverURL)
	}
	fmt.Printf("Auth header: %s (%s)\n", c.AuthHeader, boolLabel(c.APIKey != "", "key configured", "no key"))
	fmt.Printf("History file: %s\n", c.HistoryPath)
	fmt.Printf("Firestore collection: %s (%s)\n", c.Collection,
		boolLabel(c.ServiceAccount != "", "credentials configured", "credentials not set"))
	fmt.Printf("Postgres archive: %s\n", boolLabel(c.ArchiveEnabled(), "enabled", "disabled"))
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("=======================================")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
