package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Secrets (from .env)
	CieloAPIKey     string
	APIKey          string
	WebhookURL      string
	ServiceName     string
	CORSAllowOrigin string

	// Server
	Port int

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Provider timeouts
	CieloTimeoutSeconds int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		CieloAPIKey:     envStr("CIELO_API_KEY", ""),
		APIKey:          envStr("API_KEY", ""),
		WebhookURL:      envStr("WEBHOOK_URL", ""),
		ServiceName:     envStr("SERVICE_NAME", "SolSmartDirectory"),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Server
		Port: envInt("PORT", 3001),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "solsmart_directory"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// Provider
		CieloTimeoutSeconds: envInt("CIELO_TIMEOUT_SECONDS", 15),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.CieloAPIKey == "" {
		fmt.Println("[WARN] CIELO_API_KEY not set — submission validation runs in disabled mode, every submission will be rejected")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== SolSmart Directory Backend Configuration ===")
	fmt.Printf("Service: %s\n", c.ServiceName)
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Println("--------------------------------------")
	fmt.Printf("Database: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	fmt.Printf("Cielo API: %s\n", boolLabel(c.CieloAPIKey != "", "configured", "not set (disabled mode)"))
	fmt.Printf("Cielo timeout: %ds\n", c.CieloTimeoutSeconds)
	fmt.Printf("Approval webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Printf("API auth: %s\n", boolLabel(c.APIKey != "", "enabled", "disabled"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
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
