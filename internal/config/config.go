// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port     string // default "8080"
	Env      string // "development" | "staging" | "production"
	BaseURL  string // public origin used to absolutise postcard URLs
	LogLevel string // "debug" | "info" | "warn" | "error"; empty means by Env

	// ── Database ──────────────────────────────────────────────────────────────
	DBDriver    string // "sqlite3" | "postgres"
	DatabaseURL string // file path for sqlite3, DSN for postgres

	// ── Stripe ────────────────────────────────────────────────────────────────
	StripeSecretKey    string
	CheckoutCurrency   string // default "gbp"
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// ── Email ─────────────────────────────────────────────────────────────────
	// SMTP is used unless RESEND_API_KEY is set.
	SMTPHost      string // default "smtp.gmail.com"
	SMTPPort      int    // default 465 (implicit TLS)
	SMTPUser      string // also the From address
	SMTPPass      string
	ResendAPIKey  string
	EmailFromAddr string // Resend sender; defaults to SMTP_USER
	EmailFromName string // default "Giftie"

	// ── Message writers ───────────────────────────────────────────────────────
	// Both optional. With neither set, generated messages use the fallback.
	OpenAIAPIKey    string
	OpenAIModel     string // default "gpt-4"
	OpenAIBaseURL   string // OpenAI-compatible API root
	AnthropicAPIKey string
	AnthropicModel  string

	// ── Postcards ─────────────────────────────────────────────────────────────
	PostcardDir   string        // default "postcards"
	RenderWorkers int           // default 2
	RenderTimeout time.Duration // default 60s
	ChromePath    string        // optional Chrome/Chromium binary
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // absent file is fine

	c := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:           strings.ToLower(os.Getenv("LOG_LEVEL")),
		DBDriver:           getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:        getEnv("DATABASE_URL", "giftie.db"),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", os.Getenv("STRIPE_KEY")),
		CheckoutCurrency:   strings.ToLower(getEnv("CHECKOUT_CURRENCY", "gbp")),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "https://giftie.example.com/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "https://giftie.example.com/cancel"),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Giftie"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		PostcardDir:        getEnv("POSTCARD_DIR", "postcards"),
		RenderWorkers:      getEnvAsInt("RENDER_WORKERS", 2),
		RenderTimeout:      getEnvAsDuration("RENDER_TIMEOUT", 60*time.Second),
		ChromePath:         os.Getenv("CHROME_PATH"),
	}
	c.EmailFromAddr = getEnv("EMAIL_FROM_ADDR", c.SMTPUser)

	return c, c.validate()
}

// UseResend reports whether email goes through the Resend API instead of SMTP.
func (c *Config) UseResend() bool { return c.ResendAPIKey != "" }

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// RequestTimeout is the HTTP per-request deadline. It always leaves room for
// a full RENDER_TIMEOUT plus time spent queued for a render worker.
func (c *Config) RequestTimeout() time.Duration {
	return max(90*time.Second, c.RenderTimeout+30*time.Second)
}

func (c *Config) validate() error {
	var errs []error

	if c.StripeSecretKey == "" {
		errs = append(errs, fmt.Errorf("missing required env var: STRIPE_SECRET_KEY"))
	}

	if c.UseResend() {
		if _, err := mail.ParseAddress(c.EmailFromAddr); err != nil {
			errs = append(errs, fmt.Errorf("EMAIL_FROM_ADDR (or SMTP_USER) must be a valid address when RESEND_API_KEY is set"))
		}
	} else {
		if c.SMTPUser == "" {
			errs = append(errs, fmt.Errorf("missing required env var: SMTP_USER (or set RESEND_API_KEY)"))
		}
		if c.SMTPPass == "" {
			errs = append(errs, fmt.Errorf("missing required env var: SMTP_PASS (or set RESEND_API_KEY)"))
		}
	}

	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.DBDriver))
	}

	if c.RenderWorkers < 1 {
		errs = append(errs, fmt.Errorf("RENDER_WORKERS must be at least 1"))
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort))
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
