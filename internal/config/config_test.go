package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "ENV", "BASE_URL", "LOG_LEVEL", "DB_DRIVER", "DATABASE_URL",
	"STRIPE_SECRET_KEY", "STRIPE_KEY", "CHECKOUT_CURRENCY",
	"CHECKOUT_SUCCESS_URL", "CHECKOUT_CANCEL_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
	"RESEND_API_KEY", "EMAIL_FROM_ADDR", "EMAIL_FROM_NAME",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
	"POSTCARD_DIR", "RENDER_WORKERS", "RENDER_TIMEOUT", "CHROME_PATH",
}

// cleanEnv blanks every key Load reads and runs the test from an empty
// directory so a developer's .env cannot leak in.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_DefaultsWithSMTP(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("SMTP_USER", "giftie@gmail.com")
	t.Setenv("SMTP_PASS", "app-password")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "sqlite3", c.DBDriver)
	assert.Equal(t, "giftie.db", c.DatabaseURL)
	assert.Equal(t, "gbp", c.CheckoutCurrency)
	assert.Equal(t, "smtp.gmail.com", c.SMTPHost)
	assert.Equal(t, 465, c.SMTPPort)
	assert.Equal(t, "gpt-4", c.OpenAIModel)
	assert.Equal(t, "postcards", c.PostcardDir)
	assert.Equal(t, 2, c.RenderWorkers)
	assert.Equal(t, 60*time.Second, c.RenderTimeout)
	assert.Equal(t, "giftie@gmail.com", c.EmailFromAddr)
	assert.False(t, c.UseResend())
}

func TestLoad_StripeKeyAlias(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STRIPE_KEY", "sk_test_alias")
	t.Setenv("SMTP_USER", "u@example.com")
	t.Setenv("SMTP_PASS", "p")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk_test_alias", c.StripeSecretKey)
}

func TestLoad_MissingRequiredJoinsAllErrors(t *testing.T) {
	cleanEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "SMTP_USER")
	assert.Contains(t, err.Error(), "SMTP_PASS")
}

func TestLoad_ResendReplacesSMTPRequirement(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("EMAIL_FROM_ADDR", "postcards@giftie.app")

	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.UseResend())
}

func TestLoad_ResendNeedsFromAddress(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk")
	t.Setenv("RESEND_API_KEY", "re_123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_FROM_ADDR")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk")
	t.Setenv("SMTP_USER", "u@example.com")
	t.Setenv("SMTP_PASS", "p")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoad_DotEnvDoesNotOverrideRealEnv(t *testing.T) {
	cleanEnv(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	env := "STRIPE_SECRET_KEY=sk_from_file\nSMTP_USER=file@example.com\nSMTP_PASS=file-pass\nPORT=9999\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	// Setenv registers cleanup that restores the blank value, so keys the
	// file sets are reset after the test.
	for _, k := range []string{"STRIPE_SECRET_KEY", "SMTP_USER", "SMTP_PASS", "PORT"} {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("PORT", "7000")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk_from_file", c.StripeSecretKey)
	assert.Equal(t, "7000", c.Port)
}

func TestRequestTimeout_CoversRenderTimeout(t *testing.T) {
	c := &Config{RenderTimeout: 60 * time.Second}
	assert.Equal(t, 90*time.Second, c.RequestTimeout())

	c.RenderTimeout = 5 * time.Minute
	assert.Equal(t, 5*time.Minute+30*time.Second, c.RequestTimeout())
	assert.Greater(t, c.RequestTimeout(), c.RenderTimeout)
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "90")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "2m")
	assert.Equal(t, 2*time.Minute, getEnvAsDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("X_TIMEOUT", time.Second))
}
