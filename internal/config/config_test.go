package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var allKeys = []string{
	"TELEGRAM_BOT_TOKEN", "CHAT_ID", "LNBITS_READONLY_API_KEY", "LNBITS_URL",
	"INSTANCE_NAME", "LNURLP_ID", "BALANCE_CHANGE_THRESHOLD", "HIGHLIGHT_THRESHOLD",
	"LATEST_TRANSACTIONS_COUNT", "WALLET_INFO_UPDATE_INTERVAL",
	"WALLET_BALANCE_NOTIFICATION_INTERVAL", "PAYMENTS_FETCH_INTERVAL",
	"APP_HOST", "APP_PORT", "PROCESSED_PAYMENTS_FILE", "CURRENT_BALANCE_FILE",
	"DONATIONS_FILE", "FORBIDDEN_WORDS_FILE", "DONATIONS_URL", "INFORMATION_URL",
	"NUMBER_LOCALE", "LOG_FILE", "LOG_LEVEL",
}

// clearEnv unsets every known variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-100200300")
	t.Setenv("LNBITS_READONLY_API_KEY", "read-key")
	t.Setenv("LNBITS_URL", "https://lnbits.example.com:8443/")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, int64(-100200300), cfg.ChatID)
	assert.Equal(t, "https://lnbits.example.com:8443", cfg.LNbitsURL)
	assert.Equal(t, "lnbits.example.com:8443", cfg.LNbitsDomain)
	assert.Equal(t, "LNbits Instance", cfg.InstanceName)
	assert.Equal(t, "", cfg.PayLinkID)
	assert.Equal(t, int64(10), cfg.BalanceChangeThreshold)
	assert.Equal(t, int64(2100), cfg.HighlightThreshold)
	assert.Equal(t, 21, cfg.LatestTransactionsCount)
	assert.Equal(t, 24*time.Hour, cfg.WalletInfoUpdateInterval)
	assert.Equal(t, 24*time.Hour, cfg.BalanceNotificationInterval)
	assert.Equal(t, time.Minute, cfg.PaymentsFetchInterval)
	assert.Equal(t, "127.0.0.1:5009", cfg.ListenAddr())
	assert.Equal(t, "processed_payments.txt", cfg.ProcessedPaymentsFile)
	assert.Equal(t, "current-balance.txt", cfg.CurrentBalanceFile)
	assert.Equal(t, "donations.json", cfg.DonationsFile)
	assert.Equal(t, "forbidden_words.txt", cfg.ForbiddenWordsFile)
	assert.Equal(t, language.English, cfg.NumberLocale)
	assert.Equal(t, "app.log", cfg.LogFile)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("PAYMENTS_FETCH_INTERVAL", "0")
	t.Setenv("BALANCE_CHANGE_THRESHOLD", "500")
	t.Setenv("NUMBER_LOCALE", "de")
	t.Setenv("DONATIONS_URL", "https://piggy.example.com/donations")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.PaymentsFetchInterval)
	assert.Equal(t, int64(500), cfg.BalanceChangeThreshold)
	assert.Equal(t, language.German, cfg.NumberLocale)
	assert.Equal(t, "https://piggy.example.com/donations", cfg.DonationsURL)
	assert.Equal(t, "DEBUG", cfg.LogLevel.String())
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN is required")
	assert.Contains(t, err.Error(), "CHAT_ID is required")
	assert.Contains(t, err.Error(), "LNBITS_READONLY_API_KEY is required")
	assert.Contains(t, err.Error(), "LNBITS_URL is required")
}

func TestLoad_ZeroChatID(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("CHAT_ID", "0")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_ID is required and must be a non-zero integer")
	assert.NotContains(t, err.Error(), "CHAT_ID must be an integer")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("CHAT_ID", "my-chat")
	t.Setenv("PAYMENTS_FETCH_INTERVAL", "-5")
	t.Setenv("HIGHLIGHT_THRESHOLD", "a lot")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `CHAT_ID must be an integer, got "my-chat"`)
	assert.Contains(t, err.Error(), "PAYMENTS_FETCH_INTERVAL must not be negative")
	assert.Contains(t, err.Error(), "HIGHLIGHT_THRESHOLD must be an integer")
}

func TestLoad_RelativeURL(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("LNBITS_URL", "lnbits.local")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LNBITS_URL must be an absolute URL")
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "notifier.env")
	content := "TELEGRAM_BOT_TOKEN=from-file\nCHAT_ID=42\nLNBITS_READONLY_API_KEY=file-key\nLNBITS_URL=http://localhost:5000\nINSTANCE_NAME=Piggy\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("INSTANCE_NAME", "From Env")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TelegramBotToken)
	assert.Equal(t, int64(42), cfg.ChatID)
	assert.Equal(t, "localhost:5000", cfg.LNbitsDomain)
	assert.Equal(t, "From Env", cfg.InstanceName)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load env file")
}
