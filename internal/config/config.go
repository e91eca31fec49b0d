// Package config loads the notifier settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds every setting of the process. It is read once at startup and
// never mutated afterwards.
type Config struct {
	TelegramBotToken string
	ChatID           int64
	LNbitsAPIKey     string
	LNbitsURL        string
	LNbitsDomain     string
	InstanceName     string
	PayLinkID        string

	BalanceChangeThreshold  int64
	HighlightThreshold      int64
	LatestTransactionsCount int

	WalletInfoUpdateInterval    time.Duration
	BalanceNotificationInterval time.Duration
	PaymentsFetchInterval       time.Duration

	AppHost string
	AppPort int

	ProcessedPaymentsFile string
	CurrentBalanceFile    string
	DonationsFile         string
	ForbiddenWordsFile    string

	DonationsURL   string
	InformationURL string

	NumberLocale language.Tag
	LogFile      string
	LogLevel     slog.Level
}

var defaults = map[string]any{
	"INSTANCE_NAME":                        "LNbits Instance",
	"BALANCE_CHANGE_THRESHOLD":             10,
	"HIGHLIGHT_THRESHOLD":                  2100,
	"LATEST_TRANSACTIONS_COUNT":            21,
	"WALLET_INFO_UPDATE_INTERVAL":          86400,
	"WALLET_BALANCE_NOTIFICATION_INTERVAL": 86400,
	"PAYMENTS_FETCH_INTERVAL":              60,
	"APP_HOST":                             "127.0.0.1",
	"APP_PORT":                             5009,
	"PROCESSED_PAYMENTS_FILE":              "processed_payments.txt",
	"CURRENT_BALANCE_FILE":                 "current-balance.txt",
	"DONATIONS_FILE":                       "donations.json",
	"FORBIDDEN_WORDS_FILE":                 "forbidden_words.txt",
	"NUMBER_LOCALE":                        "en",
	"LOG_FILE":                             "app.log",
	"LOG_LEVEL":                            "info",
}

// Load reads envFile into the process environment (variables already set take
// precedence) and builds a validated Config. An empty envFile loads ./.env
// when present.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	p := &parser{v: v}
	cfg := &Config{
		TelegramBotToken: p.str("TELEGRAM_BOT_TOKEN"),
		ChatID:           p.int64("CHAT_ID"),
		LNbitsAPIKey:     p.str("LNBITS_READONLY_API_KEY"),
		LNbitsURL:        strings.TrimRight(p.str("LNBITS_URL"), "/"),
		InstanceName:     p.str("INSTANCE_NAME"),
		PayLinkID:        p.str("LNURLP_ID"),

		BalanceChangeThreshold:  p.nonNegative("BALANCE_CHANGE_THRESHOLD"),
		HighlightThreshold:      p.nonNegative("HIGHLIGHT_THRESHOLD"),
		LatestTransactionsCount: int(p.nonNegative("LATEST_TRANSACTIONS_COUNT")),

		WalletInfoUpdateInterval:    p.seconds("WALLET_INFO_UPDATE_INTERVAL"),
		BalanceNotificationInterval: p.seconds("WALLET_BALANCE_NOTIFICATION_INTERVAL"),
		PaymentsFetchInterval:       p.seconds("PAYMENTS_FETCH_INTERVAL"),

		AppHost: p.str("APP_HOST"),
		AppPort: int(p.nonNegative("APP_PORT")),

		ProcessedPaymentsFile: p.str("PROCESSED_PAYMENTS_FILE"),
		CurrentBalanceFile:    p.str("CURRENT_BALANCE_FILE"),
		DonationsFile:         p.str("DONATIONS_FILE"),
		ForbiddenWordsFile:    p.str("FORBIDDEN_WORDS_FILE"),

		DonationsURL:   p.str("DONATIONS_URL"),
		InformationURL: p.str("INFORMATION_URL"),

		NumberLocale: p.locale("NUMBER_LOCALE"),
		LogFile:      p.str("LOG_FILE"),
		LogLevel:     p.level("LOG_LEVEL"),
	}

	if err := errors.Join(append(p.errs, cfg.Validate())...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks required settings and derives LNbitsDomain.
func (c *Config) Validate() error {
	var errs []error
	for name, value := range map[string]string{
		"TELEGRAM_BOT_TOKEN":      c.TelegramBotToken,
		"LNBITS_READONLY_API_KEY": c.LNbitsAPIKey,
		"LNBITS_URL":              c.LNbitsURL,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	if c.ChatID == 0 {
		errs = append(errs, errors.New("CHAT_ID is required and must be a non-zero integer"))
	}

	if c.LNbitsURL != "" {
		u, err := url.Parse(c.LNbitsURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("LNBITS_URL is not a valid URL: %w", err))
		case u.Scheme == "" || u.Host == "":
			errs = append(errs, fmt.Errorf("LNBITS_URL must be an absolute URL, got %q", c.LNbitsURL))
		default:
			c.LNbitsDomain = u.Host
		}
	}

	if c.AppPort == 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be between 1 and 65535, got %d", c.AppPort))
	}

	return errors.Join(errs...)
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// parser reads raw values through viper and collects conversion errors, so a
// single startup reports every bad variable at once.
type parser struct {
	v    *viper.Viper
	errs []error
}

func (p *parser) str(key string) string {
	return strings.TrimSpace(p.v.GetString(key))
}

func (p *parser) int64(key string) int64 {
	raw := p.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer, got %q", key, raw))
		return 0
	}
	return n
}

func (p *parser) nonNegative(key string) int64 {
	n := p.int64(key)
	if n < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s must not be negative, got %d", key, n))
		return 0
	}
	return n
}

func (p *parser) seconds(key string) time.Duration {
	return time.Duration(p.nonNegative(key)) * time.Second
}

func (p *parser) locale(key string) language.Tag {
	raw := p.str(key)
	tag, err := language.Parse(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s is not a valid language tag: %q", key, raw))
		return language.English
	}
	return tag
}

func (p *parser) level(key string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(p.str(key))); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s is not a valid log level: %q", key, p.str(key)))
		return slog.LevelInfo
	}
	return lvl
}
