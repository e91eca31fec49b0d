package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rocjay1/piggy-notifier/internal/commands"
	"github.com/rocjay1/piggy-notifier/internal/config"
	"github.com/rocjay1/piggy-notifier/internal/lnbits"
	"github.com/rocjay1/piggy-notifier/internal/logging"
	"github.com/rocjay1/piggy-notifier/internal/notify"
	"github.com/rocjay1/piggy-notifier/internal/reconcile"
	"github.com/rocjay1/piggy-notifier/internal/sanitize"
	"github.com/rocjay1/piggy-notifier/internal/scheduler"
	"github.com/rocjay1/piggy-notifier/internal/services"
	"github.com/rocjay1/piggy-notifier/internal/store"
	"github.com/rocjay1/piggy-notifier/internal/telegram"
)

const (
	jobPayments = "payments"
	jobBalance  = "balance"
	jobReport   = "report"
)

var jobNames = []string{jobPayments, jobBalance, jobReport}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logs     io.Closer
	monitor  *reconcile.Monitor
	commands *commands.Dispatcher
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return nil, err
	}

	logger, logs := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(logger)

	sanitizer, err := sanitize.LoadWords(cfg.ForbiddenWordsFile)
	if err != nil {
		slog.Error("failed to load forbidden words, memos will not be sanitized", "path", cfg.ForbiddenWordsFile, "error", err)
		sanitizer = sanitize.New(nil)
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken)
	if err != nil {
		logs.Close()
		return nil, err
	}

	wallet := lnbits.NewClient(cfg.LNbitsURL, cfg.LNbitsAPIKey)
	composer := notify.NewComposer(notify.Settings{
		InstanceName:                cfg.InstanceName,
		DonationsURL:                cfg.DonationsURL,
		BalanceChangeThreshold:      cfg.BalanceChangeThreshold,
		HighlightThreshold:          cfg.HighlightThreshold,
		WalletInfoUpdateInterval:    cfg.WalletInfoUpdateInterval,
		BalanceNotificationInterval: cfg.BalanceNotificationInterval,
		PaymentsFetchInterval:       cfg.PaymentsFetchInterval,
	}, sanitizer, cfg.NumberLocale)

	deps := reconcile.Dependencies{
		Wallet:    wallet,
		Chat:      bot,
		Store:     store.NewFileStore(cfg.ProcessedPaymentsFile, cfg.CurrentBalanceFile, cfg.DonationsFile),
		Composer:  composer,
		Sanitizer: sanitizer,
	}
	attachServices(ctx, &deps, cfg.InstanceName)

	monitor := reconcile.NewMonitor(reconcile.Options{
		ChatID:                 cfg.ChatID,
		PayLinkID:              cfg.PayLinkID,
		LatestCount:            cfg.LatestTransactionsCount,
		BalanceChangeThreshold: cfg.BalanceChangeThreshold,
		HighlightThreshold:     cfg.HighlightThreshold,
		LNbitsDomain:           cfg.LNbitsDomain,
		DonationsURL:           cfg.DonationsURL,
		InformationURL:         cfg.InformationURL,
	}, deps)

	slog.Info("notifier initialized",
		"instance", cfg.InstanceName,
		"lnbits_url", cfg.LNbitsURL,
		"forbidden_words", sanitizer.Len(),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		logs:     logs,
		monitor:  monitor,
		commands: commands.NewDispatcher(wallet, bot, composer, cfg.LatestTransactionsCount),
	}, nil
}

// attachServices wires every cloud mirror whose endpoint is configured.
func attachServices(ctx context.Context, deps *reconcile.Dependencies, instanceName string) {
	if archive, err := services.NewPaymentArchive(ctx); err == nil {
		deps.Archive = archive
	} else {
		logServiceError("payment archive", err)
	}

	if backup, err := services.NewLedgerBackup(ctx); err == nil {
		deps.Backup = backup
	} else {
		logServiceError("ledger backup", err)
	}

	if events, err := services.NewDonationEvents(ctx); err == nil {
		deps.Publisher = events
	} else {
		logServiceError("donation events", err)
	}

	if mailer, err := services.NewEmailService(nil, instanceName); err == nil {
		deps.Mailer = mailer
	} else {
		logServiceError("email service", err)
	}
}

func logServiceError(name string, err error) {
	if errors.Is(err, services.ErrNotConfigured) {
		slog.Debug("optional service disabled", "service", name)
		return
	}
	slog.Warn("failed to init optional service (continuing without it)", "service", name, "error", err)
}

func (a *app) jobs() []scheduler.Job {
	return []scheduler.Job{
		{Name: jobPayments, Interval: a.cfg.PaymentsFetchInterval, Run: a.monitor.ProcessPayments},
		{Name: jobBalance, Interval: a.cfg.WalletInfoUpdateInterval, Run: a.monitor.CheckBalanceChange},
		{Name: jobReport, Interval: a.cfg.BalanceNotificationInterval, Run: a.monitor.SendDailyReport},
	}
}

// Close releases the log file.
func (a *app) Close() {
	if err := a.logs.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close log file:", err)
	}
}
