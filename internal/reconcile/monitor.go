// Package reconcile owns the notifier state: the processed-payment set, the
// donation ledger and the latest balance snapshot. All mutation goes through
// Monitor, which serializes job runs.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/rocjay1/piggy-notifier/internal/notify"
	"github.com/rocjay1/piggy-notifier/internal/sanitize"
	"github.com/shopspring/decimal"
)

const (
	unavailable       = "Unavailable"
	unknownUsername   = "Unknown"
	unknownWallet     = "Unknown Wallet"
	snapshotMemo      = "N/A"
	maxLatestHashes   = 100
	changeInitial     = "initial balance set"
	changeDailyReport = "daily balance report"
)

// ErrNoPayLink is returned when no donation pay link is configured.
var ErrNoPayLink = errors.New("no donation pay link configured")

// WalletClient reads from the wallet service.
type WalletClient interface {
	FetchWallet(ctx context.Context) (*models.Wallet, error)
	FetchPayments(ctx context.Context) ([]models.Payment, error)
	ResolvePayLink(ctx context.Context, id string) (*models.PayLink, error)
}

// ChatClient delivers rendered messages.
type ChatClient interface {
	Send(ctx context.Context, chatID int64, msg notify.Message) error
}

// StateStore persists the monitor state between restarts.
type StateStore interface {
	LoadProcessedPayments() map[string]struct{}
	RecordProcessedPayment(id string)
	LoadLastBalance() (decimal.Decimal, bool)
	SaveBalance(balance decimal.Decimal)
	LoadDonations(ledger *models.DonationLedger)
	SaveDonations(ledger models.DonationLedger) error
}

// PaymentArchive mirrors processed payments to long-term storage.
type PaymentArchive interface {
	ArchivePayments(ctx context.Context, records []models.PaymentRecord) error
}

// LedgerBackup copies the donation ledger off the host.
type LedgerBackup interface {
	BackupLedger(ctx context.Context, ledger models.DonationLedger) error
}

// DonationPublisher announces newly detected donations.
type DonationPublisher interface {
	PublishDonation(ctx context.Context, donation models.Donation) error
}

// ReportMailer mails the daily report.
type ReportMailer interface {
	SendReport(ctx context.Context, report models.DailyReport) error
}

// Options are the static settings of a Monitor.
type Options struct {
	ChatID                 int64
	PayLinkID              string
	LatestCount            int
	BalanceChangeThreshold int64
	HighlightThreshold     int64
	LNbitsDomain           string
	DonationsURL           string
	InformationURL         string
}

// Dependencies holds the collaborators of a Monitor. The archive, backup,
// publisher and mailer are optional.
type Dependencies struct {
	Wallet    WalletClient
	Chat      ChatClient
	Store     StateStore
	Composer  *notify.Composer
	Sanitizer *sanitize.Sanitizer

	Archive   PaymentArchive
	Backup    LedgerBackup
	Publisher DonationPublisher
	Mailer    ReportMailer
}

// Monitor reconciles wallet state against what was already reported.
type Monitor struct {
	opts Options
	deps Dependencies
	now  func() time.Time

	// runMu serializes job runs so a manual run never overlaps a scheduled one.
	runMu sync.Mutex

	mu             sync.RWMutex
	processed      map[string]struct{}
	ledger         models.DonationLedger
	balance        models.BalanceSnapshot
	latestPayments []string
	lastUpdate     time.Time
}

// NewMonitor creates a Monitor and loads the persisted state.
func NewMonitor(opts Options, deps Dependencies) *Monitor {
	m := &Monitor{
		opts:      opts,
		deps:      deps,
		now:       time.Now,
		processed: deps.Store.LoadProcessedPayments(),
		ledger: models.DonationLedger{
			TotalDonations: decimal.Zero,
			Donations:      []models.Donation{},
		},
		latestPayments: []string{},
	}
	deps.Store.LoadDonations(&m.ledger)
	m.lastUpdate = m.now().UTC()

	slog.Info("monitor initialized",
		"processed_payments", len(m.processed),
		"donations", len(m.ledger.Donations),
		"total_donations", m.ledger.TotalDonations.String(),
	)
	return m
}

// LastUpdate returns when the donation ledger last changed.
func (m *Monitor) LastUpdate() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdate
}

// Balance returns the latest balance snapshot.
func (m *Monitor) Balance() models.BalanceSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance
}

// Ledger returns a copy of the donation ledger.
func (m *Monitor) Ledger() models.DonationLedger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Clone()
}

// IsProcessed reports whether id was already reported.
func (m *Monitor) IsProcessed(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.processed[id]
	return ok
}

func (m *Monitor) setBalance(balance decimal.Decimal, change string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = models.BalanceSnapshot{
		BalanceSats: decimal.NewNullDecimal(balance),
		LastChange:  change,
		Memo:        snapshotMemo,
	}
}

func (m *Monitor) notify(ctx context.Context, msg notify.Message) error {
	return m.deps.Chat.Send(ctx, m.opts.ChatID, msg)
}
