package reconcile

import (
	"context"
	"sync"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/rocjay1/piggy-notifier/internal/notify"
)

type MockWalletClient struct {
	FetchWalletFunc    func(ctx context.Context) (*models.Wallet, error)
	FetchPaymentsFunc  func(ctx context.Context) ([]models.Payment, error)
	ResolvePayLinkFunc func(ctx context.Context, id string) (*models.PayLink, error)
}

func (m *MockWalletClient) FetchWallet(ctx context.Context) (*models.Wallet, error) {
	return m.FetchWalletFunc(ctx)
}

func (m *MockWalletClient) FetchPayments(ctx context.Context) ([]models.Payment, error) {
	return m.FetchPaymentsFunc(ctx)
}

func (m *MockWalletClient) ResolvePayLink(ctx context.Context, id string) (*models.PayLink, error) {
	return m.ResolvePayLinkFunc(ctx, id)
}

// MockChatClient records every message it is asked to send.
type MockChatClient struct {
	SendFunc func(ctx context.Context, chatID int64, msg notify.Message) error

	mu   sync.Mutex
	Sent []notify.Message
}

func (m *MockChatClient) Send(ctx context.Context, chatID int64, msg notify.Message) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, chatID, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

type MockPaymentArchive struct {
	ArchivePaymentsFunc func(ctx context.Context, records []models.PaymentRecord) error
}

func (m *MockPaymentArchive) ArchivePayments(ctx context.Context, records []models.PaymentRecord) error {
	return m.ArchivePaymentsFunc(ctx, records)
}

type MockLedgerBackup struct {
	BackupLedgerFunc func(ctx context.Context, ledger models.DonationLedger) error
}

func (m *MockLedgerBackup) BackupLedger(ctx context.Context, ledger models.DonationLedger) error {
	return m.BackupLedgerFunc(ctx, ledger)
}

type MockDonationPublisher struct {
	PublishDonationFunc func(ctx context.Context, donation models.Donation) error
}

func (m *MockDonationPublisher) PublishDonation(ctx context.Context, donation models.Donation) error {
	return m.PublishDonationFunc(ctx, donation)
}

type MockReportMailer struct {
	SendReportFunc func(ctx context.Context, report models.DailyReport) error
}

func (m *MockReportMailer) SendReport(ctx context.Context, report models.DailyReport) error {
	return m.SendReportFunc(ctx, report)
}
