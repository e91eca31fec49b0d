package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/shopspring/decimal"
)

// CheckBalanceChange compares the wallet balance with the last notified one.
// The first run only records the balance. Later runs notify when the change
// reaches the threshold, and only then persist the new balance.
func (m *Monitor) CheckBalanceChange(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	slog.Info("checking balance change")
	wallet, err := m.deps.Wallet.FetchWallet(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch wallet: %w", err)
	}
	current := wallet.Balance.SatsDecimal()

	last, ok := m.deps.Store.LoadLastBalance()
	if !ok {
		m.deps.Store.SaveBalance(current)
		m.setBalance(current, changeInitial)
		slog.Info("initial balance set", "balance_sats", current.String())
		return nil
	}

	change := current.Sub(last)
	threshold := decimal.NewFromInt(m.opts.BalanceChangeThreshold)
	if change.IsZero() || change.Abs().LessThan(threshold) {
		slog.Info("balance change below threshold, no notification sent",
			"change_sats", change.String(),
			"threshold_sats", m.opts.BalanceChangeThreshold,
		)
		return nil
	}

	if err := m.notify(ctx, m.deps.Composer.BalanceChange(last, current)); err != nil {
		return fmt.Errorf("failed to send balance change notification: %w", err)
	}

	m.deps.Store.SaveBalance(current)
	m.setBalance(current, m.deps.Composer.ChangeSummary(last, current))
	slog.Info("balance change notification sent",
		"previous_sats", last.String(),
		"current_sats", current.String(),
	)
	return nil
}

// SendDailyReport sends the wallet balance together with the totals of all
// completed payments. A failed payments fetch reports zero totals.
func (m *Monitor) SendDailyReport(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	slog.Info("sending daily balance report")
	wallet, err := m.deps.Wallet.FetchWallet(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch wallet: %w", err)
	}
	balance := wallet.Balance.SatsDecimal()

	payments, err := m.deps.Wallet.FetchPayments(ctx)
	if err != nil {
		slog.Warn("payments unavailable for daily report, reporting zero totals", "error", err)
		payments = nil
	}

	report := models.NewDailyReport(balance, payments)
	if err := m.notify(ctx, m.deps.Composer.DailyReport(report)); err != nil {
		return fmt.Errorf("failed to send daily report: %w", err)
	}
	slog.Info("daily report sent",
		"balance_sats", balance.String(),
		"incoming_count", report.IncomingCount,
		"outgoing_count", report.OutgoingCount,
	)

	m.setBalance(balance, changeDailyReport)
	m.deps.Store.SaveBalance(balance)

	if m.deps.Mailer != nil {
		if err := m.deps.Mailer.SendReport(ctx, report); err != nil {
			slog.Error("failed to mail daily report", "error", err)
		}
	}
	return nil
}
