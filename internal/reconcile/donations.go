package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocjay1/piggy-notifier/internal/models"
)

// DonationDetails combines the ledger with a live pay link lookup. A failed
// lookup reports the address and LNURL as unavailable instead of failing.
func (m *Monitor) DonationDetails(ctx context.Context) (models.DonationDetails, error) {
	if err := ctx.Err(); err != nil {
		return models.DonationDetails{}, err
	}

	ledger := m.sanitizedLedger()
	details := models.DonationDetails{
		TotalDonations:     ledger.TotalDonations,
		Donations:          ledger.Donations,
		LightningAddress:   unavailable,
		LNURL:              unavailable,
		HighlightThreshold: m.opts.HighlightThreshold,
	}

	link, err := m.payLink(ctx)
	if err != nil {
		slog.Error("unable to fetch pay link for donation details", "error", err)
		return details, nil
	}
	details.LightningAddress = m.lightningAddress(link)
	if link.LNURL != "" {
		details.LNURL = link.LNURL
	}
	return details, nil
}

// DonationPage gathers what the donations page renders. Unlike
// DonationDetails it fails when the pay link cannot be resolved.
func (m *Monitor) DonationPage(ctx context.Context) (*models.DonationPage, error) {
	link, err := m.payLink(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pay link: %w", err)
	}

	walletName := link.Description
	if walletName == "" {
		walletName = unknownWallet
	}

	// The running total equals the sum of entries; ProcessPayments keeps both in step.
	ledger := m.sanitizedLedger()
	return &models.DonationPage{
		WalletName:         walletName,
		LightningAddress:   m.lightningAddress(link),
		LNURL:              link.LNURL,
		TotalDonations:     ledger.TotalDonations,
		Donations:          ledger.Donations,
		HighlightThreshold: m.opts.HighlightThreshold,
		DonationsURL:       m.opts.DonationsURL,
		InformationURL:     m.opts.InformationURL,
	}, nil
}

// Status returns the read-only view of the monitor state.
func (m *Monitor) Status(ctx context.Context) (models.Status, error) {
	details, err := m.DonationDetails(ctx)
	if err != nil {
		return models.Status{}, err
	}

	m.mu.RLock()
	status := models.Status{
		LatestBalance:   m.balance,
		LatestPayments:  slices.Clone(m.latestPayments),
		DonationDetails: details,
	}
	m.mu.RUnlock()

	if status.LatestPayments == nil {
		status.LatestPayments = []string{}
	}
	return status, nil
}

func (m *Monitor) payLink(ctx context.Context) (*models.PayLink, error) {
	if m.opts.PayLinkID == "" {
		return nil, ErrNoPayLink
	}
	return m.deps.Wallet.ResolvePayLink(ctx, m.opts.PayLinkID)
}

func (m *Monitor) lightningAddress(link *models.PayLink) string {
	username := link.Username.String()
	if username == "" {
		slog.Warn("username not found in pay link", "pay_link_id", link.ID.String())
		username = unknownUsername
	}
	return username + "@" + m.opts.LNbitsDomain
}

// sanitizedLedger copies the ledger with every memo redacted for display.
func (m *Monitor) sanitizedLedger() models.DonationLedger {
	ledger := m.Ledger()
	for i := range ledger.Donations {
		ledger.Donations[i].Memo = m.deps.Sanitizer.Sanitize(ledger.Donations[i].Memo)
	}
	return ledger
}
