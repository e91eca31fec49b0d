package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/shopspring/decimal"
)

// ProcessPayments fetches the latest payments, records donations, marks every
// new payment processed and notifies about the incoming, outgoing and
// pending ones. A payment is handled at most once across runs.
func (m *Monitor) ProcessPayments(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	slog.Info("fetching latest payments")
	payments, err := m.deps.Wallet.FetchPayments(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch payments: %w", err)
	}

	latest := Latest(payments, m.opts.LatestCount)
	now := m.now().UTC()

	var (
		buckets   models.Buckets
		hashes    []string
		records   []models.PaymentRecord
		donations []models.Donation
		ledger    models.DonationLedger
	)

	m.mu.Lock()
	for _, p := range latest {
		id := p.ID()
		if id == "" {
			slog.Warn("skipping payment without identifier", "created_at", p.CreatedAt.String())
			continue
		}
		if _, seen := m.processed[id]; seen {
			continue
		}

		classified := p.Classified()
		buckets.Add(classified)
		record := models.PaymentRecord{
			Hash:        id,
			Kind:        classified.Kind,
			AmountSats:  classified.AmountSats,
			Memo:        m.deps.Sanitizer.Sanitize(classified.Memo),
			ProcessedAt: now,
		}

		if m.isDonation(p) {
			donation := models.NewDonation(now, p.Extra.Comment.String(), donationAmount(p))
			m.ledger.Add(donation)
			m.lastUpdate = now
			if err := m.deps.Store.SaveDonations(m.ledger); err != nil {
				slog.Error("failed to persist donation ledger", "payment_hash", id, "error", err)
			}
			slog.Info("new donation detected",
				"payment_hash", id,
				"amount_sats", donation.Amount.String(),
				"memo", m.deps.Sanitizer.Sanitize(donation.Memo),
				"total_donations", m.ledger.TotalDonations.String(),
			)

			record.IsDonation = true
			record.DonationAmount = donation.Amount
			donations = append(donations, donation)
		}

		m.processed[id] = struct{}{}
		m.deps.Store.RecordProcessedPayment(id)
		hashes = append(hashes, id)
		records = append(records, record)
	}
	if len(donations) > 0 {
		ledger = m.ledger.Clone()
	}
	m.mu.Unlock()

	m.mirror(ctx, records, donations, ledger)

	if buckets.Empty() {
		slog.Info("no new payments to notify", "examined", len(latest), "new", len(hashes))
		return nil
	}

	if err := m.notify(ctx, m.deps.Composer.Transactions(buckets)); err != nil {
		return fmt.Errorf("failed to send payments notification: %w", err)
	}
	slog.Info("payments notification sent",
		"incoming", len(buckets.Incoming),
		"outgoing", len(buckets.Outgoing),
		"pending", len(buckets.Pending),
	)

	m.mu.Lock()
	m.latestPayments = append(m.latestPayments, hashes...)
	if n := len(m.latestPayments); n > maxLatestHashes {
		m.latestPayments = append([]string(nil), m.latestPayments[n-maxLatestHashes:]...)
	}
	m.mu.Unlock()
	return nil
}

func (m *Monitor) isDonation(p models.Payment) bool {
	return m.opts.PayLinkID != "" && p.Extra.Link.String() == m.opts.PayLinkID
}

// donationAmount prefers the LNURLp amount in extra.extra and falls back to
// the payment amount in whole sats.
func donationAmount(p models.Payment) decimal.Decimal {
	if p.Extra.Extra.Valid {
		return p.Extra.Extra.SatsDecimal()
	}
	return decimal.NewFromInt(p.Amount.Sats())
}

// mirror forwards the results of one run to the optional cloud services.
// Failures are logged only.
func (m *Monitor) mirror(ctx context.Context, records []models.PaymentRecord, donations []models.Donation, ledger models.DonationLedger) {
	if m.deps.Archive != nil && len(records) > 0 {
		if err := m.deps.Archive.ArchivePayments(ctx, records); err != nil {
			slog.Error("failed to archive payments", "count", len(records), "error", err)
		}
	}
	if len(donations) == 0 {
		return
	}
	if m.deps.Backup != nil {
		if err := m.deps.Backup.BackupLedger(ctx, ledger); err != nil {
			slog.Error("failed to back up donation ledger", "error", err)
		}
	}
	if m.deps.Publisher != nil {
		for _, d := range donations {
			d.Memo = m.deps.Sanitizer.Sanitize(d.Memo)
			if err := m.deps.Publisher.PublishDonation(ctx, d); err != nil {
				slog.Error("failed to publish donation event", "date", d.Date, "error", err)
			}
		}
	}
}
