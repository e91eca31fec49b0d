package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The ledger file and the JSON API carry amounts as plain numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DonationMemoPlaceholder is stored when a donation carries no comment.
const DonationMemoPlaceholder = "no memo"

// Donation is a single ledger entry.
type Donation struct {
	Date   string          `json:"date"` // RFC 3339, UTC
	Memo   string          `json:"memo"`
	Amount decimal.Decimal `json:"amount"`
}

// NewDonation builds a ledger entry dated at.
func NewDonation(at time.Time, memo string, amount decimal.Decimal) Donation {
	if memo == "" {
		memo = DonationMemoPlaceholder
	}
	return Donation{
		Date:   at.UTC().Format(time.RFC3339Nano),
		Memo:   memo,
		Amount: amount,
	}
}

// DonationLedger is the persisted donation history with its running total.
// TotalDonations is maintained incrementally by Add and is never recomputed.
type DonationLedger struct {
	TotalDonations decimal.Decimal `json:"total_donations"`
	Donations      []Donation      `json:"donations"`
}

// Add appends d and adds its amount to the running total.
func (l *DonationLedger) Add(d Donation) {
	l.Donations = append(l.Donations, d)
	l.TotalDonations = l.TotalDonations.Add(d.Amount)
}

// Sum recomputes the total from the entries.
func (l DonationLedger) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range l.Donations {
		sum = sum.Add(d.Amount)
	}
	return sum
}

// Latest returns the most recent entry.
func (l DonationLedger) Latest() (Donation, bool) {
	if len(l.Donations) == 0 {
		return Donation{}, false
	}
	return l.Donations[len(l.Donations)-1], true
}

// Clone returns a deep copy whose Donations slice is never nil.
func (l DonationLedger) Clone() DonationLedger {
	out := DonationLedger{
		TotalDonations: l.TotalDonations,
		Donations:      make([]Donation, len(l.Donations)),
	}
	copy(out.Donations, l.Donations)
	return out
}

// DonationDetails is the donation view served to the web surface.
type DonationDetails struct {
	TotalDonations     decimal.Decimal `json:"total_donations"`
	Donations          []Donation      `json:"donations"`
	LightningAddress   string          `json:"lightning_address"`
	LNURL              string          `json:"lnurl"`
	HighlightThreshold int64           `json:"highlight_threshold"`
}
