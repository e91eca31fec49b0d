package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the read-only view served on the status endpoint.
type Status struct {
	LatestBalance  BalanceSnapshot `json:"latest_balance"`
	LatestPayments []string        `json:"latest_payments"`
	DonationDetails
}

// DonationPage is everything the public donations page renders.
type DonationPage struct {
	WalletName         string
	LightningAddress   string
	LNURL              string
	TotalDonations     decimal.Decimal
	Donations          []Donation
	HighlightThreshold int64
	DonationsURL       string
	InformationURL     string
}

// PaymentRecord describes one processed payment for archival.
type PaymentRecord struct {
	Hash           string
	Kind           PaymentKind
	AmountSats     int64
	Memo           string
	IsDonation     bool
	DonationAmount decimal.Decimal
	ProcessedAt    time.Time
}
