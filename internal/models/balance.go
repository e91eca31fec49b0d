package models

import (
	"github.com/shopspring/decimal"
)

// BalanceSnapshot is the last balance the monitor reported.
// BalanceSats is null until the first balance check completes.
type BalanceSnapshot struct {
	BalanceSats decimal.NullDecimal `json:"balance_sats"`
	LastChange  string              `json:"last_change"`
	Memo        string              `json:"memo"`
}

// DailyReport aggregates the wallet state for the periodic balance report.
// Pending payments are excluded from the totals.
type DailyReport struct {
	BalanceSats   decimal.Decimal `json:"balance_sats"`
	IncomingTotal decimal.Decimal `json:"incoming_total"`
	IncomingCount int             `json:"incoming_count"`
	OutgoingTotal decimal.Decimal `json:"outgoing_total"`
	OutgoingCount int             `json:"outgoing_count"`
}

// NewDailyReport sums the completed payments in payments.
func NewDailyReport(balance decimal.Decimal, payments []Payment) DailyReport {
	r := DailyReport{
		BalanceSats:   balance,
		IncomingTotal: decimal.Zero,
		OutgoingTotal: decimal.Zero,
	}
	for _, p := range payments {
		if p.IsPending() {
			continue
		}
		switch p.Amount.Sign() {
		case 1:
			r.IncomingCount++
			r.IncomingTotal = r.IncomingTotal.Add(p.Amount.SatsDecimal())
		case -1:
			r.OutgoingCount++
			r.OutgoingTotal = r.OutgoingTotal.Add(p.Amount.SatsDecimal().Abs())
		}
	}
	return r
}
