package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Payment is a single entry of the wallet's payment list. It is owned by the
// wallet service and fetched fresh on every poll.
type Payment struct {
	PaymentHash string       `json:"payment_hash"`
	CheckingID  string       `json:"checking_id,omitempty"`
	Amount      Msat         `json:"amount"`
	Memo        Text         `json:"memo"`
	Status      string       `json:"status,omitempty"`
	PendingFlag *bool        `json:"pending,omitempty"`
	CreatedAt   Timestamp    `json:"created_at"`
	Extra       PaymentExtra `json:"extra"`
}

// PaymentExtra carries the LNURLp metadata attached to a payment.
type PaymentExtra struct {
	Link    Text `json:"link"`
	Comment Text `json:"comment"`
	Extra   Msat `json:"extra"`
}

// ID returns the identifier used for deduplication.
func (p Payment) ID() string {
	if p.PaymentHash != "" {
		return p.PaymentHash
	}
	return p.CheckingID
}

// IsPending reports whether the wallet still considers the payment in flight.
// Older wallet versions only send a boolean pending flag.
func (p Payment) IsPending() bool {
	if p.Status != "" {
		return strings.EqualFold(strings.TrimSpace(p.Status), "pending")
	}
	return p.PendingFlag != nil && *p.PendingFlag
}

// Kind classifies the payment by status and amount sign.
func (p Payment) Kind() PaymentKind {
	sign := p.Amount.Sign()
	switch {
	case p.IsPending() && sign > 0:
		return KindPending
	case p.IsPending():
		return KindUncategorized
	case sign > 0:
		return KindIncoming
	case sign < 0:
		return KindOutgoing
	default:
		return KindUncategorized
	}
}

// Classified returns the notification view of the payment.
func (p Payment) Classified() ClassifiedPayment {
	return ClassifiedPayment{
		Hash:       p.ID(),
		AmountSats: p.Amount.Sats(),
		Memo:       p.Memo.String(),
		Kind:       p.Kind(),
	}
}

// Timestamp is the creation time as sent by the wallet, either an ISO 8601
// string or a unix number. Only ordering matters, so the raw value is kept.
type Timestamp struct {
	raw     string
	num     float64
	numeric bool
	bare    bool
}

// NewTimestamp wraps a raw creation time value.
func NewTimestamp(raw string) Timestamp {
	ts := Timestamp{raw: raw}
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		ts.num = n
		ts.numeric = true
	}
	return ts
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			*t = Timestamp{}
			return nil
		}
		*t = NewTimestamp(s)
		return nil
	}
	*t = NewTimestamp(string(raw))
	t.bare = true
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.bare {
		return []byte(t.raw), nil
	}
	return json.Marshal(t.raw)
}

// String returns the raw value.
func (t Timestamp) String() string {
	return t.raw
}

// After reports whether t sorts after o. Two numeric values compare by value,
// anything else compares lexically, which orders ISO 8601 strings correctly.
func (t Timestamp) After(o Timestamp) bool {
	if t.numeric && o.numeric {
		return t.num > o.num
	}
	return t.raw > o.raw
}

// Wallet is the wallet summary returned by the wallet endpoint.
type Wallet struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Balance Msat   `json:"balance"`
}

// PayLink is an LNURLp pay link.
type PayLink struct {
	ID          Text   `json:"id"`
	Description string `json:"description"`
	Username    Text   `json:"username"`
	LNURL       string `json:"lnurl"`
}
