package models

import (
	"encoding/json"
	"testing"
)

func TestPayment_DecodeLooseFields(t *testing.T) {
	body := `[
		{"payment_hash": "a", "amount": 21000, "memo": "coffee", "status": "success", "created_at": "2024-05-01T10:00:00", "extra": {"link": "abc", "comment": ["thanks", "a lot"], "extra": "5000"}},
		{"payment_hash": "b", "amount": "-1500", "memo": null, "pending": true, "created_at": 1714557600, "extra": {}},
		{"payment_hash": "c", "amount": "n/a", "extra": {"link": 7, "extra": {"x": 1}}}
	]`

	var payments []Payment
	if err := json.Unmarshal([]byte(body), &payments); err != nil {
		t.Fatalf("Expected loose decode to succeed, got %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("Expected 3 payments, got %d", len(payments))
	}

	a := payments[0]
	if a.Amount.Sats() != 21 {
		t.Errorf("Expected 21 sats, got %d", a.Amount.Sats())
	}
	if a.Extra.Comment != "thanks a lot" {
		t.Errorf("Expected joined comment, got %q", a.Extra.Comment)
	}
	if !a.Extra.Extra.Valid || a.Extra.Extra.Value != 5000 {
		t.Errorf("Expected extra 5000 msat, got %+v", a.Extra.Extra)
	}

	b := payments[1]
	if b.Amount.Value != -1500 || b.Amount.Sats() != 1 {
		t.Errorf("Expected -1500 msat / 1 sat, got %d / %d", b.Amount.Value, b.Amount.Sats())
	}
	if b.Memo != "" {
		t.Errorf("Expected empty memo, got %q", b.Memo)
	}
	if !b.IsPending() {
		t.Error("Expected legacy pending flag to be honoured")
	}

	c := payments[2]
	if c.Amount.Valid || c.Amount.Sats() != 0 {
		t.Errorf("Expected invalid amount to count as 0 sats, got %+v", c.Amount)
	}
	if c.Extra.Link != "7" {
		t.Errorf("Expected numeric link to decode as text, got %q", c.Extra.Link)
	}
	if c.Extra.Extra.Valid {
		t.Error("Expected object extra to be invalid")
	}
}

func TestPayment_Kind(t *testing.T) {
	tests := []struct {
		name    string
		payment Payment
		want    PaymentKind
	}{
		{"incoming", Payment{Amount: NewMsat(1000), Status: "success"}, KindIncoming},
		{"outgoing", Payment{Amount: NewMsat(-1000), Status: "success"}, KindOutgoing},
		{"pending incoming", Payment{Amount: NewMsat(1000), Status: "PENDING"}, KindPending},
		{"pending outgoing", Payment{Amount: NewMsat(-1000), Status: "pending"}, KindUncategorized},
		{"zero", Payment{Amount: NewMsat(0)}, KindUncategorized},
		{"invalid", Payment{Amount: Msat{}}, KindUncategorized},
		{"missing status", Payment{Amount: NewMsat(999)}, KindIncoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payment.Kind(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMsat_SatsFloors(t *testing.T) {
	if got := NewMsat(1999).Sats(); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := NewMsat(-1999).Sats(); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := NewMsat(5500).SatsDecimal().String(); got != "5.5" {
		t.Errorf("Expected 5.5, got %s", got)
	}
}

func TestMsat_OutOfRangeIsInvalid(t *testing.T) {
	tests := []string{`1e30`, `"-1e30"`, `9223372036854775808`, `"99999999999999999999999"`}
	for _, raw := range tests {
		var m Msat
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if m.Valid || m.Sats() != 0 || m.Sign() != 0 {
			t.Errorf("Expected %s to decode as invalid, got %+v", raw, m)
		}
	}

	var m Msat
	if err := json.Unmarshal([]byte(`9223372036854775807`), &m); err != nil || !m.Valid {
		t.Errorf("Expected max int64 to stay valid, got %+v (%v)", m, err)
	}
}

func TestTimestamp_After(t *testing.T) {
	if !NewTimestamp("2024-05-02T00:00:00").After(NewTimestamp("2024-05-01T23:59:59")) {
		t.Error("Expected later ISO timestamp to sort after")
	}
	if !NewTimestamp("100").After(NewTimestamp("99")) {
		t.Error("Expected numeric comparison for unix timestamps")
	}
	if NewTimestamp("").After(NewTimestamp("2024-01-01")) {
		t.Error("Expected missing timestamp to sort first")
	}
}

func TestPayment_ID(t *testing.T) {
	p := Payment{CheckingID: "internal_123"}
	if p.ID() != "internal_123" {
		t.Errorf("Expected checking id fallback, got %q", p.ID())
	}
}
