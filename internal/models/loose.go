package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Msat is an amount in millisatoshis as reported by the wallet API.
// The API is not strict about types, so numbers and numeric strings are both
// accepted. Anything else decodes without error and leaves Valid false.
type Msat struct {
	Value int64
	Valid bool
}

// NewMsat returns a valid Msat.
func NewMsat(v int64) Msat {
	return Msat{Value: v, Valid: true}
}

var (
	maxMsat = decimal.NewFromInt(math.MaxInt64)
	minMsat = decimal.NewFromInt(-math.MaxInt64)
)

func (m *Msat) UnmarshalJSON(data []byte) error {
	*m = Msat{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxMsat) || d.LessThan(minMsat) {
		return nil
	}
	m.Value = d.IntPart()
	m.Valid = true
	return nil
}

func (m Msat) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Sats converts to whole satoshis: floor(|msat| / 1000). Invalid amounts are 0.
func (m Msat) Sats() int64 {
	if !m.Valid {
		return 0
	}
	v := m.Value
	if v < 0 {
		v = -v
	}
	return v / 1000
}

// Sign returns -1, 0 or 1. Invalid amounts count as zero.
func (m Msat) Sign() int {
	switch {
	case !m.Valid || m.Value == 0:
		return 0
	case m.Value > 0:
		return 1
	default:
		return -1
	}
}

// SatsDecimal converts to satoshis keeping the sign and any fractional part.
func (m Msat) SatsDecimal() decimal.Decimal {
	if !m.Valid {
		return decimal.Zero
	}
	return decimal.New(m.Value, -3)
}

// Text accepts a JSON string, number, bool or array of strings. Arrays are
// joined with a space; objects and null decode to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*t = Text(s)
		}
	case '[':
		var parts []Text
		if err := json.Unmarshal(raw, &parts); err == nil {
			words := make([]string, 0, len(parts))
			for _, p := range parts {
				if p != "" {
					words = append(words, string(p))
				}
			}
			*t = Text(strings.Join(words, " "))
		}
	case '{', 'n':
	default:
		*t = Text(raw)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}
