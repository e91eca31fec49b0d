package models

// PaymentKind is the notification bucket a payment is sorted into.
type PaymentKind string

const (
	KindIncoming      PaymentKind = "incoming"
	KindOutgoing      PaymentKind = "outgoing"
	KindPending       PaymentKind = "pending"
	KindUncategorized PaymentKind = "uncategorized"
)

// ClassifiedPayment is the notification view of a single payment.
type ClassifiedPayment struct {
	Hash       string      `json:"payment_hash"`
	AmountSats int64       `json:"amount_sats"`
	Memo       string      `json:"memo"`
	Kind       PaymentKind `json:"kind"`
}

// Buckets groups classified payments for one notification.
// Uncategorized payments never appear here.
type Buckets struct {
	Incoming []ClassifiedPayment `json:"incoming"`
	Outgoing []ClassifiedPayment `json:"outgoing"`
	Pending  []ClassifiedPayment `json:"pending"`
}

// Add appends p to the bucket matching its kind.
func (b *Buckets) Add(p ClassifiedPayment) {
	switch p.Kind {
	case KindIncoming:
		b.Incoming = append(b.Incoming, p)
	case KindOutgoing:
		b.Outgoing = append(b.Outgoing, p)
	case KindPending:
		b.Pending = append(b.Pending, p)
	}
}

// Empty reports whether there is nothing to notify about.
func (b Buckets) Empty() bool {
	return len(b.Incoming) == 0 && len(b.Outgoing) == 0 && len(b.Pending) == 0
}
