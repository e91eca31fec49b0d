// Package notify renders chat notifications. Every function is pure apart
// from reading the clock for the trailing timestamp line.
package notify

import (
	"time"

	"github.com/rocjay1/piggy-notifier/internal/sanitize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CallbackViewTransactions is the callback data of the transactions button.
const CallbackViewTransactions = "view_transactions"

const timestampLayout = "2006-01-02 15:04:05"

// Button is an inline action attached to a message. Exactly one of URL and
// CallbackData is set.
type Button struct {
	Label        string
	URL          string
	CallbackData string
}

// Message is a rendered notification in Telegram Markdown.
type Message struct {
	Text    string
	Buttons []Button
}

// Settings are the values the composer prints besides wallet data.
type Settings struct {
	InstanceName string
	DonationsURL string

	BalanceChangeThreshold int64
	HighlightThreshold     int64

	WalletInfoUpdateInterval    time.Duration
	BalanceNotificationInterval time.Duration
	PaymentsFetchInterval       time.Duration
}

// Composer renders messages for one wallet instance.
type Composer struct {
	settings  Settings
	sanitizer *sanitize.Sanitizer
	printer   *message.Printer
	now       func() time.Time
}

// NewComposer creates a Composer. Grouped numbers follow locale.
func NewComposer(settings Settings, sanitizer *sanitize.Sanitizer, locale language.Tag) *Composer {
	return &Composer{
		settings:  settings,
		sanitizer: sanitizer,
		printer:   message.NewPrinter(locale),
		now:       time.Now,
	}
}

// Buttons returns the action buttons attached to every notification.
func (c *Composer) Buttons() []Button {
	var buttons []Button
	if c.settings.DonationsURL != "" {
		buttons = append(buttons, Button{Label: "🐽 View Donations", URL: c.settings.DonationsURL})
	}
	return append(buttons, Button{Label: "🧮 View Transactions", CallbackData: CallbackViewTransactions})
}

// Memo sanitizes and escapes a memo for inclusion in a Markdown message.
func (c *Composer) Memo(memo string) string {
	return escapeMarkdown(c.sanitizer.Sanitize(memo))
}

func (c *Composer) timestampLine() string {
	return "🕒 *Timestamp:* " + c.now().UTC().Format(timestampLayout) + " UTC"
}

func (c *Composer) withButtons(text string) Message {
	return Message{Text: text, Buttons: c.Buttons()}
}

// Text builds a plain reply without buttons.
func Text(text string) Message {
	return Message{Text: text}
}
