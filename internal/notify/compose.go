package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/shopspring/decimal"
)

// Replies sent by the command handlers.
const (
	UnknownCommandText      = "Unknown command. Available commands: /balance, /transactions, /info, /help"
	FetchTransactionsFailed = "Error fetching transactions."
	UnexpectedTransactions  = "Unexpected data format for transactions."
	NoTransactionsFound     = "No transactions found."
	FetchBalanceFailed      = "Error fetching wallet balance."
	CallbackFetchingAnswer  = "Fetching transactions..."
	CallbackUnknownAnswer   = "Unknown action."
)

// Transactions renders the incoming, outgoing and pending sections of b.
// Empty sections are omitted.
func (c *Composer) Transactions(b models.Buckets) Message {
	lines := []string{
		fmt.Sprintf("⚡ *%s* - *Latest Transactions* ⚡\n", c.instance()),
	}

	if len(b.Incoming) > 0 {
		lines = append(lines, "🟢 *Incoming Payments:*")
		for i, p := range b.Incoming {
			lines = append(lines, fmt.Sprintf("%d. *Amount:* `%d sats`\n   *Memo:* %s", i+1, p.AmountSats, c.Memo(p.Memo)))
		}
		lines = append(lines, "")
	}

	if len(b.Outgoing) > 0 {
		lines = append(lines, "🔴 *Outgoing Payments:*")
		for i, p := range b.Outgoing {
			lines = append(lines, fmt.Sprintf("%d. *Amount:* `%d sats`\n   *Memo:* %s", i+1, p.AmountSats, c.Memo(p.Memo)))
		}
		lines = append(lines, "")
	}

	if len(b.Pending) > 0 {
		lines = append(lines, "⏳ *Pending Payments:*")
		for _, p := range b.Pending {
			lines = append(lines, fmt.Sprintf("   %d sats\n   📝 *Memo:* %s\n   📅 *Status:* Pending\n", p.AmountSats, c.Memo(p.Memo)))
		}
		lines = append(lines, "")
	}

	lines = append(lines, c.timestampLine())
	return c.withButtons(strings.Join(lines, "\n"))
}

// BalanceChange renders a balance update from previous to current sats.
func (c *Composer) BalanceChange(previous, current decimal.Decimal) Message {
	change := current.Sub(previous)
	sign := "-"
	if change.IsPositive() {
		sign = "+"
	}

	text := fmt.Sprintf("⚡ *%s* - *Balance Update* ⚡\n\n", c.instance()) +
		fmt.Sprintf("🔹 *Previous Balance:* `%s sats`\n", c.grouped(previous)) +
		fmt.Sprintf("🔹 *Change:* `%s%s sats`\n", sign, c.grouped(change.Abs())) +
		fmt.Sprintf("🔹 *New Balance:* `%s sats`\n\n", c.grouped(current)) +
		c.timestampLine()
	return c.withButtons(text)
}

// ChangeSummary describes a balance change for the status snapshot.
func (c *Composer) ChangeSummary(previous, current decimal.Decimal) string {
	change := current.Sub(previous)
	direction := "decreased"
	if change.IsPositive() {
		direction = "increased"
	}
	return fmt.Sprintf("Balance %s by %s sats.", direction, c.grouped(change.Abs()))
}

// DailyReport renders the periodic wallet report.
func (c *Composer) DailyReport(r models.DailyReport) Message {
	text := fmt.Sprintf("📊 *%s* - *Daily Wallet Balance* 📊\n\n", c.instance()) +
		fmt.Sprintf("🔹 *Current Balance:* `%s sats`\n", whole(r.BalanceSats)) +
		fmt.Sprintf("🔹 *Total Incoming:* `%s sats` over `%d` transactions\n", whole(r.IncomingTotal), r.IncomingCount) +
		fmt.Sprintf("🔹 *Total Outgoing:* `%s sats` over `%d` transactions\n\n", whole(r.OutgoingTotal), r.OutgoingCount) +
		c.timestampLine()
	return c.withButtons(text)
}

// Balance renders the reply to /balance.
func (c *Composer) Balance(sats decimal.Decimal) Message {
	text := fmt.Sprintf("📊 *%s* - *Wallet Balance*\n\n", c.instance()) +
		fmt.Sprintf("🔹 *Current Balance:* `%s sats`\n\n", whole(sats)) +
		c.timestampLine()
	return c.withButtons(text)
}

// Info renders the reply to /info with thresholds and intervals.
func (c *Composer) Info() Message {
	s := c.settings
	text := fmt.Sprintf("ℹ️ *%s* - *Information*\n\n", c.instance()) +
		fmt.Sprintf("🔔 *Balance Change Threshold:* `%d sats`\n", s.BalanceChangeThreshold) +
		fmt.Sprintf("🔔 *Highlight Threshold:* `%d sats`\n", s.HighlightThreshold) +
		fmt.Sprintf("⏲️ *Balance Change Monitoring Interval:* Every `%d seconds`\n", seconds(s.WalletInfoUpdateInterval)) +
		fmt.Sprintf("📊 *Daily Wallet Balance Notification Interval:* Every `%d seconds`\n", seconds(s.BalanceNotificationInterval)) +
		fmt.Sprintf("🔄 *Latest Payments Fetch Interval:* Every `%d seconds`\n\n", seconds(s.PaymentsFetchInterval)) +
		c.timestampLine()
	return c.withButtons(text)
}

// Help renders the reply to /help.
func (c *Composer) Help() Message {
	text := fmt.Sprintf("ℹ️ *%s* - *Help*\n\n", c.instance()) +
		"Available commands:\n" +
		"• `/balance` – Shows the current wallet balance.\n" +
		"• `/transactions` – Shows the latest transactions.\n" +
		"• `/info` – Provides information about the monitor and current settings.\n" +
		"• `/help` – Shows this help message.\n\n" +
		c.timestampLine()
	return c.withButtons(text)
}

// UnknownCommand is the reply to any unrecognized message.
func (c *Composer) UnknownCommand() Message {
	return Text(UnknownCommandText)
}

func (c *Composer) instance() string {
	return escapeMarkdown(c.settings.InstanceName)
}

// grouped prints the integer part of v with locale digit grouping.
func (c *Composer) grouped(v decimal.Decimal) string {
	return c.printer.Sprintf("%d", v.Truncate(0).IntPart())
}

// whole drops the fractional part of v.
func whole(v decimal.Decimal) string {
	return v.Truncate(0).String()
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func escapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
