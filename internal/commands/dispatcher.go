// Package commands answers chat commands and inline button presses
// delivered through the webhook.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rocjay1/piggy-notifier/internal/lnbits"
	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/rocjay1/piggy-notifier/internal/notify"
	"github.com/rocjay1/piggy-notifier/internal/reconcile"
)

const handleTimeout = 30 * time.Second

// WalletClient reads from the wallet service.
type WalletClient interface {
	FetchWallet(ctx context.Context) (*models.Wallet, error)
	FetchPayments(ctx context.Context) ([]models.Payment, error)
}

// ChatClient replies to chats and callback queries.
type ChatClient interface {
	Send(ctx context.Context, chatID int64, msg notify.Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Dispatcher routes updates to command handlers. Handlers only read wallet
// data and never touch the monitor state.
type Dispatcher struct {
	wallet      WalletClient
	chat        ChatClient
	composer    *notify.Composer
	latestCount int

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. /transactions shows the latestCount
// newest payments.
func NewDispatcher(wallet WalletClient, chat ChatClient, composer *notify.Composer, latestCount int) *Dispatcher {
	return &Dispatcher{
		wallet:      wallet,
		chat:        chat,
		composer:    composer,
		latestCount: latestCount,
	}
}

// Dispatch handles update in the background. Failures are logged only.
func (d *Dispatcher) Dispatch(update tgbotapi.Update) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		d.Handle(ctx, update)
	}()
}

// Wait blocks until every dispatched update has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Handle processes update synchronously.
func (d *Dispatcher) Handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	default:
		slog.Info("update contains no message or callback query, ignoring", "update_id", update.UpdateID)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		slog.Warn("message without chat, ignoring", "message_id", message.MessageID)
		return
	}
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case strings.HasPrefix(text, "/balance"):
		d.balance(ctx, chatID)
	case strings.HasPrefix(text, "/transactions"):
		d.transactions(ctx, chatID)
	case strings.HasPrefix(text, "/info"):
		slog.Info("handling info command", "chat_id", chatID)
		d.reply(ctx, chatID, d.composer.Info())
	case strings.HasPrefix(text, "/help"):
		slog.Info("handling help command", "chat_id", chatID)
		d.reply(ctx, chatID, d.composer.Help())
	default:
		d.reply(ctx, chatID, d.composer.UnknownCommand())
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil {
		slog.Warn("callback query without sender, ignoring", "callback_id", query.ID)
		return
	}

	answer := notify.CallbackUnknownAnswer
	if query.Data == notify.CallbackViewTransactions {
		d.transactions(ctx, query.From.ID)
		answer = notify.CallbackFetchingAnswer
	}

	if err := d.chat.AnswerCallback(ctx, query.ID, answer); err != nil {
		slog.Error("failed to answer callback query", "callback_id", query.ID, "error", err)
	}
}

func (d *Dispatcher) balance(ctx context.Context, chatID int64) {
	slog.Info("handling balance command", "chat_id", chatID)
	wallet, err := d.wallet.FetchWallet(ctx)
	if err != nil {
		slog.Error("failed to fetch wallet for balance command", "error", err)
		d.reply(ctx, chatID, notify.Text(notify.FetchBalanceFailed))
		return
	}
	d.reply(ctx, chatID, d.composer.Balance(wallet.Balance.SatsDecimal()))
}

func (d *Dispatcher) transactions(ctx context.Context, chatID int64) {
	slog.Info("handling transactions command", "chat_id", chatID)
	payments, err := d.wallet.FetchPayments(ctx)
	switch {
	case errors.Is(err, lnbits.ErrUnexpectedFormat):
		d.reply(ctx, chatID, notify.Text(notify.UnexpectedTransactions))
		return
	case err != nil:
		slog.Error("failed to fetch payments for transactions command", "error", err)
		d.reply(ctx, chatID, notify.Text(notify.FetchTransactionsFailed))
		return
	}

	latest := reconcile.Latest(payments, d.latestCount)
	if len(latest) == 0 {
		d.reply(ctx, chatID, notify.Text(notify.NoTransactionsFound))
		return
	}
	d.reply(ctx, chatID, d.composer.Transactions(reconcile.Classify(latest, len(latest))))
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, msg notify.Message) {
	if err := d.chat.Send(ctx, chatID, msg); err != nil {
		slog.Error("failed to send reply", "chat_id", chatID, "error", err)
	}
}
