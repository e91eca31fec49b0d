package handler

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

type MockMonitorClient struct {
	StatusFunc          func(ctx context.Context) (models.Status, error)
	DonationDetailsFunc func(ctx context.Context) (models.DonationDetails, error)
	DonationPageFunc    func(ctx context.Context) (*models.DonationPage, error)
	LastUpdateFunc      func() time.Time
}

func (m *MockMonitorClient) Status(ctx context.Context) (models.Status, error) {
	return m.StatusFunc(ctx)
}

func (m *MockMonitorClient) DonationDetails(ctx context.Context) (models.DonationDetails, error) {
	return m.DonationDetailsFunc(ctx)
}

func (m *MockMonitorClient) DonationPage(ctx context.Context) (*models.DonationPage, error) {
	return m.DonationPageFunc(ctx)
}

func (m *MockMonitorClient) LastUpdate() time.Time {
	return m.LastUpdateFunc()
}

type MockUpdateDispatcher struct {
	mu      sync.Mutex
	Updates []tgbotapi.Update
}

func (m *MockUpdateDispatcher) Dispatch(update tgbotapi.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, update)
}
