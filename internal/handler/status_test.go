package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHome(t *testing.T) {
	deps := &Dependencies{InstanceName: "Piggy"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	deps.HandleHome(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "🔍 Piggy monitor is running.", w.Body.String())
}

func TestHandleStatus_Success(t *testing.T) {
	mockMonitor := &MockMonitorClient{
		StatusFunc: func(ctx context.Context) (models.Status, error) {
			return models.Status{
				LatestBalance: models.BalanceSnapshot{
					BalanceSats: decimal.NewNullDecimal(decimal.NewFromInt(1500)),
					LastChange:  "Balance increased by 500 sats.",
					Memo:        "coffee",
				},
				LatestPayments: []string{"h1", "h2"},
				DonationDetails: models.DonationDetails{
					TotalDonations:     decimal.NewFromInt(21),
					Donations:          []models.Donation{{Date: "2024-01-01T00:00:00Z", Memo: "thanks", Amount: decimal.NewFromInt(21)}},
					LightningAddress:   "piggy@lnbits.example",
					LNURL:              "LNURL1ABC",
					HighlightThreshold: 2100,
				},
			}, nil
		},
	}
	deps := &Dependencies{Monitor: mockMonitor}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	deps.HandleStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "latest_balance")
	assert.Contains(t, resp, "latest_payments")
	assert.Contains(t, resp, "total_donations")
	assert.Contains(t, resp, "donations")
	assert.Equal(t, "piggy@lnbits.example", resp["lightning_address"])
	assert.Equal(t, "LNURL1ABC", resp["lnurl"])
	assert.Equal(t, []any{"h1", "h2"}, resp["latest_payments"])
}

func TestHandleStatus_Error(t *testing.T) {
	mockMonitor := &MockMonitorClient{
		StatusFunc: func(ctx context.Context) (models.Status, error) {
			return models.Status{}, errors.New("boom")
		},
	}
	deps := &Dependencies{Monitor: mockMonitor}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	deps.HandleStatus(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleDonationsUpdates(t *testing.T) {
	last := time.Date(2024, 3, 1, 12, 30, 0, 500, time.FixedZone("CET", 3600))
	deps := &Dependencies{Monitor: &MockMonitorClient{
		LastUpdateFunc: func() time.Time { return last },
	}}

	req := httptest.NewRequest(http.MethodGet, "/donations_updates", nil)
	w := httptest.NewRecorder()

	deps.HandleDonationsUpdates(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-01T11:30:00.0000005Z", resp["last_update"])
}
