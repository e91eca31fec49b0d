package reconcile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) servePayLink(link *models.PayLink) {
	e.wallet.ResolvePayLinkFunc = func(ctx context.Context, id string) (*models.PayLink, error) {
		if id != testPayLinkID {
			return nil, assert.AnError
		}
		return link, nil
	}
}

func TestDonationDetails(t *testing.T) {
	env := newTestEnv(t)
	env.servePayLink(&models.PayLink{ID: testPayLinkID, Username: "piggy", LNURL: "LNURL1PIGGY"})
	env.servePayments(donationPayment("gift", 5000, int64(5000), "a total scam"))
	require.NoError(t, env.monitor.ProcessPayments(context.Background()))

	details, err := env.monitor.DonationDetails(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "piggy@lnbits.example.com", details.LightningAddress)
	assert.Equal(t, "LNURL1PIGGY", details.LNURL)
	assert.Equal(t, int64(2100), details.HighlightThreshold)
	require.Len(t, details.Donations, 1)
	assert.Equal(t, "a total ****", details.Donations[0].Memo)
	assert.Equal(t, "a total scam", env.monitor.Ledger().Donations[0].Memo, "ledger keeps the raw memo")
}

func TestDonationDetails_LookupFailure(t *testing.T) {
	env := newTestEnv(t)

	details, err := env.monitor.DonationDetails(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Unavailable", details.LightningAddress)
	assert.Equal(t, "Unavailable", details.LNURL)
	assert.NotNil(t, details.Donations)
}

func TestDonationDetails_MissingUsername(t *testing.T) {
	env := newTestEnv(t)
	env.servePayLink(&models.PayLink{ID: testPayLinkID, LNURL: "LNURL1PIGGY"})

	details, err := env.monitor.DonationDetails(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Unknown@lnbits.example.com", details.LightningAddress)
}

func TestDonationDetails_CanceledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.monitor.DonationDetails(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDonationPage(t *testing.T) {
	env := newTestEnv(t)
	env.servePayLink(&models.PayLink{ID: testPayLinkID, Description: "Lightning Piggy", Username: "piggy", LNURL: "LNURL1PIGGY"})

	page, err := env.monitor.DonationPage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Lightning Piggy", page.WalletName)
	assert.Equal(t, "piggy@lnbits.example.com", page.LightningAddress)
	assert.Equal(t, "https://piggy.example.com/donations", page.DonationsURL)
	assert.True(t, page.TotalDonations.IsZero())
}

func TestDonationPage_LookupFailure(t *testing.T) {
	env := newTestEnv(t)

	page, err := env.monitor.DonationPage(context.Background())

	assert.Nil(t, page)
	assert.Error(t, err)
}

func TestDonationPage_NoPayLinkConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.monitor.opts.PayLinkID = ""

	_, err := env.monitor.DonationPage(context.Background())

	assert.ErrorIs(t, err, ErrNoPayLink)
}

func TestStatus_JSONShape(t *testing.T) {
	env := newTestEnv(t)

	status, err := env.monitor.Status(context.Background())
	require.NoError(t, err)
	data, err := json.Marshal(status)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"latest_balance", "latest_payments", "total_donations", "donations", "lightning_address", "lnurl", "highlight_threshold"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, float64(0), decoded["total_donations"])
	assert.Nil(t, decoded["latest_balance"].(map[string]any)["balance_sats"])
}
