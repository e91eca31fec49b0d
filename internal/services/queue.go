package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

type messageEnqueuer interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// DonationEvents publishes one Azure Queue Storage message per donation.
type DonationEvents struct {
	client messageEnqueuer
	queue  string
}

// NewDonationEvents creates the publisher from QUEUE_SERVICE_URL and
// DONATION_QUEUE. It returns ErrNotConfigured when no endpoint is set.
func NewDonationEvents(ctx context.Context) (*DonationEvents, error) {
	queueURL := os.Getenv("QUEUE_SERVICE_URL")
	if queueURL == "" {
		return nil, ErrNotConfigured
	}
	queue := envOr("DONATION_QUEUE", "donation-events")

	slog.Info("initializing donation events", "queue_url", queueURL)
	var client *azqueue.ServiceClient

	if isLocal(queueURL) {
		slog.Info("using Azurite shared key credentials for queue service")
		name, key := getAzuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azqueue.NewServiceClient(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	queueClient := client.NewQueueClient(queue)
	if _, err := queueClient.Create(ctx, nil); err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		slog.Warn("failed to create queue (may already exist)", "queue", queue, "error", err)
	}

	slog.Info("donation events initialized", "queue", queue)
	return &DonationEvents{client: queueClient, queue: queue}, nil
}

// PublishDonation enqueues the donation as base64 encoded JSON.
func (s *DonationEvents) PublishDonation(ctx context.Context, donation models.Donation) error {
	msg, err := json.Marshal(donation)
	if err != nil {
		return fmt.Errorf("failed to marshal donation: %w", err)
	}

	// Base64 encode the message for Azure Functions Host (it default-expects base64)
	encoded := base64.StdEncoding.EncodeToString(msg)

	if _, err := s.client.EnqueueMessage(ctx, encoded, nil); err != nil {
		slog.Error("failed to enqueue donation", "queue", s.queue, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", s.queue, err)
	}

	slog.Debug("published donation", "queue", s.queue, "amount", donation.Amount)
	return nil
}
