package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WinnerNotice is the payload sent to the administrative channel after a
// successful draw.
type WinnerNotice struct {
	RaffleID            string    `json:"raffleId"`
	RaffleName          string    `json:"raffleName"`
	WinnerRecordID      string    `json:"winnerRecordId"`
	WinnerEmail         string    `json:"winnerEmail"`
	WinningTicketNumber int       `json:"winningTicketNumber"`
	PoolSize            int       `json:"poolSize"`
	DrawnAt             time.Time `json:"drawnAt"`
}

// Notifier represents an administrative notification channel. Dispatch is
// fire-and-forget from the caller's point of view: a dispatch failure must
// never fail the draw that triggered it.
type Notifier interface {
	NotifyWinner(ctx context.Context, notice WinnerNotice) (string, error)
}

// WebhookNotifier posts winner notices as JSON to an admin webhook URL
type WebhookNotifier struct {
	URL        string
	AuthToken  string
	httpClient *http.Client
}

// MockNotifier is a no-op notifier for local development and tests
type MockNotifier struct {
	Notices []WinnerNotice
}

// NewWebhookNotifier creates a new WebhookNotifier
func NewWebhookNotifier(url, authToken string) Notifier {
	return &WebhookNotifier{
		URL:       url,
		AuthToken: authToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyWinner posts the notice to the configured webhook
func (n *WebhookNotifier) NotifyWinner(ctx context.Context, notice WinnerNotice) (string, error) {
	body, err := json.Marshal(notice)
	if err != nil {
		return "", fmt.Errorf("failed to encode winner notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.AuthToken)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return fmt.Sprintf("WEBHOOK-%d", time.Now().UnixNano()), nil
}

// NotifyWinner records the notice in memory
func (n *MockNotifier) NotifyWinner(_ context.Context, notice WinnerNotice) (string, error) {
	n.Notices = append(n.Notices, notice)
	return fmt.Sprintf("MOCK-%d", time.Now().UnixNano()), nil
}
