package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifier(t *testing.T) {
	var received WinnerNotice
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode notice: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, "secret-token")
	ref, err := n.NotifyWinner(context.Background(), WinnerNotice{
		RaffleName:          "Test Raffle",
		WinnerEmail:         "alice@example.com",
		WinningTicketNumber: 7,
		PoolSize:            20,
	})
	if err != nil {
		t.Fatalf("NotifyWinner error: %v", err)
	}
	if ref == "" {
		t.Error("dispatch reference is empty")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, want bearer token", gotAuth)
	}
	if received.WinnerEmail != "alice@example.com" || received.WinningTicketNumber != 7 {
		t.Errorf("webhook received %+v", received)
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, "")
	if _, err := n.NotifyWinner(context.Background(), WinnerNotice{}); err == nil {
		t.Error("non-2xx response should return an error")
	}
}

func TestMockNotifierRecords(t *testing.T) {
	n := NewMockNotifier()
	if _, err := n.NotifyWinner(context.Background(), WinnerNotice{WinnerEmail: "a@b.com"}); err != nil {
		t.Fatal(err)
	}
	if len(n.Notices) != 1 || n.Notices[0].WinnerEmail != "a@b.com" {
		t.Errorf("notices = %+v, want one notice for a@b.com", n.Notices)
	}
}
