package delivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/id"
)

func ctx() context.Context { return context.Background() }

func intPtr(n int) *int { return &n }

func newRequest(url string, expected int) announcement.Request {
	return announcement.Request{
		WebhookID:      id.NewWebhookID(),
		URL:            url,
		Body:           json.RawMessage(`{"text":"hello"}`),
		ExpectedStatus: intPtr(expected),
		EventName:      "tickets-sold",
	}
}

func TestSenderHappyPath(t *testing.T) {
	var receivedHeaders http.Header
	var receivedBody string
	var receivedMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header
		receivedMethod = r.Method
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatal(err)
		}
		receivedBody = string(bodyBytes)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	sender := delivery.NewSender(5 * time.Second)
	res, err := sender.Send(ctx(), newRequest(srv.URL, http.StatusOK))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Response != "ok" {
		t.Fatalf("unexpected response: %s", res.Response)
	}
	if receivedMethod != http.MethodPost {
		t.Fatalf("method = %s", receivedMethod)
	}
	if receivedBody != `{"text":"hello"}` {
		t.Fatalf("body: got %q", receivedBody)
	}
	if receivedHeaders.Get("Content-Type") != "application/json" {
		t.Fatal("missing Content-Type")
	}
	if receivedHeaders.Get("User-Agent") == "" {
		t.Fatal("missing User-Agent")
	}
}

func TestSenderStatusMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req := newRequest(srv.URL, http.StatusNoContent)
	res, err := delivery.NewSender(5*time.Second).Send(ctx(), req)

	var wf *delivery.WebhookFailure
	if !errors.As(err, &wf) {
		t.Fatalf("expected *WebhookFailure, got %v", err)
	}
	if wf.StatusCode != 200 || wf.WebhookID != req.WebhookID {
		t.Fatalf("failure = %+v", wf)
	}
	if !errors.Is(err, delivery.ErrUnexpectedStatus) {
		t.Fatal("status mismatch must wrap ErrUnexpectedStatus")
	}
	if res.StatusCode != 200 {
		t.Fatalf("result status = %d", res.StatusCode)
	}
}

func TestSenderWithoutExpectedStatusAcceptsAny(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	req := newRequest(srv.URL, 0)
	req.ExpectedStatus = nil

	if _, err := delivery.NewSender(5*time.Second).Send(ctx(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSenderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := delivery.NewSender(50 * time.Millisecond)
	res, err := sender.Send(ctx(), newRequest(srv.URL, http.StatusOK))

	var wf *delivery.WebhookFailure
	if !errors.As(err, &wf) {
		t.Fatalf("expected *WebhookFailure on timeout, got %v", err)
	}
	if wf.StatusCode != 0 || res.StatusCode != 0 {
		t.Fatalf("expected status 0 on timeout, got %d", wf.StatusCode)
	}
	if res.LatencyMs <= 0 {
		t.Fatal("expected positive latency")
	}
}

func TestSenderConnectionRefused(t *testing.T) {
	sender := delivery.NewSender(5 * time.Second)
	_, err := sender.Send(ctx(), newRequest("http://127.0.0.1:1", http.StatusOK)) // port 1 should refuse connections

	var wf *delivery.WebhookFailure
	if !errors.As(err, &wf) {
		t.Fatalf("expected *WebhookFailure, got %v", err)
	}
	if wf.Status() != 0 {
		t.Fatalf("expected status 0 on connection refused, got %d", wf.Status())
	}
}

func TestSenderCapsTimeout(t *testing.T) {
	if got := delivery.NewSender(time.Minute).Timeout(); got != delivery.DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", got, delivery.DefaultTimeout)
	}
	if got := delivery.NewSender(0).Timeout(); got != delivery.DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", got, delivery.DefaultTimeout)
	}
}
