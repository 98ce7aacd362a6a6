package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/byceps/announce/announcement"
)

const (
	// DefaultTimeout bounds a whole request: connect, send and read.
	DefaultTimeout = 10 * time.Second

	maxResponseBody = 1024 // 1KB cap on response body storage

	userAgent = "BYCEPS-Announce/1.0"
)

// Result holds the outcome of a single POST.
type Result struct {
	StatusCode int
	Response   string
	LatencyMs  int
}

// Sender POSTs announcement requests.
type Sender struct {
	client  *http.Client
	timeout time.Duration
}

// NewSender creates a sender whose requests are cut off after timeout.
// Zero or anything above DefaultTimeout yields DefaultTimeout.
func NewSender(d time.Duration) *Sender {
	if d <= 0 || d > DefaultTimeout {
		d = DefaultTimeout
	}
	return &Sender{
		client:  &http.Client{Timeout: d},
		timeout: d,
	}
}

// Timeout returns the per-request time limit.
func (s *Sender) Timeout() time.Duration { return s.timeout }

// Send POSTs the request body and checks the response status. Transport
// errors and status mismatches are returned as *WebhookFailure.
func (s *Sender) Send(ctx context.Context, req announcement.Request) (Result, error) {
	t := timeout.New[Result](timeout.Config{
		DefaultTimeout: s.timeout,
	})

	start := time.Now()
	res, err := t.Execute(ctx, s.timeout, func(ctx context.Context) (Result, error) {
		return s.post(ctx, req)
	})
	res.LatencyMs = int(time.Since(start).Milliseconds())

	if err != nil {
		return res, &WebhookFailure{WebhookID: req.WebhookID, StatusCode: res.StatusCode, Err: err}
	}

	if req.ExpectedStatus != nil && res.StatusCode != *req.ExpectedStatus {
		return res, &WebhookFailure{
			WebhookID:  req.WebhookID,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("%w: got %d, want %d", ErrUnexpectedStatus, res.StatusCode, *req.ExpectedStatus),
		}
	}

	return res, nil
}

func (s *Sender) post(ctx context.Context, req announcement.Request) (Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(httpReq) //nolint:gosec // G704: URL is an admin-configured webhook destination.
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Result{StatusCode: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}

	return Result{
		StatusCode: resp.StatusCode,
		Response:   string(body),
	}, nil
}
