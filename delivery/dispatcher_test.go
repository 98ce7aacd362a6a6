package delivery_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/store/memory"
)

type recordingScheduler struct {
	calls []time.Time
	reqs  []announcement.Request
}

func (r *recordingScheduler) RunAt(_ context.Context, when time.Time, req announcement.Request) error {
	r.calls = append(r.calls, when)
	r.reqs = append(r.reqs, req)
	return nil
}

func TestDispatcherSendsImmediateRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sched := &recordingScheduler{}
	d := delivery.NewDispatcher(delivery.NewSender(5*time.Second), sched)

	deferred, err := d.Deliver(ctx(), newRequest(srv.URL, http.StatusNoContent))
	if err != nil {
		t.Fatal(err)
	}
	if deferred {
		t.Fatal("request without AnnounceAt must not be deferred")
	}
	if hits.Load() != 1 || len(sched.calls) != 0 {
		t.Fatalf("hits=%d scheduled=%d", hits.Load(), len(sched.calls))
	}
}

func TestDispatcherDefersFutureRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sched := &recordingScheduler{}
	d := delivery.NewDispatcher(delivery.NewSender(5*time.Second), sched)

	at := time.Now().Add(time.Hour).UTC()
	req := newRequest(srv.URL, http.StatusOK)
	req.AnnounceAt = &at

	deferred, err := d.Deliver(ctx(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !deferred {
		t.Fatal("expected deferral")
	}
	if hits.Load() != 0 {
		t.Fatal("deferred request must not be sent synchronously")
	}
	if len(sched.calls) != 1 || !sched.calls[0].Equal(at) {
		t.Fatalf("scheduled at %v, want %v", sched.calls, at)
	}
	if string(sched.reqs[0].Body) != string(req.Body) {
		t.Fatal("scheduler must receive the request by value")
	}
}

func TestDispatcherPastAnnounceAtSendsNow(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sched := &recordingScheduler{}
	d := delivery.NewDispatcher(delivery.NewSender(5*time.Second), sched)

	past := time.Now().Add(-time.Minute)
	req := newRequest(srv.URL, http.StatusOK)
	req.AnnounceAt = &past

	if _, err := d.Deliver(ctx(), req); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 || len(sched.calls) != 0 {
		t.Fatal("an elapsed AnnounceAt is sent immediately")
	}
}

func TestDispatcherWithoutScheduler(t *testing.T) {
	d := delivery.NewDispatcher(delivery.NewSender(5*time.Second), nil)

	at := time.Now().Add(time.Hour)
	req := newRequest("http://127.0.0.1:1", http.StatusOK)
	req.AnnounceAt = &at

	if _, err := d.Deliver(ctx(), req); !errors.Is(err, delivery.ErrNoScheduler) {
		t.Fatalf("expected ErrNoScheduler, got %v", err)
	}
}

func TestStoreSchedulerPersistsJob(t *testing.T) {
	store := memory.New()
	sched := delivery.NewStoreScheduler(store)

	at := time.Now().Add(time.Hour)
	req := newRequest("https://chat.test", http.StatusOK)
	if err := sched.RunAt(ctx(), at, req); err != nil {
		t.Fatal(err)
	}

	jobs, err := store.ListJobs(ctx(), delivery.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.State != delivery.StatePending || !j.RunAt.Equal(at) {
		t.Fatalf("job = %+v", j)
	}
	if j.Request.WebhookID != req.WebhookID {
		t.Fatal("job must carry the request")
	}
}
