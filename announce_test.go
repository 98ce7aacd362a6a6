package announce_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	gu "github.com/xraph/go-utils/metrics"

	"github.com/byceps/announce"
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/assembly"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/observability"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/store/memory"
	"github.com/byceps/announce/webhook"
)

func ctx() context.Context { return context.Background() }

func strPtr(s string) *string { return &s }

// target is an httptest server that records every request body.
type target struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
}

func newTarget(t *testing.T, status int) *target {
	t.Helper()
	tg := &target{}
	tg.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		tg.mu.Lock()
		tg.bodies = append(tg.bodies, string(body))
		tg.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(tg.Close)
	return tg
}

func (tg *target) hits() []string {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	return append([]string(nil), tg.bodies...)
}

// recordingScheduler captures deferred requests instead of persisting them.
type recordingScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
}

type scheduledCall struct {
	when time.Time
	req  announcement.Request
}

func (s *recordingScheduler) RunAt(_ context.Context, when time.Time, req announcement.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scheduledCall{when: when, req: req})
	return nil
}

func (s *recordingScheduler) recorded() []scheduledCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledCall(nil), s.calls...)
}

func newAnnouncer(t *testing.T, opts ...announce.Option) (*announce.Announcer, *memory.Store) {
	t.Helper()
	s := memory.New()
	base := []announce.Option{
		announce.WithStore(s),
		announce.WithDirectoryCacheTTL(0),
		announce.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	a, err := announce.New(append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return a, s
}

func createWebhook(t *testing.T, a *announce.Announcer, in webhook.Input) *webhook.Webhook {
	t.Helper()
	in.Enabled = true
	wh, err := a.Webhooks().Create(ctx(), in)
	if err != nil {
		t.Fatal(err)
	}
	return wh
}

func topicCreated(boardID string) event.BoardTopicCreated {
	return event.BoardTopicCreated{
		Envelope: event.Envelope{OccurredAt: time.Now()},
		Board:    event.Board{BoardID: boardID},
		Topic: event.Topic{
			TopicID:      uuid.New(),
			TopicCreator: event.NewUser(uuid.New(), "RocketRandy"),
			TopicTitle:   "Cannot connect to the party network :(",
			URL:          "https://website.test/board/topics/T1",
		},
	}
}

func forumWebhook(url string) webhook.Input {
	return webhook.Input{
		EventTypes:   []string{"board-topic-created"},
		EventFilters: json.RawMessage(`{"board-topic-created":{"board_id":["B1"]}}`),
		Format:       webhook.FormatDiscord,
		TextPrefix:   strPtr("[Forum] "),
		URL:          url,
	}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := announce.New(); !errors.Is(err, announce.ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestDiscordTopicCreated(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusNoContent)
	createWebhook(t, a, forumWebhook(tg.URL))

	if err := a.Announce(ctx(), topicCreated("B1")); err != nil {
		t.Fatalf("announce: %v", err)
	}

	hits := tg.hits()
	if len(hits) != 1 {
		t.Fatalf("expected 1 request, got %d", len(hits))
	}
	want := `{"content":"[Forum] RocketRandy hat das Thema \"Cannot connect to the party network :(\" erstellt: <https://website.test/board/topics/T1>"}`
	if hits[0] != want {
		t.Fatalf("body:\n got  %s\n want %s", hits[0], want)
	}
}

func TestFilterRejectsOtherBoard(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusNoContent)
	createWebhook(t, a, forumWebhook(tg.URL))

	if err := a.Announce(ctx(), topicCreated("OTHER")); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if n := len(tg.hits()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestSuppressedAnnouncementsSendNothing(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusOK)
	createWebhook(t, a, webhook.Input{
		EventTypes: []string{"board-posting-created", "tourney-match-ready"},
		Format:     webhook.FormatMattermost,
		URL:        tg.URL,
	})

	muted := event.BoardPostingCreated{
		Board: event.Board{BoardID: "B1"},
		Posting: event.Posting{
			PostingCreator: event.NewUser(uuid.New(), "Chatty"),
			TopicTitle:     "Off-topic",
			TopicMuted:     true,
		},
	}
	bye := event.TourneyMatchReady{
		Tourney: event.Tourney{TourneyID: "t1", TourneyTitle: "CS2"},
		Match: event.Match{
			MatchID:      "m1",
			Participant2: &event.Participant{ID: "p2", Name: strPtr("X")},
		},
	}

	for _, ev := range []event.Event{muted, bye} {
		if err := a.Announce(ctx(), ev); err != nil {
			t.Fatalf("announce %s: %v", ev.Kind(), err)
		}
	}
	if n := len(tg.hits()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestTicketsSoldPlural(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusOK)
	createWebhook(t, a, webhook.Input{
		EventTypes: []string{"tickets-sold"},
		Format:     webhook.FormatMattermost,
		URL:        tg.URL,
	})

	ev := event.TicketsSold{
		PartyID:  "lan-1",
		Owner:    event.NewUser(uuid.New(), "TreuerKäufer"),
		Quantity: 3,
	}
	if err := a.Announce(ctx(), ev); err != nil {
		t.Fatal(err)
	}

	hits := tg.hits()
	if len(hits) != 1 {
		t.Fatalf("expected 1 request, got %d", len(hits))
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(hits[0]), &body); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body.Text, "TreuerKäufer hat 3 Tickets bezahlt.") {
		t.Fatalf("text = %q", body.Text)
	}
}

func TestDeferredNewsIsScheduled(t *testing.T) {
	sched := &recordingScheduler{}
	a, _ := newAnnouncer(t, announce.WithScheduler(sched))
	tg := newTarget(t, http.StatusOK)
	createWebhook(t, a, webhook.Input{
		EventTypes: []string{"news-item-published"},
		Format:     webhook.FormatMattermost,
		URL:        tg.URL,
	})

	t0 := time.Now().UTC().Truncate(time.Second)
	publishedAt := t0.Add(time.Hour)
	ev := event.NewsItemPublished{
		Envelope:    event.Envelope{OccurredAt: t0},
		ItemID:      uuid.New(),
		Title:       "Hi",
		PublishedAt: publishedAt,
		ExternalURL: "https://x",
	}

	if err := a.Announce(ctx(), ev); err != nil {
		t.Fatal(err)
	}

	if n := len(tg.hits()); n != 0 {
		t.Fatalf("expected no synchronous request, got %d", n)
	}
	calls := sched.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected 1 scheduled job, got %d", len(calls))
	}
	if !calls[0].when.Equal(publishedAt) {
		t.Fatalf("scheduled at %v, want %v", calls[0].when, publishedAt)
	}
	if calls[0].req.AnnounceAt == nil || !calls[0].req.AnnounceAt.Equal(publishedAt) {
		t.Fatal("request must carry announce_at")
	}
}

func TestPendingJobsGaugeCountsOnlyStoredJobs(t *testing.T) {
	deferredNews := func() event.NewsItemPublished {
		now := time.Now().UTC()
		return event.NewsItemPublished{
			Envelope:    event.Envelope{OccurredAt: now},
			Title:       "Später",
			PublishedAt: now.Add(time.Hour),
			ExternalURL: "https://x",
		}
	}

	tests := []struct {
		name string
		opts []announce.Option
		want float64
	}{
		{"store scheduler", nil, 1},
		{"custom scheduler", []announce.Option{announce.WithScheduler(&recordingScheduler{})}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := observability.NewMetrics(gu.NewMetricsCollector("announce_test"))
			a, _ := newAnnouncer(t, append(tt.opts, announce.WithMetrics(m))...)
			tg := newTarget(t, http.StatusOK)
			createWebhook(t, a, webhook.Input{
				EventTypes: []string{"news-item-published"},
				Format:     webhook.FormatMattermost,
				URL:        tg.URL,
			})

			if err := a.Announce(ctx(), deferredNews()); err != nil {
				t.Fatal(err)
			}
			if got := m.PendingJobs.Value(); got != tt.want {
				t.Fatalf("pending jobs gauge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeferredNewsRunsThroughJobEngine(t *testing.T) {
	a, s := newAnnouncer(t, announce.WithPollInterval(20*time.Millisecond))
	tg := newTarget(t, http.StatusOK)
	createWebhook(t, a, webhook.Input{
		EventTypes: []string{"news-item-published"},
		Format:     webhook.FormatMattermost,
		URL:        tg.URL,
	})

	if err := a.Start(ctx()); err != nil {
		t.Fatal(err)
	}
	defer a.Stop(ctx())

	now := time.Now()
	ev := event.NewsItemPublished{
		Envelope:    event.Envelope{OccurredAt: now},
		Title:       "Bald",
		PublishedAt: now.Add(150 * time.Millisecond),
		ExternalURL: "https://x",
	}
	if err := a.Announce(ctx(), ev); err != nil {
		t.Fatal(err)
	}
	if n := len(tg.hits()); n != 0 {
		t.Fatalf("expected no synchronous request, got %d", n)
	}
	if n, _ := s.CountPending(ctx()); n != 1 {
		t.Fatalf("pending jobs = %d, want 1", n)
	}

	deadline := time.Now().Add(3 * time.Second)
	for len(tg.hits()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduled announcement was never delivered")
		}
		time.Sleep(20 * time.Millisecond)
	}

	state := delivery.StateDelivered
	deadline = time.Now().Add(time.Second)
	for {
		jobs, _ := s.ListJobs(ctx(), delivery.ListOpts{State: &state})
		if len(jobs) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job was not marked delivered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFanOutContinuesPastFailingWebhook(t *testing.T) {
	var logs bytes.Buffer
	a, _ := newAnnouncer(t, announce.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	var attempts atomic.Int32
	count := func(status int) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts.Add(1)
			w.WriteHeader(status)
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	const n = 4
	for i := range n {
		status := http.StatusOK
		if i == 2 {
			status = http.StatusInternalServerError
		}
		createWebhook(t, a, webhook.Input{
			EventTypes: []string{"tickets-sold"},
			Format:     webhook.FormatMattermost,
			URL:        count(status).URL,
		})
	}

	err := a.Announce(ctx(), event.TicketsSold{Owner: event.NewUser(uuid.New(), "Kim"), Quantity: 1})
	if err == nil {
		t.Fatal("expected the failing webhook to be reported")
	}

	if got := attempts.Load(); got != n {
		t.Fatalf("attempts = %d, want %d", got, n)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected a joined error, got %T", err)
	}
	failures := 0
	for _, e := range joined.Unwrap() {
		var wf *announce.WebhookFailure
		if errors.As(e, &wf) {
			failures++
			if wf.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status = %d", wf.StatusCode)
			}
		}
	}
	if failures != 1 {
		t.Fatalf("webhook failures = %d, want 1", failures)
	}

	out := logs.String()
	for _, field := range []string{"error_kind=webhook_failure", "event_name=tickets-sold", "webhook_id=whk_", "details="} {
		if !strings.Contains(out, field) {
			t.Fatalf("log output missing %q:\n%s", field, out)
		}
	}

	entries, _ := a.Failures().List(ctx(), failure.ListOpts{})
	if len(entries) != 1 || entries[0].Kind != failure.KindWebhookFailure || entries[0].StatusCode != 500 {
		t.Fatalf("failure log = %+v", entries)
	}
}

func TestMalformedConfigSkipsOnlyThatWebhook(t *testing.T) {
	a, s := newAnnouncer(t)
	good := newTarget(t, http.StatusOK)
	bad := newTarget(t, http.StatusOK)

	createWebhook(t, a, webhook.Input{EventTypes: []string{"tickets-sold"}, Format: webhook.FormatMattermost, URL: good.URL})
	broken := createWebhook(t, a, webhook.Input{EventTypes: []string{"tickets-sold"}, Format: webhook.FormatMattermost, URL: bad.URL})

	// Corrupt the stored row behind the service's validation.
	broken.ExtraFields = json.RawMessage(`["#lan"]`)
	if err := s.UpdateWebhook(ctx(), broken); err != nil {
		t.Fatal(err)
	}

	err := a.Announce(ctx(), event.TicketsSold{Owner: event.NewUser(uuid.New(), "Kim"), Quantity: 2})
	if !errors.Is(err, announce.ErrWebhookConfigMalformed) {
		t.Fatalf("expected ErrWebhookConfigMalformed, got %v", err)
	}
	if len(good.hits()) != 1 || len(bad.hits()) != 0 {
		t.Fatalf("hits: good=%d bad=%d", len(good.hits()), len(bad.hits()))
	}

	entries, _ := a.Failures().List(ctx(), failure.ListOpts{Kind: failure.KindWebhookConfigMalformed})
	if len(entries) != 1 || entries[0].WebhookID != broken.ID {
		t.Fatalf("failure log = %+v", entries)
	}
}

func TestFailureLogCanBeDisabled(t *testing.T) {
	a, _ := newAnnouncer(t, announce.WithFailureLog(false))
	tg := newTarget(t, http.StatusInternalServerError)
	createWebhook(t, a, webhook.Input{EventTypes: []string{"tickets-sold"}, Format: webhook.FormatMattermost, URL: tg.URL})

	_ = a.Announce(ctx(), event.TicketsSold{Owner: event.NewUser(uuid.New(), "Kim"), Quantity: 1})

	if n, _ := a.Failures().Count(ctx()); n != 0 {
		t.Fatalf("failure log has %d entries", n)
	}
}

func TestUnregisteredEvent(t *testing.T) {
	r := registry.New()
	for _, b := range assembly.Bindings() {
		if b.Kind == event.KindTicketsSold {
			continue
		}
		if err := r.Register(b.Kind, b.Name, b.Handler); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := newAnnouncer(t, announce.WithRegistry(r))
	tg := newTarget(t, http.StatusOK)
	createWebhook(t, a, webhook.Input{EventTypes: []string{"ticket-checked-in"}, Format: webhook.FormatMattermost, URL: tg.URL})

	err := a.Announce(ctx(), event.TicketsSold{Quantity: 1})
	if !errors.Is(err, announce.ErrUnregisteredEvent) {
		t.Fatalf("expected ErrUnregisteredEvent, got %v", err)
	}

	entries, _ := a.Failures().List(ctx(), failure.ListOpts{Kind: failure.KindUnregisteredEvent})
	if len(entries) != 1 {
		t.Fatalf("failure log = %+v", entries)
	}
}

func TestWebhookTest(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusOK)
	wh := createWebhook(t, a, webhook.Input{
		EventTypes: []string{"tickets-sold"},
		Format:     webhook.FormatMattermost,
		TextPrefix: strPtr("[Test] "),
		URL:        tg.URL,
	})

	res, err := a.Test(ctx(), wh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}

	hits := tg.hits()
	want := `{"text":"[Test] Test, test … is this thing on?!"}`
	if len(hits) != 1 || hits[0] != want {
		t.Fatalf("hits = %q", hits)
	}
}

func TestWebhookTestSurfacesFailure(t *testing.T) {
	a, _ := newAnnouncer(t)
	tg := newTarget(t, http.StatusBadGateway)
	wh := createWebhook(t, a, webhook.Input{EventTypes: []string{"tickets-sold"}, Format: webhook.FormatDiscord, URL: tg.URL})

	_, err := a.Test(ctx(), wh.ID)
	var wf *announce.WebhookFailure
	if !errors.As(err, &wf) || wf.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected WebhookFailure with 502, got %v", err)
	}

	// Test errors go to the caller only.
	if n, _ := a.Failures().Count(ctx()); n != 0 {
		t.Fatalf("failure log has %d entries", n)
	}
}

func TestAnnounceAfterStop(t *testing.T) {
	a, _ := newAnnouncer(t)
	if err := a.Start(ctx()); err != nil {
		t.Fatal(err)
	}
	if err := a.Stop(ctx()); err != nil {
		t.Fatal(err)
	}

	if err := a.Announce(ctx(), topicCreated("B1")); !errors.Is(err, announce.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDirectoryHonorsDisable(t *testing.T) {
	a, _ := newAnnouncer(t, announce.WithDirectoryCacheTTL(time.Minute))
	tg := newTarget(t, http.StatusNoContent)
	wh := createWebhook(t, a, forumWebhook(tg.URL))

	_ = a.Announce(ctx(), topicCreated("B1"))
	if err := a.Webhooks().SetEnabled(ctx(), wh.ID, false); err != nil {
		t.Fatal(err)
	}
	_ = a.Announce(ctx(), topicCreated("B1"))

	if n := len(tg.hits()); n != 1 {
		t.Fatalf("expected 1 request before disabling, got %d", n)
	}
}
