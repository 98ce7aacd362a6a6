package extension_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/byceps/announce"
	"github.com/byceps/announce/extension"
	"github.com/byceps/announce/store/memory"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHandlerServesUnderPrefix(t *testing.T) {
	ctx := context.Background()
	ext := extension.New(
		extension.WithStore(memory.New()),
		extension.WithLogger(discard()),
		extension.WithPrefix("/announce/"),
	)
	if err := ext.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ext.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ext.Stop(ctx) })

	if ext.Prefix() != "/announce" {
		t.Fatalf("unexpected prefix %q", ext.Prefix())
	}
	if err := ext.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle(ext.Prefix()+"/", ext.Handler())
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/announce/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if _, ok := stats["pending_jobs"]; !ok {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestDisableRoutes(t *testing.T) {
	ext := extension.New(
		extension.WithStore(memory.New()),
		extension.WithLogger(discard()),
		extension.WithDisableRoutes(),
		extension.WithDisableMigrations(),
	)
	if err := ext.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	ext.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/announce/stats", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInitRequiresStore(t *testing.T) {
	ext := extension.New(extension.WithLogger(discard()))
	if err := ext.Init(context.Background()); !errors.Is(err, announce.ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
	if err := ext.Start(context.Background()); !errors.Is(err, extension.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := extension.DefaultConfig()
	cfg.Concurrency = 3
	cfg.FailureLogEnabled = false

	ext := extension.New(
		extension.WithStore(memory.New()),
		extension.WithLogger(discard()),
		extension.WithConfig(cfg),
	)
	if err := ext.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := ext.Announcer().Config()
	if got.Concurrency != 3 || got.FailureLogEnabled {
		t.Fatalf("config not applied: %+v", got)
	}
}
