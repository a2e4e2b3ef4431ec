package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/negochallenge/backend/internal/model/product"
	aiservice "github.com/negochallenge/backend/internal/service/ai"
	intentservice "github.com/negochallenge/backend/internal/service/intent"
	negotiationservice "github.com/negochallenge/backend/internal/service/negotiation"
	"github.com/negochallenge/backend/internal/store"
)

func setupRouter() *chi.Mux {
	st := store.NewMemory()
	prod := product.Default()
	intents := intentservice.NewService(nil, time.Second)
	composer := aiservice.NewComposer(nil, prod, time.Second)
	svc := negotiationservice.NewService(st, intents, composer, prod)
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	handler.RegisterDashboard(r)
	return r
}

func TestLeaderboardEmpty(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestDashboardServesHTML(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}
	if !strings.Contains(resp.Body.String(), "Nego Challenge Admin") {
		t.Fatal("expected dashboard markup")
	}
}

func TestStatsStreamOpensWithStatusAndStats(t *testing.T) {
	r := setupRouter()

	// A cancelled context lets the stream write its opening frames and
	// return instead of blocking on the ticker.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/admin/stats/stream", nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	body := resp.Body.String()
	if !strings.Contains(body, "stream established") {
		t.Fatalf("expected opening status chunk, got %q", body)
	}
	if !strings.Contains(body, "event: stats") {
		t.Fatalf("expected a stats event, got %q", body)
	}
}
