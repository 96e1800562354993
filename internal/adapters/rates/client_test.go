package rates_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trip_planner/internal/adapters/rates"
)

func TestClient_GetRate_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" || r.URL.Query().Get("base") != "TWD" || r.URL.Query().Get("symbols") != "VND" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"rates": map[string]any{"VND": 812.5}})
		}
	}))
	defer ts.Close()

	cl, err := rates.New(ts.URL+"/", "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetRate(ctx, "twd", "vnd")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	vnd, ok := got["rates"].(map[string]any)["VND"].(float64)
	if !ok || vnd != 812.5 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetRate_FallsBackOn404(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pair/TWD/VND" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"conversion_rate": 812.1}`))
	}))
	defer ts.Close()

	cl, _ := rates.New(ts.URL, "", 100)
	got, err := cl.GetRate(context.Background(), "TWD", "VND")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["conversion_rate"] != 812.1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_GetRate_AllMissing(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := rates.New(ts.URL, "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.GetRate(ctx, "TWD", "VND"); !errors.Is(err, rates.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GetRate_Unauthorized(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	cl, _ := rates.New(ts.URL, "bad", 100)
	if _, err := cl.GetRate(context.Background(), "TWD", "VND"); !errors.Is(err, rates.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("401 must not be retried or fall through, got %d calls", hits)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := rates.New("  ", "k", 1); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
