package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

func TestHealthRoute(t *testing.T) {
	r := New(utils.NewNopLogger(), "realtime-test", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected ok body, got %q", rec.Body.String())
	}
}

func TestRoomStatusUnknownRoom(t *testing.T) {
	r := New(utils.NewNopLogger(), "realtime-test", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebRTCConfigRoute(t *testing.T) {
	r := New(utils.NewNopLogger(), "realtime-test", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webrtc/config", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json response, got %q", ct)
	}
}
