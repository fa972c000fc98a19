package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealth_Success(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler := NewHealthHandler(&stubPinger{}, nil)
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusOK)
	response := decodeJSON(t, w)

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", response["status"])
	}
	if response["backend"] != "connected" {
		t.Errorf("expected backend 'connected', got %v", response["backend"])
	}
	if response["cache"] != "memory" {
		t.Errorf("expected cache 'memory', got %v", response["cache"])
	}
	if _, ok := response["backend_latency"]; !ok {
		t.Error("expected backend_latency field")
	}
	if _, ok := response["uptime"]; !ok {
		t.Error("expected uptime field")
	}
}

func TestHandleHealth_BackendError(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler := NewHealthHandler(&stubPinger{err: errors.New("connection refused")}, nil)
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)
	response := decodeJSON(t, w)

	if response["status"] != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %v", response["status"])
	}
	if response["backend"] != "disconnected" {
		t.Errorf("expected backend 'disconnected', got %v", response["backend"])
	}
	if response["error"] != "connection refused" {
		t.Errorf("expected error field, got %v", response["error"])
	}
}

func TestHandleHealth_CacheDegraded(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler := NewHealthHandler(&stubPinger{}, &stubPinger{err: errors.New("redis down")})
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusOK)
	response := decodeJSON(t, w)

	if response["status"] != "degraded" {
		t.Errorf("expected status 'degraded', got %v", response["status"])
	}
	if response["cache"] != "redis" {
		t.Errorf("expected cache 'redis', got %v", response["cache"])
	}
}

func TestHandleInfo(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/info", nil)

	handler := NewHealthHandler(&stubPinger{}, nil)
	handler.HandleInfo(c)

	assertStatusCode(t, w, http.StatusOK)
	response := decodeJSON(t, w)

	if response["service"] != "lockdash" {
		t.Errorf("expected service name, got %v", response["service"])
	}
	if response["version"] != Version {
		t.Errorf("expected version %s, got %v", Version, response["version"])
	}
}

func TestHandleReady(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	backend := &stubPinger{}
	NewHealthHandler(backend, nil).HandleReady(c)

	assertStatusCode(t, w, http.StatusOK)
	if response := decodeJSON(t, w); response["ready"] != true {
		t.Errorf("expected ready true, got %v", response["ready"])
	}
	if backend.calls != 1 {
		t.Errorf("expected 1 ping, got %d", backend.calls)
	}
}

func TestHandleReady_BackendError(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	NewHealthHandler(&stubPinger{err: errors.New("timeout")}, nil).HandleReady(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)
	if response := decodeJSON(t, w); response["ready"] != false {
		t.Errorf("expected ready false, got %v", response["ready"])
	}
}
