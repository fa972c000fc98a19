package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRequestIDRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		requestID := GetRequestID(c)
		if requestID == "" {
			t.Error("expected request_id to be set in context")
		}
		c.String(http.StatusOK, requestID)
	})
	return router
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	router := newRequestIDRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	responseID := w.Header().Get(RequestIDHeader)
	if len(responseID) != 8 {
		t.Errorf("expected request_id length 8, got %d", len(responseID))
	}
	if w.Body.String() != responseID {
		t.Errorf("expected context id %q to match header %q", w.Body.String(), responseID)
	}
}

func TestRequestIDMiddleware_UsesExistingID(t *testing.T) {
	router := newRequestIDRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "trace-123" {
		t.Errorf("expected request_id 'trace-123', got %q", got)
	}
}

func TestRequestIDMiddleware_RejectsUnsafeID(t *testing.T) {
	tests := []string{
		"bad id with spaces",
		"<script>",
		strings.Repeat("a", 65),
	}

	for _, incoming := range tests {
		router := newRequestIDRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, incoming)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got == incoming || len(got) != 8 {
			t.Errorf("expected generated id for %q, got %q", incoming, got)
		}
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if id := GetRequestID(c); id != "" {
		t.Errorf("expected empty request id, got %q", id)
	}
}
