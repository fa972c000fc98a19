package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lockroom/lockdash/src/models"
)

func TestHandleDashboard_RedirectsToHome(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/dash", nil)

	NewDashboardHandler(models.EntityStaffs).HandleDashboard(c)

	assertStatusCode(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/dash/staffs" {
		t.Errorf("expected redirect to /dash/staffs, got %q", loc)
	}
}

func TestNewDashboardHandler_InvalidHomeFallsBackToKeys(t *testing.T) {
	w, c := createTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/dash", nil)

	NewDashboardHandler(models.Entity("locks")).HandleDashboard(c)

	if loc := w.Header().Get("Location"); loc != "/dash/keys" {
		t.Errorf("expected redirect to /dash/keys, got %q", loc)
	}
}
