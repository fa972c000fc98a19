package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lockroom/lockdash/src/models"
)

// DashboardHandler serves the dashboard entry point
type DashboardHandler struct {
	home models.Entity
}

// NewDashboardHandler creates a dashboard handler opening on home
func NewDashboardHandler(home models.Entity) *DashboardHandler {
	if !home.Valid() {
		home = models.EntityKeys
	}
	return &DashboardHandler{home: home}
}

// HandleDashboard redirects GET /dash to the home screen
func (dh *DashboardHandler) HandleDashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dash/"+dh.home.String())
}
