package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lockroom/lockdash/src/logging"
	"github.com/lockroom/lockdash/src/middleware"
	"github.com/lockroom/lockdash/src/templates"
)

// AuthHandler serves the mock login and registration page. Nothing is
// persisted and no session is created.
type AuthHandler struct {
	ui *templates.UIConfig
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(ui *templates.UIConfig) *AuthHandler {
	return &AuthHandler{ui: ui}
}

// LoginRequest represents a login form submission
type LoginRequest struct {
	Username string `form:"username" binding:"required,max=255"`
	Password string `form:"password" binding:"required"`
}

// RegisterRequest represents a registration form submission
type RegisterRequest struct {
	Username        string `form:"username" binding:"required,max=255"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

// LoginPage is the data of the login template
type LoginPage struct {
	Title          string
	Brand          string
	DashboardTitle string
	Text           templates.LoginText
}

// LoginResult is the data of the login-result partial
type LoginResult struct {
	Message string
	Error   bool
}

// HandleLoginPage handles GET / - the login/register tabs
func (h *AuthHandler) HandleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", LoginPage{
		Title:          h.ui.Login.Title,
		Brand:          h.ui.Branding.Name,
		DashboardTitle: h.ui.Branding.DashboardTitle,
		Text:           h.ui.Login,
	})
}

// HandleLogin handles POST /login
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "login-result", LoginResult{Message: "Username and password are required", Error: true})
		return
	}

	logger := logging.ComponentLogger("auth", middleware.GetRequestID(c))
	logger.Info().Str("username", req.Username).Msg("mock login")

	c.HTML(http.StatusOK, "login-result", LoginResult{
		Message: templates.WithUsername(h.ui.Login.LoggedIn, req.Username),
	})
}

// HandleRegister handles POST /register
func (h *AuthHandler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "login-result", LoginResult{Message: "All fields are required", Error: true})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.HTML(http.StatusOK, "login-result", LoginResult{Message: h.ui.Login.PasswordMismatch, Error: true})
		return
	}

	logger := logging.ComponentLogger("auth", middleware.GetRequestID(c))
	logger.Info().Str("username", req.Username).Msg("mock registration")

	c.HTML(http.StatusOK, "login-result", LoginResult{
		Message: templates.WithUsername(h.ui.Login.Registered, req.Username),
	})
}
