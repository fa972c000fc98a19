package templates

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds the user-facing texts of the dashboard from ui.yaml
type UIConfig struct {
	Branding struct {
		Name           string `yaml:"name"`
		DashboardTitle string `yaml:"dashboard_title"`
	} `yaml:"branding"`

	Login LoginText `yaml:"login"`

	Notifications struct {
		RateLimited Notice `yaml:"rate_limited"`
	} `yaml:"notifications"`

	Screens map[string]ScreenText `yaml:"screens"`
}

// LoginText holds the texts of the mock login page. LoggedIn and Registered
// may contain a {username} placeholder.
type LoginText struct {
	Title            string `yaml:"title"`
	LoginTab         string `yaml:"login_tab"`
	RegisterTab      string `yaml:"register_tab"`
	PasswordMismatch string `yaml:"password_mismatch"`
	LoggedIn         string `yaml:"logged_in"`
	Registered       string `yaml:"registered"`
}

// WithUsername substitutes username for every {username} placeholder in text.
// Any other text, including printf verbs, is kept as written.
func WithUsername(text, username string) string {
	return strings.ReplaceAll(text, "{username}", username)
}

// ScreenText holds the texts of one management screen
type ScreenText struct {
	Nav               string   `yaml:"nav"`
	Title             string   `yaml:"title"`
	Singular          string   `yaml:"singular"`
	FilterPlaceholder string   `yaml:"filter_placeholder"`
	DeletePrompt      string   `yaml:"delete_prompt"`
	Messages          Messages `yaml:"messages"`
}

// Messages are the notifications a screen raises after mutations
type Messages struct {
	Created      Notice `yaml:"created"`
	Updated      Notice `yaml:"updated"`
	SaveFailed   Notice `yaml:"save_failed"`
	Deleted      Notice `yaml:"deleted"`
	DeleteFailed Notice `yaml:"delete_failed"`
}

// Notice is a notification title and description
type Notice struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// LoadUIConfig loads the embedded ui.yaml, or the file at path when set
func LoadUIConfig(path string) (*UIConfig, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = files.ReadFile("ui.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read UI config: %w", err)
	}

	var cfg UIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse UI config: %w", err)
	}
	if len(cfg.Screens) == 0 {
		return nil, fmt.Errorf("UI config defines no screens")
	}

	return &cfg, nil
}

// Screen returns the texts of the screen for entity. Missing entries fall
// back to the entity name so a partial override still renders.
func (c *UIConfig) Screen(entity string) ScreenText {
	text, ok := c.Screens[entity]
	if !ok {
		text = ScreenText{}
	}
	if text.Title == "" {
		text.Title = entity
	}
	if text.Nav == "" {
		text.Nav = text.Title
	}
	if text.Singular == "" {
		text.Singular = text.Title
	}
	return text
}
