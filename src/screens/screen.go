// Package screens implements the list-and-mutate management screens of the
// dashboard. One generic Screen serves every entity; entities.go holds the
// per-entity configuration.
package screens

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lockroom/lockdash/src/forms"
	"github.com/lockroom/lockdash/src/logging"
	"github.com/lockroom/lockdash/src/middleware"
	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/repositories"
	"github.com/lockroom/lockdash/src/services"
	"github.com/lockroom/lockdash/src/templates"
)

// Column is one table column
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Config configures a Screen for one entity
type Config[T any, I any] struct {
	Entity   models.Entity
	Text     templates.ScreenText
	PageSize int
	Resource repositories.Resource[T, I]
	Columns  []Column[T]
	Fields   []forms.Field
	// ID extracts the record id
	ID func(T) int64
	// Seed turns a record into initial form values for the edit dialog
	Seed func(T) map[string]string
	// Decode builds the backend payload from validated form values
	Decode func(forms.Values) I
	// FetchOnEdit pre-fills the edit dialog from GET /{collection}/{id}
	// instead of the row the table was rendered with.
	FetchOnEdit bool
}

// NavItem is one sidebar entry
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Shell is the dashboard frame shared by all screens
type Shell struct {
	Brand          string
	DashboardTitle string
	Nav            []NavItem
}

// WithActive returns the shell with href marked as the current entry
func (s Shell) WithActive(href string) Shell {
	nav := make([]NavItem, len(s.Nav))
	for i, item := range s.Nav {
		item.Active = item.Href == href
		nav[i] = item
	}
	s.Nav = nav
	return s
}

// PageData is the data of the full screen page
type PageData struct {
	Shell
	Title  string
	Entity string
	Base   string
	Text   templates.ScreenText
	Table  TableView
}

// FormDialog is the data of the create/edit dialog
type FormDialog struct {
	Title   string
	Action  string
	Editing bool
	Fields  []forms.FieldView
}

// ConfirmDialog is the data of the delete confirmation dialog
type ConfirmDialog struct {
	Prompt string
	Action string
}

// Notification is the payload of the "notify" client event
type Notification struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	variantSuccess     = "success"
	variantDestructive = "destructive"
)

// Screen serves the table, dialogs and mutations of one entity
type Screen[T any, I any] struct {
	cfg     Config[T, I]
	queries *services.QueryClient
	shell   Shell
	base    string
}

// New creates a screen mounted under /dash/{entity}
func New[T any, I any](cfg Config[T, I], queries *services.QueryClient, shell Shell) *Screen[T, I] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = models.DefaultPageSize
	}
	base := "/dash/" + cfg.Entity.String()
	return &Screen[T, I]{
		cfg:     cfg,
		queries: queries,
		shell:   shell.WithActive(base),
		base:    base,
	}
}

// Base returns the route prefix of the screen
func (s *Screen[T, I]) Base() string {
	return s.base
}

// Register mounts the screen routes on router. The mutating routes are
// wrapped with mutationMW.
func (s *Screen[T, I]) Register(router gin.IRouter, mutationMW ...gin.HandlerFunc) {
	g := router.Group(s.base)
	g.GET("", s.HandlePage)
	g.GET("/rows", s.HandleRows)
	g.GET("/new", s.HandleNew)
	g.GET("/:id/edit", s.HandleEdit)
	g.GET("/:id/delete", s.HandleConfirmDelete)

	m := g.Group("", mutationMW...)
	m.POST("", s.HandleCreate)
	m.PUT("/:id", s.HandleUpdate)
	m.DELETE("/:id", s.HandleDelete)
}

func (s *Screen[T, I]) logger(c *gin.Context) *zerolog.Logger {
	logger := logging.ComponentLogger("screen", middleware.GetRequestID(c)).
		With().Str("entity", s.cfg.Entity.String()).Logger()
	return &logger
}

// HandlePage renders the full screen. Rows load in a follow-up request.
func (s *Screen[T, I]) HandlePage(c *gin.Context) {
	state := ParseViewState(c.Query("page"), c.Query("name"), c.Query("name"))
	c.HTML(http.StatusOK, "screen", PageData{
		Shell:  s.shell,
		Title:  s.cfg.Text.Title,
		Entity: s.cfg.Entity.String(),
		Base:   s.base,
		Text:   s.cfg.Text,
		Table:  s.table(state, services.Loading[T]()),
	})
}

// HandleRows renders the table body and pager for the requested state. The
// screen's initial load passes refresh=1 and always reaches the backend.
func (s *Screen[T, I]) HandleRows(c *gin.Context) {
	state := ParseViewState(c.Query("page"), c.Query("name"), c.Query("prev_name"))
	result := s.fetch(c, state, c.Query("refresh") == "1")
	if result.IsError() {
		s.logger(c).Error().Err(result.Err).
			Int("page", state.Page).
			Str("name", state.Name).
			Msg("failed to fetch page")
	}
	c.HTML(http.StatusOK, "rows", s.table(state, result))
}

// fetch reads the page for state; refresh skips the cached copy
func (s *Screen[T, I]) fetch(c *gin.Context, state ViewState, refresh bool) services.FetchState[T] {
	key := state.Query(s.cfg.Entity, s.cfg.PageSize)
	if refresh {
		return services.Refresh[T](c.Request.Context(), s.queries, key, s.cfg.Resource.List)
	}
	return services.Fetch[T](c.Request.Context(), s.queries, key, s.cfg.Resource.List)
}

func (s *Screen[T, I]) table(state ViewState, result services.FetchState[T]) TableView {
	headers := make([]string, 0, len(s.cfg.Columns))
	for _, col := range s.cfg.Columns {
		headers = append(headers, col.Header)
	}

	view := TableView{
		Entity:  s.cfg.Entity.String(),
		Base:    s.base,
		Headers: headers,
		ColSpan: len(headers) + 1,
		Status:  result.Status.String(),
		Reason:  result.Reason(),
		State:   state,
		Pager:   NewPager(state, result.Status, result.TotalPages()),
	}

	if result.IsReady() {
		view.Empty = result.Page.IsEmpty()
		for _, record := range result.Page.Data {
			view.Rows = append(view.Rows, s.row(record))
		}
	}
	return view
}

func (s *Screen[T, I]) row(record T) RowView {
	cells := make([]string, 0, len(s.cfg.Columns))
	for _, col := range s.cfg.Columns {
		cells = append(cells, col.Value(record))
	}
	seed, _ := json.Marshal(s.cfg.Seed(record))
	return RowView{ID: s.cfg.ID(record), Cells: cells, SeedJSON: string(seed)}
}

// HandleNew renders an empty create dialog
func (s *Screen[T, I]) HandleNew(c *gin.Context) {
	c.HTML(http.StatusOK, "dialog-form", s.dialog(0, forms.NewValues(nil), nil))
}

// HandleEdit renders the edit dialog seeded with the record's fields. The
// row values travel with the request; screens configured with FetchOnEdit
// read the record from the backend and fall back to the row values.
func (s *Screen[T, I]) HandleEdit(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	raw := make(map[string]string, len(s.cfg.Fields))
	for _, f := range s.cfg.Fields {
		raw[f.Name] = c.Query(f.Name)
	}

	if s.cfg.FetchOnEdit {
		record, err := s.cfg.Resource.Get(c.Request.Context(), id)
		if err != nil {
			s.logger(c).Warn().Err(err).Int64("id", id).Msg("failed to load record for edit, using row values")
		} else if record != nil {
			raw = s.cfg.Seed(*record)
		}
	}

	c.HTML(http.StatusOK, "dialog-form", s.dialog(id, forms.NewValues(raw), nil))
}

func (s *Screen[T, I]) dialog(id int64, values forms.Values, errs forms.Errors) FormDialog {
	d := FormDialog{
		Title:  "Add New " + s.cfg.Text.Singular,
		Action: s.base,
		Fields: forms.View(s.cfg.Fields, values, errs),
	}
	if id != 0 {
		d.Title = "Edit " + s.cfg.Text.Singular
		d.Action = s.base + "/" + strconv.FormatInt(id, 10)
		d.Editing = true
	}
	return d
}

// HandleCreate validates the dialog and creates a record
func (s *Screen[T, I]) HandleCreate(c *gin.Context) {
	s.submit(c, 0)
}

// HandleUpdate validates the dialog and updates the record
func (s *Screen[T, I]) HandleUpdate(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	s.submit(c, id)
}

// submit updates the record with id, or creates one when id is 0. On success
// the dialog closes and the entity's cached pages are invalidated; on failure
// the dialog stays open with the entered values.
func (s *Screen[T, I]) submit(c *gin.Context, id int64) {
	logger := s.logger(c)

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	values, errs := forms.Parse(s.cfg.Fields, c.Request.PostForm)
	if !errs.Empty() {
		c.HTML(http.StatusOK, "dialog-form", s.dialog(id, values, errs))
		return
	}

	input := s.cfg.Decode(values)
	ctx := c.Request.Context()

	var err error
	if id != 0 {
		_, err = s.cfg.Resource.Update(ctx, id, input)
	} else {
		_, err = s.cfg.Resource.Create(ctx, input)
	}

	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("failed to save record")
		s.trigger(c, s.notice(variantDestructive, s.cfg.Text.Messages.SaveFailed), false)
		c.HTML(http.StatusOK, "dialog-form", s.dialog(id, values, nil))
		return
	}

	notice := s.cfg.Text.Messages.Created
	if id != 0 {
		notice = s.cfg.Text.Messages.Updated
	}
	logger.Info().Int64("id", id).Bool("update", id != 0).Msg("record saved")

	s.invalidate(c)
	s.trigger(c, s.notice(variantSuccess, notice), true)
	c.HTML(http.StatusOK, "dialog-closed", nil)
}

// HandleConfirmDelete renders the delete confirmation dialog
func (s *Screen[T, I]) HandleConfirmDelete(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "dialog-confirm", ConfirmDialog{
		Prompt: s.cfg.Text.DeletePrompt,
		Action: s.base + "/" + strconv.FormatInt(id, 10),
	})
}

// HandleDelete deletes the record. The dialog closes either way.
func (s *Screen[T, I]) HandleDelete(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	if err := s.cfg.Resource.Delete(c.Request.Context(), id); err != nil {
		s.logger(c).Error().Err(err).Int64("id", id).Msg("failed to delete record")
		s.trigger(c, s.notice(variantDestructive, s.cfg.Text.Messages.DeleteFailed), false)
		c.HTML(http.StatusOK, "dialog-closed", nil)
		return
	}

	s.logger(c).Info().Int64("id", id).Msg("record deleted")
	s.invalidate(c)
	s.trigger(c, s.notice(variantSuccess, s.cfg.Text.Messages.Deleted), true)
	c.HTML(http.StatusOK, "dialog-closed", nil)
}

func (s *Screen[T, I]) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// invalidate marks the entity's cached pages stale. A failure is logged; the
// mutation itself already succeeded.
func (s *Screen[T, I]) invalidate(c *gin.Context) {
	if err := s.queries.Invalidate(c.Request.Context(), s.cfg.Entity); err != nil {
		s.logger(c).Warn().Err(err).Msg("cache invalidation failed")
	}
}

func (s *Screen[T, I]) notice(variant string, n templates.Notice) Notification {
	return Notification{Variant: variant, Title: n.Title, Description: n.Description}
}

// InvalidatedEvent is the client event that makes a screen's table refetch
func InvalidatedEvent(entity models.Entity) string {
	return entity.String() + "-invalidated"
}

// trigger sets the HX-Trigger header carrying the notification and, after
// a successful mutation, the entity's invalidation event.
func (s *Screen[T, I]) trigger(c *gin.Context, n Notification, invalidated bool) {
	events := map[string]any{"notify": n}
	if invalidated {
		events[InvalidatedEvent(s.cfg.Entity)] = true
	}
	payload, err := json.Marshal(events)
	if err != nil {
		s.logger(c).Error().Err(err).Msg("failed to encode client events")
		return
	}
	c.Header("HX-Trigger", string(payload))
}
