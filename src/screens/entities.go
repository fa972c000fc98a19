package screens

import (
	"strconv"

	"github.com/lockroom/lockdash/src/forms"
	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/repositories"
	"github.com/lockroom/lockdash/src/services"
	"github.com/lockroom/lockdash/src/templates"
)

const none = "None"

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}

func idOrNone(id *int64) string {
	if id == nil {
		return none
	}
	return formatID(*id)
}

// KeyFields are the inputs of the key dialog
var KeyFields = []forms.Field{
	{Name: "name", Label: "Name", Kind: forms.KindText, Required: true, MaxLength: 200},
	{Name: "description", Label: "Description", Kind: forms.KindText},
	{Name: "staff_id", Label: "Staff ID", Kind: forms.KindNumber, Placeholder: "Optional"},
}

// KeyCopyFields are the inputs of the key copy dialog
var KeyCopyFields = []forms.Field{
	{Name: "key_id", Label: "Key ID", Kind: forms.KindNumber},
	{Name: "staff_id", Label: "Staff ID", Kind: forms.KindNumber, Placeholder: "Optional"},
}

// StaffFields are the inputs of the staff dialog
var StaffFields = []forms.Field{
	{Name: "name", Label: "Name", Kind: forms.KindText, Required: true},
	{Name: "role", Label: "Role", Kind: forms.KindText, Required: true},
}

// NewKeysScreen configures the key management screen
func NewKeysScreen(repo repositories.KeyRepository, text templates.ScreenText, pageSize int,
	queries *services.QueryClient, shell Shell) *Screen[models.Key, models.KeyInput] {
	return New(Config[models.Key, models.KeyInput]{
		Entity:   models.EntityKeys,
		Text:     text,
		PageSize: pageSize,
		Resource: repo,
		Columns: []Column[models.Key]{
			{Header: "ID", Value: func(k models.Key) string { return formatID(k.ID) }},
			{Header: "Name", Value: func(k models.Key) string { return k.Name }},
			{Header: "Description", Value: func(k models.Key) string { return k.Description }},
			{Header: "Staff Name", Value: func(k models.Key) string { return orNone(k.StaffName) }},
		},
		Fields: KeyFields,
		ID:     func(k models.Key) int64 { return k.ID },
		Seed: func(k models.Key) map[string]string {
			return map[string]string{
				"name":        k.Name,
				"description": k.Description,
				"staff_id":    forms.FormatInt64Ptr(k.StaffID),
			}
		},
		Decode: func(v forms.Values) models.KeyInput {
			return models.KeyInput{
				Name:        v.String("name"),
				Description: v.String("description"),
				StaffID:     v.Int64Ptr("staff_id"),
			}
		},
		FetchOnEdit: true,
	}, queries, shell)
}

// NewKeyCopiesScreen configures the key copy management screen
func NewKeyCopiesScreen(repo repositories.KeyCopyRepository, text templates.ScreenText, pageSize int,
	queries *services.QueryClient, shell Shell) *Screen[models.KeyCopy, models.KeyCopyInput] {
	return New(Config[models.KeyCopy, models.KeyCopyInput]{
		Entity:   models.EntityKeyCopies,
		Text:     text,
		PageSize: pageSize,
		Resource: repo,
		Columns: []Column[models.KeyCopy]{
			{Header: "Key Copy ID", Value: func(kc models.KeyCopy) string { return formatID(kc.ID) }},
			{Header: "Key ID", Value: func(kc models.KeyCopy) string { return formatID(kc.KeyID) }},
			{Header: "Key Name", Value: func(kc models.KeyCopy) string { return orNone(kc.KeyName) }},
			{Header: "Staff ID", Value: func(kc models.KeyCopy) string { return idOrNone(kc.StaffID) }},
			{Header: "Staff Name", Value: func(kc models.KeyCopy) string { return orNone(kc.StaffName) }},
		},
		Fields: KeyCopyFields,
		ID:     func(kc models.KeyCopy) int64 { return kc.ID },
		Seed: func(kc models.KeyCopy) map[string]string {
			return map[string]string{
				"key_id":   formatID(kc.KeyID),
				"staff_id": forms.FormatInt64Ptr(kc.StaffID),
			}
		},
		Decode: func(v forms.Values) models.KeyCopyInput {
			return models.KeyCopyInput{
				KeyID:   v.Int64Ptr("key_id"),
				StaffID: v.Int64Ptr("staff_id"),
			}
		},
	}, queries, shell)
}

// NewStaffScreen configures the staff management screen
func NewStaffScreen(repo repositories.StaffRepository, text templates.ScreenText, pageSize int,
	queries *services.QueryClient, shell Shell) *Screen[models.Staff, models.StaffInput] {
	return New(Config[models.Staff, models.StaffInput]{
		Entity:   models.EntityStaffs,
		Text:     text,
		PageSize: pageSize,
		Resource: repo,
		Columns: []Column[models.Staff]{
			{Header: "ID", Value: func(s models.Staff) string { return formatID(s.ID) }},
			{Header: "Name", Value: func(s models.Staff) string { return s.Name }},
			{Header: "Role", Value: func(s models.Staff) string { return s.Role }},
		},
		Fields: StaffFields,
		ID:     func(s models.Staff) int64 { return s.ID },
		Seed: func(s models.Staff) map[string]string {
			return map[string]string{"name": s.Name, "role": s.Role}
		},
		Decode: func(v forms.Values) models.StaffInput {
			return models.StaffInput{Name: v.String("name"), Role: v.String("role")}
		},
	}, queries, shell)
}

// NewShell builds the sidebar from the UI catalogue
func NewShell(ui *templates.UIConfig) Shell {
	shell := Shell{Brand: ui.Branding.Name, DashboardTitle: ui.Branding.DashboardTitle}
	for _, entity := range []models.Entity{models.EntityKeys, models.EntityKeyCopies, models.EntityStaffs} {
		shell.Nav = append(shell.Nav, NavItem{
			Label: ui.Screen(entity.String()).Nav,
			Href:  "/dash/" + entity.String(),
		})
	}
	return shell
}
