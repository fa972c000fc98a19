package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed html/*.html ui.yaml
var files embed.FS

// Parse parses every HTML template of the dashboard into one set suitable
// for gin's SetHTMLTemplate.
func Parse() (*template.Template, error) {
	tmpl, err := template.ParseFS(files, "html/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// MustParse is Parse for program start-up
func MustParse() *template.Template {
	tmpl, err := Parse()
	if err != nil {
		panic(err)
	}
	return tmpl
}
