// Package forms parses and validates the create/edit dialogs of the
// dashboard screens. Validation happens before any backend request is made.
package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the input kind of a field
type Kind int

const (
	// KindText is a free text input
	KindText Kind = iota
	// KindNumber is a numeric input; empty input means null
	KindNumber
)

// Field describes one form input
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	MaxLength   int
	Placeholder string
}

// InputType returns the HTML input type for the field
func (f Field) InputType() string {
	if f.Kind == KindNumber {
		return "number"
	}
	return "text"
}

// Errors maps field names to their validation message
type Errors map[string]string

// Has reports whether name failed validation
func (e Errors) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Empty reports whether validation passed
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Values holds the submitted (or seeded) form values
type Values struct {
	raw     map[string]string
	numbers map[string]*int64
}

// NewValues builds form values from raw strings, e.g. to seed an edit dialog
func NewValues(raw map[string]string) Values {
	v := Values{raw: make(map[string]string, len(raw)), numbers: make(map[string]*int64)}
	for k, val := range raw {
		v.raw[k] = val
	}
	return v
}

// Raw returns the value as typed by the user
func (v Values) Raw(name string) string {
	return v.raw[name]
}

// String returns a text field value
func (v Values) String(name string) string {
	return v.raw[name]
}

// Int64Ptr returns a number field value, nil when left empty
func (v Values) Int64Ptr(name string) *int64 {
	return v.numbers[name]
}

var validate = validator.New()

// Parse validates the submitted form against fields. Required text fields
// reject empty input; number fields accept empty input as null and must
// otherwise be integers.
func Parse(fields []Field, form url.Values) (Values, Errors) {
	values := Values{raw: make(map[string]string), numbers: make(map[string]*int64)}
	errs := Errors{}

	for _, f := range fields {
		input := strings.TrimSpace(form.Get(f.Name))
		values.raw[f.Name] = input

		switch f.Kind {
		case KindNumber:
			if input == "" {
				if f.Required {
					errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
				}
				values.numbers[f.Name] = nil
				continue
			}
			if err := validate.Var(input, "number"); err != nil {
				errs[f.Name] = fmt.Sprintf("%s must be a number", f.Label)
				continue
			}
			n, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				errs[f.Name] = fmt.Sprintf("%s must be a number", f.Label)
				continue
			}
			values.numbers[f.Name] = &n

		default:
			if f.Required {
				if err := validate.Var(input, "required"); err != nil {
					errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
					continue
				}
			}
			if f.MaxLength > 0 {
				if err := validate.Var(input, "max="+strconv.Itoa(f.MaxLength)); err != nil {
					errs[f.Name] = fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLength)
				}
			}
		}
	}

	return values, errs
}

// FormatInt64Ptr renders an optional number for a form input
func FormatInt64Ptr(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// FieldView is a field ready for rendering
type FieldView struct {
	Field
	Value string
	Error string
}

// View pairs every field with its current value and validation message
func View(fields []Field, values Values, errs Errors) []FieldView {
	views := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		views = append(views, FieldView{
			Field: f,
			Value: values.Raw(f.Name),
			Error: errs[f.Name],
		})
	}
	return views
}
