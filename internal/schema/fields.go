package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caminoadmin/comunidades-go/internal/store"
)

// Kind tags what a field is. The kind is fixed when the schema is built, so
// nothing downstream ever has to sniff field names to know how to treat a
// value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindEmail
	KindDate
	KindTextArea
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindEmail:
		return "email"
	case KindDate:
		return "date"
	case KindTextArea:
		return "textarea"
	case KindSelect:
		return "select"
	}
	return "unknown"
}

// Option is a static choice of a select field.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Field describes one form field of an entity.
type Field struct {
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Kind        Kind            `json:"-"`
	KindName    string          `json:"kind"`
	Required    bool            `json:"required"`
	MinLen      int             `json:"min_len,omitempty"`
	MaxLen      int             `json:"max_len,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []Option        `json:"options,omitempty"`
	Loader      string          `json:"loader,omitempty"`     // option-loader name for dynamic selects
	DependsOn   string          `json:"depends_on,omitempty"` // parent field driving the loader
	Uppercase   bool            `json:"-"`
	Validator   func(any) error `json:"-"`
}

// FieldOption configures a field at construction time.
type FieldOption func(*Field)

func Required() FieldOption            { return func(f *Field) { f.Required = true } }
func MinLen(n int) FieldOption         { return func(f *Field) { f.MinLen = n } }
func MaxLen(n int) FieldOption         { return func(f *Field) { f.MaxLen = n } }
func Placeholder(p string) FieldOption { return func(f *Field) { f.Placeholder = p } }
func Uppercase() FieldOption           { return func(f *Field) { f.Uppercase = true } }
func WithOptions(opts ...Option) FieldOption {
	return func(f *Field) { f.Options = opts }
}
func WithLoader(name string) FieldOption { return func(f *Field) { f.Loader = name } }
func DependsOn(field string) FieldOption { return func(f *Field) { f.DependsOn = field } }
func Validator(v func(any) error) FieldOption {
	return func(f *Field) { f.Validator = v }
}

func newField(kind Kind, name, label string, opts []FieldOption) Field {
	f := Field{Name: name, Label: label, Kind: kind, KindName: kind.String()}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func Text(name, label string, opts ...FieldOption) Field {
	return newField(KindText, name, label, opts)
}
func Number(name, label string, opts ...FieldOption) Field {
	return newField(KindNumber, name, label, opts)
}
func Email(name, label string, opts ...FieldOption) Field {
	return newField(KindEmail, name, label, opts)
}
func Date(name, label string, opts ...FieldOption) Field {
	return newField(KindDate, name, label, opts)
}
func TextArea(name, label string, opts ...FieldOption) Field {
	return newField(KindTextArea, name, label, opts)
}
func Select(name, label string, opts ...FieldOption) Field {
	return newField(KindSelect, name, label, opts)
}

// Schema is the declarative form description of one entity.
type Schema struct {
	Entity string  `json:"entity"`
	Fields []Field `json:"fields"`
}

func New(entity string, fields ...Field) Schema {
	return Schema{Entity: entity, Fields: fields}
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the payload against the schema: required fields present,
// length bounds, email shape, and any custom validator. It runs before any
// SQL is built.
func (s Schema) Validate(payload map[string]any) error {
	return s.validate(payload, true)
}

// ValidatePartial validates only the fields present in the payload, for
// updates.
func (s Schema) ValidatePartial(payload map[string]any) error {
	return s.validate(payload, false)
}

func (s Schema) validate(payload map[string]any, requireAll bool) error {
	for _, f := range s.Fields {
		raw, present := payload[f.Name]
		if !present && !requireAll {
			continue
		}
		if isEmpty(raw) {
			if f.Required {
				return fmt.Errorf("el campo %s es obligatorio", f.Label)
			}
			continue
		}

		if str, ok := raw.(string); ok {
			trimmed := strings.TrimSpace(str)
			if f.MinLen > 0 && len([]rune(trimmed)) < f.MinLen {
				return fmt.Errorf("el campo %s debe tener al menos %d caracteres", f.Label, f.MinLen)
			}
			if f.MaxLen > 0 && len([]rune(trimmed)) > f.MaxLen {
				return fmt.Errorf("el campo %s no puede superar %d caracteres", f.Label, f.MaxLen)
			}
			if f.Kind == KindEmail && !strings.Contains(trimmed, "@") {
				return fmt.Errorf("el campo %s no es un correo válido", f.Label)
			}
		}

		if f.Validator != nil {
			if err := f.Validator(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// Coerce converts a validated payload into typed column values: integers for
// number and select fields, time.Time for dates, trimmed strings elsewhere,
// and nil for empty optional values. Keys not declared in the schema are
// dropped.
func (s Schema) Coerce(payload map[string]any) (store.Row, error) {
	out := store.Row{}
	for name, raw := range payload {
		f, ok := s.field(name)
		if !ok {
			continue
		}
		if isEmpty(raw) {
			out[name] = nil
			continue
		}
		v, err := coerceValue(f, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func coerceValue(f Field, raw any) (any, error) {
	switch f.Kind {
	case KindNumber, KindSelect:
		switch v := raw.(type) {
		case float64:
			return int(v), nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("el campo %s debe ser numérico", f.Label)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("el campo %s debe ser numérico", f.Label)
		}
	case KindDate:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("el campo %s debe ser una fecha válida (AAAA-MM-DD)", f.Label)
			}
			return t, nil
		default:
			return nil, fmt.Errorf("el campo %s debe ser una fecha válida", f.Label)
		}
	default:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("el campo %s debe ser texto", f.Label)
		}
		str = strings.TrimSpace(str)
		if f.Uppercase {
			str = strings.ToUpper(str)
		}
		return str, nil
	}
}

func isEmpty(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
