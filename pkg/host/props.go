package host

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
)

// ValueKind is the type of value a property accepts.
type ValueKind uint8

const (
	ValueString ValueKind = iota
	ValueBool
	ValueInt
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	default:
		return "unknown"
	}
}

// Property declares a recognized property.
type Property struct {
	// Name is the property name used in element props (e.g., "className").
	Name string

	// Attr is the name passed to Host.SetProperty (e.g., "class").
	// Defaults to Name.
	Attr string

	// Kind is the accepted value type.
	Kind ValueKind
}

// PropertyTable resolves element properties to host assignments.
type PropertyTable struct {
	strict   bool
	exact    map[string]Property
	prefixes map[string]ValueKind
}

// NewPropertyTable creates an empty table.
// A strict table rejects unknown properties; a lax one passes them through as strings.
func NewPropertyTable(strict bool) *PropertyTable {
	return &PropertyTable{
		strict:   strict,
		exact:    make(map[string]Property),
		prefixes: make(map[string]ValueKind),
	}
}

// DefaultProperties returns a table with the standard HTML properties registered.
func DefaultProperties(strict bool) *PropertyTable {
	t := NewPropertyTable(strict)
	for _, name := range []string{
		"id", "title", "href", "src", "alt", "type", "name", "value",
		"placeholder", "style", "role", "lang", "target", "rel", "width", "height",
	} {
		t.Register(Property{Name: name, Kind: ValueString})
	}
	t.Register(Property{Name: "className", Attr: "class", Kind: ValueString})
	t.Register(Property{Name: "htmlFor", Attr: "for", Kind: ValueString})
	for _, name := range []string{"hidden", "disabled", "checked", "required"} {
		t.Register(Property{Name: name, Kind: ValueBool})
	}
	t.Register(Property{Name: "readOnly", Attr: "readonly", Kind: ValueBool})
	t.Register(Property{Name: "tabIndex", Attr: "tabindex", Kind: ValueInt})
	t.RegisterPrefix("data-", ValueString)
	t.RegisterPrefix("aria-", ValueString)
	return t
}

// Strict reports whether unknown properties are rejected.
func (t *PropertyTable) Strict() bool {
	return t.strict
}

// Register adds or replaces a property declaration.
func (t *PropertyTable) Register(p Property) {
	if p.Attr == "" {
		p.Attr = p.Name
	}
	t.exact[p.Name] = p
}

// RegisterPrefix accepts every property starting with prefix (e.g., "data-").
func (t *PropertyTable) RegisterPrefix(prefix string, kind ValueKind) {
	t.prefixes[prefix] = kind
}

// Names returns the registered exact property names in sorted order.
func (t *PropertyTable) Names() []string {
	names := make([]string, 0, len(t.exact))
	for name := range t.exact {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps an element property to the attribute name and normalized value
// a host should receive. kind is the element kind the property belongs to.
// Text elements accept only nodeValue.
func (t *PropertyTable) Resolve(kind, name string, value any) (string, any, error) {
	if kind == element.KindText {
		if name != element.PropNodeValue {
			return "", nil, unknownProperty(kind, name)
		}
		s, err := normalize(kind, name, ValueString, value)
		return name, s, err
	}

	if p, ok := t.exact[name]; ok {
		v, err := normalize(kind, name, p.Kind, value)
		return p.Attr, v, err
	}
	for prefix, vk := range t.prefixes {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			v, err := normalize(kind, name, vk, value)
			return name, v, err
		}
	}

	if t.strict {
		return "", nil, unknownProperty(kind, name)
	}
	return name, fmt.Sprint(value), nil
}

func unknownProperty(kind, name string) error {
	return errors.New(errors.CodeUnknownProperty).
		WithDetailf("property %q is not recognized for <%s>", name, kind).
		WithSuggestion("Register the property on the PropertyTable or use a data-* attribute")
}

func invalidProperty(kind, name string, want ValueKind, value any) error {
	return errors.New(errors.CodeInvalidProperty).
		WithDetailf("property %q on <%s> wants %s, got %T", name, kind, want, value)
}

func normalize(kind, name string, want ValueKind, value any) (any, error) {
	switch want {
	case ValueString:
		switch v := value.(type) {
		case string:
			return v, nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case fmt.Stringer:
			return v.String(), nil
		}

	case ValueBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}

	case ValueInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == float64(int(v)) {
				return int(v), nil
			}
		}
	}
	return nil, invalidProperty(kind, name, want, value)
}
