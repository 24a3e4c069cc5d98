package element

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
)

// Reserved kinds and property names.
const (
	// KindText is the kind of a text leaf element.
	KindText = "TEXT_ELEMENT"

	// PropChildren holds the ordered child elements.
	PropChildren = "children"

	// PropNodeValue holds a text leaf's content.
	PropNodeValue = "nodeValue"
)

// Props holds an element's properties, including its children.
type Props map[string]any

// Element is an immutable description of a node.
type Element struct {
	Kind  string
	Props Props
}

// Children returns the element's child elements.
// The returned slice must not be modified.
func (e *Element) Children() []*Element {
	if e == nil || e.Props == nil {
		return nil
	}
	children, _ := e.Props[PropChildren].([]*Element)
	return children
}

// IsText reports whether e is a text leaf.
func (e *Element) IsText() bool {
	return e != nil && e.Kind == KindText
}

// Text returns the content of a text leaf, or "" for other kinds.
func (e *Element) Text() string {
	if !e.IsText() {
		return ""
	}
	s, _ := e.Props[PropNodeValue].(string)
	return s
}

// Get returns the value of a non-structural property.
func (e *Element) Get(name string) (any, bool) {
	if e == nil || e.Props == nil || name == PropChildren {
		return nil, false
	}
	v, ok := e.Props[name]
	return v, ok
}

// String returns a short description, e.g. `div` or `"bar"`.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.IsText() {
		return fmt.Sprintf("%q", e.Text())
	}
	return e.Kind
}

// Validate checks that e and every descendant is well formed.
// It returns an E001 error naming the first malformed element found.
func (e *Element) Validate() error {
	// Each visited element keeps its parent's slot in visited and its own
	// child index, so a path is only built for the element that fails.
	type frame struct {
		el     *Element
		parent int
		index  int
	}
	var visited []frame
	path := func(slot int) func() string {
		return func() string {
			var indexes []int
			for ; slot > 0; slot = visited[slot].parent {
				indexes = append(indexes, visited[slot].index)
			}
			var b strings.Builder
			b.WriteString("root")
			for i := len(indexes) - 1; i >= 0; i-- {
				b.WriteByte('/')
				b.WriteString(strconv.Itoa(indexes[i]))
			}
			return b.String()
		}
	}

	stack := []frame{{el: e, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		slot := len(visited)
		visited = append(visited, f)

		if err := validateOne(f.el, path(slot)); err != nil {
			return err
		}
		children := f.el.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{el: children[i], parent: slot, index: i})
		}
	}
	return nil
}

func validateOne(e *Element, path func() string) error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.CodeInvalidElement).
			WithDetailf("%s: "+format, append([]any{path()}, args...)...).
			WithSuggestion("Build elements with element.CreateElement or element.CreateTextElement")
	}

	if e == nil {
		return invalid("element is nil")
	}
	if e.Kind == "" {
		return invalid("element kind is empty")
	}
	if e.Props == nil {
		return invalid("<%s> has no props", e.Kind)
	}
	raw, ok := e.Props[PropChildren]
	if !ok {
		return invalid("<%s> has no children sequence", e.Kind)
	}
	children, ok := raw.([]*Element)
	if !ok {
		return invalid("<%s> children is %T, not a sequence of elements", e.Kind, raw)
	}
	for i, c := range children {
		if c == nil {
			return invalid("<%s> child %d is nil", e.Kind, i)
		}
	}
	if e.Kind == KindText {
		if _, ok := e.Props[PropNodeValue].(string); !ok {
			return invalid("text element has no string nodeValue")
		}
		if len(children) > 0 {
			return invalid("text element has children")
		}
	}
	return nil
}

// Count returns the number of elements in the tree rooted at e.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element, int) bool {
		n++
		return true
	})
	return n
}

// Walk visits e and its descendants in pre-order, depth first.
// fn receives each element and its depth; returning false skips that element's children.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	if e == nil {
		return
	}
	type frame struct {
		el    *Element
		depth int
	}
	stack := []frame{{el: e}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.el, f.depth) {
			continue
		}
		children := f.el.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, frame{el: children[i], depth: f.depth + 1})
			}
		}
	}
}
