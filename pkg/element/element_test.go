package element

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/fibre/internal/errors"
)

func TestCreateTextElement(t *testing.T) {
	el := CreateTextElement("hi")

	if el.Kind != KindText {
		t.Errorf("Kind = %q, want %q", el.Kind, KindText)
	}
	if el.Text() != "hi" {
		t.Errorf("Text() = %q, want %q", el.Text(), "hi")
	}
	if len(el.Children()) != 0 {
		t.Errorf("len(Children()) = %d, want 0", len(el.Children()))
	}
	if err := el.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCreateElement_NormalizesChildren(t *testing.T) {
	tests := []struct {
		name      string
		children  []any
		wantKinds []string
		wantTexts []string
	}{
		{
			name:      "string child becomes text",
			children:  []any{"hi"},
			wantKinds: []string{KindText},
			wantTexts: []string{"hi"},
		},
		{
			name:      "numbers and bools become text",
			children:  []any{42, 1.5, true},
			wantKinds: []string{KindText, KindText, KindText},
			wantTexts: []string{"42", "1.5", "true"},
		},
		{
			name:      "elements kept as is",
			children:  []any{CreateElement("a", nil), "x"},
			wantKinds: []string{"a", KindText},
			wantTexts: []string{"", "x"},
		},
		{
			name:      "nil ignored and slices flattened",
			children:  []any{nil, []*Element{CreateElement("li", nil), nil, CreateElement("li", nil)}},
			wantKinds: []string{"li", "li"},
			wantTexts: []string{"", ""},
		},
		{
			name:      "no children",
			children:  nil,
			wantKinds: []string{},
			wantTexts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := CreateElement("div", Props{}, tt.children...)
			children := el.Children()
			if len(children) != len(tt.wantKinds) {
				t.Fatalf("len(Children()) = %d, want %d", len(children), len(tt.wantKinds))
			}
			for i, c := range children {
				if c.Kind != tt.wantKinds[i] {
					t.Errorf("child %d Kind = %q, want %q", i, c.Kind, tt.wantKinds[i])
				}
				if c.Text() != tt.wantTexts[i] {
					t.Errorf("child %d Text() = %q, want %q", i, c.Text(), tt.wantTexts[i])
				}
			}
			if err := el.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestCreateElement_CopiesProps(t *testing.T) {
	props := Props{"id": "foo", PropChildren: "ignored"}
	el := CreateElement("div", props, "x")

	props["id"] = "bar"
	if v, _ := el.Get("id"); v != "foo" {
		t.Errorf("Get(id) = %v, want %q", v, "foo")
	}
	if len(el.Children()) != 1 {
		t.Errorf("len(Children()) = %d, want 1", len(el.Children()))
	}
	if _, ok := el.Get(PropChildren); ok {
		t.Error("Get(children) should not expose the structural property")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		el   *Element
		ok   bool
	}{
		{"well formed", Div(Props{"id": "foo"}, A(nil, "bar"), B(nil)), true},
		{"nil element", nil, false},
		{"empty kind", &Element{Props: Props{PropChildren: []*Element{}}}, false},
		{"nil props", &Element{Kind: "div"}, false},
		{"missing children", &Element{Kind: "div", Props: Props{}}, false},
		{"non-sequence children", &Element{Kind: "div", Props: Props{PropChildren: "x"}}, false},
		{"nil child", &Element{Kind: "div", Props: Props{PropChildren: []*Element{nil}}}, false},
		{"text without value", &Element{Kind: KindText, Props: Props{PropChildren: []*Element{}}}, false},
		{
			"malformed grandchild",
			Div(nil, Div(nil, &Element{Kind: "span"})),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.el.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.HasCode(err, errors.CodeInvalidElement) {
					t.Errorf("Validate() code = %q, want %q", errors.CodeOf(err), errors.CodeInvalidElement)
				}
			}
		})
	}
}

func TestValidate_ErrorPath(t *testing.T) {
	el := Div(nil, P(nil, "x"), Ul(nil, Li(nil), &Element{Kind: "li"}))

	err := el.Validate()
	var fe *errors.FibreError
	if !stderrors.As(err, &fe) {
		t.Fatalf("Validate() = %v, want a FibreError", err)
	}
	if !strings.HasPrefix(fe.Detail, "root/1/1: ") {
		t.Errorf("Detail = %q, want prefix %q", fe.Detail, "root/1/1: ")
	}
}

func chain(depth int, leaf *Element) *Element {
	el := leaf
	for i := 0; i < depth; i++ {
		el = &Element{Kind: "div", Props: Props{PropChildren: []*Element{el}}}
	}
	return el
}

func TestValidate_DeepChain(t *testing.T) {
	const depth = 100_000

	start := time.Now()
	if err := chain(depth, Text("leaf")).Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Validate() of a %d-deep chain took %v", depth, elapsed)
	}

	err := chain(depth, &Element{Kind: "span"}).Validate()
	var fe *errors.FibreError
	if !stderrors.As(err, &fe) {
		t.Fatalf("Validate() = %v, want a FibreError", err)
	}
	want := "root" + strings.Repeat("/0", depth) + ": "
	if !strings.HasPrefix(fe.Detail, want) {
		t.Errorf("Detail has %d bytes, want prefix of %d bytes", len(fe.Detail), len(want))
	}
}

func TestWalk_PreOrder(t *testing.T) {
	tree := Div(Props{"id": "foo"},
		A(nil, "bar"),
		B(nil),
	)

	var got []string
	var depths []int
	tree.Walk(func(el *Element, depth int) bool {
		got = append(got, el.String())
		depths = append(depths, depth)
		return true
	})

	want := []string{"div", "a", `"bar"`, "b"}
	wantDepths := []int{0, 1, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit %d = %s@%d, want %s@%d", i, got[i], depths[i], want[i], wantDepths[i])
		}
	}
	if tree.Count() != 4 {
		t.Errorf("Count() = %d, want 4", tree.Count())
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	tree := Div(nil, Ul(nil, Li(nil, "one"), Li(nil, "two")), P(nil, "after"))

	var got []string
	tree.Walk(func(el *Element, _ int) bool {
		got = append(got, el.String())
		return el.Kind != "ul"
	})

	want := []string{"div", "ul", "p", `"after"`}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTagFactories(t *testing.T) {
	tests := []struct {
		el   *Element
		kind string
	}{
		{Div(nil), "div"},
		{Span(nil), "span"},
		{H1(nil), "h1"},
		{A(nil), "a"},
		{Button(nil), "button"},
		{Input(Props{"type": "text"}), "input"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if tt.el.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", tt.el.Kind, tt.kind)
			}
			if err := tt.el.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}

	if got := Textf("%d items", 3).Text(); got != "3 items" {
		t.Errorf("Textf() = %q, want %q", got, "3 items")
	}
}
