package element

import "fmt"

// Text creates a text element.
func Text(content string) *Element { return CreateTextElement(content) }

// Textf creates a formatted text element.
func Textf(format string, args ...any) *Element {
	return CreateTextElement(fmt.Sprintf(format, args...))
}

// Content sectioning elements

func Div(props Props, children ...any) *Element     { return CreateElement("div", props, children...) }
func Section(props Props, children ...any) *Element { return CreateElement("section", props, children...) }
func Header(props Props, children ...any) *Element  { return CreateElement("header", props, children...) }
func Footer(props Props, children ...any) *Element  { return CreateElement("footer", props, children...) }
func Main(props Props, children ...any) *Element    { return CreateElement("main", props, children...) }
func Nav(props Props, children ...any) *Element     { return CreateElement("nav", props, children...) }

// Text content elements

func H1(props Props, children ...any) *Element { return CreateElement("h1", props, children...) }
func H2(props Props, children ...any) *Element { return CreateElement("h2", props, children...) }
func H3(props Props, children ...any) *Element { return CreateElement("h3", props, children...) }
func P(props Props, children ...any) *Element  { return CreateElement("p", props, children...) }
func Ul(props Props, children ...any) *Element { return CreateElement("ul", props, children...) }
func Ol(props Props, children ...any) *Element { return CreateElement("ol", props, children...) }
func Li(props Props, children ...any) *Element { return CreateElement("li", props, children...) }

// Inline text semantics

func A(props Props, children ...any) *Element      { return CreateElement("a", props, children...) }
func B(props Props, children ...any) *Element      { return CreateElement("b", props, children...) }
func I(props Props, children ...any) *Element      { return CreateElement("i", props, children...) }
func Span(props Props, children ...any) *Element   { return CreateElement("span", props, children...) }
func Strong(props Props, children ...any) *Element { return CreateElement("strong", props, children...) }
func Em(props Props, children ...any) *Element     { return CreateElement("em", props, children...) }

// Forms

func Button(props Props, children ...any) *Element { return CreateElement("button", props, children...) }
func Input(props Props) *Element                   { return CreateElement("input", props) }
func Label(props Props, children ...any) *Element  { return CreateElement("label", props, children...) }
