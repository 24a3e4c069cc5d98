package markup

import (
	"strconv"
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attrProps maps HTML attribute names to element property names.
var attrProps = map[string]string{
	"class":    "className",
	"for":      "htmlFor",
	"readonly": "readOnly",
	"tabindex": "tabIndex",
}

// boolAttrs are attributes whose presence means true.
var boolAttrs = map[string]bool{
	"hidden":   true,
	"disabled": true,
	"checked":  true,
	"readonly": true,
	"required": true,
}

// ParseHTML parses an HTML fragment into an element tree.
func ParseHTML(src string) (*element.Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, errors.New(errors.CodeCLIInput).WithDetail("invalid HTML").Wrap(err)
	}

	var root *html.Node
	for _, n := range nodes {
		switch {
		case n.Type == html.CommentNode, n.Type == html.TextNode && isBlank(n.Data):
			continue
		case n.Type != html.ElementNode:
			return nil, errors.New(errors.CodeCLIInput).
				WithDetail("HTML must contain a single top-level element, found text")
		case root != nil:
			return nil, errors.New(errors.CodeCLIInput).
				WithDetailf("HTML must contain a single top-level element, found <%s> and <%s>", root.Data, n.Data)
		}
		root = n
	}
	if root == nil {
		return nil, errors.New(errors.CodeCLIInput).WithDetail("HTML contains no element")
	}

	return convert(root)
}

// convert builds elements in reverse pre-order so every child exists before
// its parent, without recursion.
func convert(root *html.Node) (*element.Element, error) {
	var order []*html.Node
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			if c.Type == html.ElementNode || c.Type == html.TextNode {
				stack = append(stack, c)
			}
		}
	}

	built := make(map[*html.Node]*element.Element, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if n.Type == html.TextNode {
			if !isBlank(n.Data) {
				built[n] = element.CreateTextElement(n.Data)
			}
			continue
		}

		props, err := convertAttrs(n)
		if err != nil {
			return nil, err
		}
		var children []*element.Element
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if el, ok := built[c]; ok {
				children = append(children, el)
				delete(built, c)
			}
		}
		built[n] = element.CreateElement(n.Data, props, children)
	}
	return built[root], nil
}

func convertAttrs(n *html.Node) (element.Props, error) {
	props := make(element.Props, len(n.Attr))
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		name := key
		if mapped, ok := attrProps[key]; ok {
			name = mapped
		}

		switch {
		case boolAttrs[key]:
			props[name] = true
		case key == "tabindex":
			v, err := strconv.Atoi(strings.TrimSpace(a.Val))
			if err != nil {
				return nil, errors.New(errors.CodeCLIInput).
					WithDetailf("<%s> tabindex %q is not an integer", n.Data, a.Val)
			}
			props[name] = v
		default:
			props[name] = a.Val
		}
	}
	return props, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
