package element

import "fmt"

// CreateTextElement wraps text as a leaf element.
func CreateTextElement(text string) *Element {
	return &Element{
		Kind: KindText,
		Props: Props{
			PropNodeValue: text,
			PropChildren:  []*Element{},
		},
	}
}

// CreateElement builds an element of the given kind.
// props is copied, never aliased; a "children" entry in props is replaced by
// the normalized children arguments.
// Children can be: nil (ignored), *Element, []*Element, or any other value,
// which becomes a text element holding its fmt.Sprint form.
func CreateElement(kind string, props Props, children ...any) *Element {
	merged := make(Props, len(props)+1)
	for k, v := range props {
		if k == PropChildren {
			continue
		}
		merged[k] = v
	}
	merged[PropChildren] = normalizeChildren(children)

	return &Element{Kind: kind, Props: merged}
}

func normalizeChildren(args []any) []*Element {
	children := make([]*Element, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case *Element:
			if v != nil {
				children = append(children, v)
			}

		case []*Element:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
				}
			}

		case string:
			children = append(children, CreateTextElement(v))

		case fmt.Stringer:
			children = append(children, CreateTextElement(v.String()))

		default:
			children = append(children, CreateTextElement(fmt.Sprint(v)))
		}
	}
	return children
}
