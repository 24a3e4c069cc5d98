package dom

import (
	"fmt"
	"sort"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes n's children.
func InnerHTML(n *Node) string {
	var b strings.Builder
	for _, c := range n.children {
		writeNode(&b, c)
	}
	return b.String()
}

// writeNode renders n and its subtree.
func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.Type == TextNode {
		b.WriteString(escapeHTML(n.NodeValue))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	writeAttributes(b, n)
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.children {
		writeNode(b, c)
	}
	fmt.Fprintf(b, "</%s>", n.Tag)
}

// writeAttributes renders attributes in sorted order for deterministic output.
func writeAttributes(b *strings.Builder, n *Node) {
	keys := make([]string, 0, len(n.Attrs))
	for key := range n.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := n.Attrs[key]
		if v, ok := value.(bool); ok {
			if v {
				b.WriteByte(' ')
				b.WriteString(key)
			}
			continue
		}
		fmt.Fprintf(b, ` %s="%s"`, key, escapeAttr(attrToString(value)))
	}
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
