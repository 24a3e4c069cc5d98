package fiber

import (
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
)

// ID addresses a fiber within its Tree.
type ID int32

const (
	// None is the absent fiber.
	None ID = -1

	// RootID is the root anchor of every tree.
	RootID ID = 0
)

// KindRoot is the kind of the root anchor fiber.
const KindRoot = "#root"

// Fiber is one unit of render work.
type Fiber struct {
	Kind     string
	Props    element.Props
	HostNode host.Node

	Parent  ID // Back-reference
	Child   ID // First child
	Sibling ID // Next sibling

	attached bool
	expanded bool
}

// Attached reports whether the host node has been appended under the parent's host node.
func (f Fiber) Attached() bool {
	return f.attached
}

// Expanded reports whether child fibers have been allocated.
func (f Fiber) Expanded() bool {
	return f.expanded
}

// Children returns the child elements this fiber expands into.
func (f Fiber) Children() []*element.Element {
	children, _ := f.Props[element.PropChildren].([]*element.Element)
	return children
}

// Text returns the text of a text fiber.
func (f Fiber) Text() string {
	if f.Kind != element.KindText {
		return ""
	}
	s, _ := f.Props[element.PropNodeValue].(string)
	return s
}
