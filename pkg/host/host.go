package host

// Node is an opaque handle to a host node.
type Node any

// Host is the set of node primitives the engine consumes.
type Host interface {
	// CreateElement creates a detached node of the given kind (tag name).
	CreateElement(kind string) (Node, error)

	// CreateTextNode creates a detached, empty text node.
	CreateTextNode() (Node, error)

	// SetProperty assigns a resolved property on node.
	SetProperty(node Node, name string, value any) error

	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Node) error

	// GetNodeByID returns the node whose id property equals id.
	GetNodeByID(id string) (Node, error)
}
