package dom

import (
	"fmt"
	"sync"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/host"
)

// DefaultMountID is the id of the mount node created by NewDocument.
const DefaultMountID = "root"

// OpKind identifies a recorded host call.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpSetProperty
	OpAppendChild
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetProperty:
		return "SetProperty"
	case OpAppendChild:
		return "AppendChild"
	default:
		return "Unknown"
	}
}

// Op is one recorded host call.
type Op struct {
	Kind   OpKind
	Node   *Node // Target node (created node, property target, or appended child)
	Parent *Node // For OpAppendChild
	Name   string
	Value  any
}

// Document is an in-memory host.
type Document struct {
	mu     sync.Mutex
	body   *Node
	record bool
	ops    []Op
}

// Option configures a Document.
type Option func(*documentOptions)

type documentOptions struct {
	mountID string
	record  bool
}

// WithMount sets the id of the mount node appended under the body.
// An empty id creates no mount node.
func WithMount(id string) Option {
	return func(o *documentOptions) {
		o.mountID = id
	}
}

// WithOpLog records every host call so tests can assert on ordering.
func WithOpLog() Option {
	return func(o *documentOptions) {
		o.record = true
	}
}

// NewDocument creates a document with a <body> and, by default, a
// <div id="root"> mount node.
func NewDocument(opts ...Option) *Document {
	o := documentOptions{mountID: DefaultMountID}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Document{record: o.record}
	d.body = &Node{Type: ElementNode, Tag: "body", Attrs: map[string]any{}, doc: d}
	if o.mountID != "" {
		mount := &Node{Type: ElementNode, Tag: "div", Attrs: map[string]any{"id": o.mountID}, doc: d}
		mount.parent = d.body
		d.body.children = append(d.body.children, mount)
	}
	return d
}

// Body returns the document body.
func (d *Document) Body() *Node {
	return d.body
}

// Ops returns a copy of the recorded operations.
func (d *Document) Ops() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Op(nil), d.ops...)
}

func (d *Document) log(op Op) {
	if d.record {
		d.ops = append(d.ops, op)
	}
}

// CreateElement implements host.Host.
func (d *Document) CreateElement(kind string) (host.Node, error) {
	if kind == "" {
		return nil, errors.New(errors.CodeCreateNode).WithDetail("empty tag name")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	n := &Node{Type: ElementNode, Tag: kind, Attrs: map[string]any{}, doc: d}
	d.log(Op{Kind: OpCreateElement, Node: n, Name: kind})
	return n, nil
}

// CreateTextNode implements host.Host.
func (d *Document) CreateTextNode() (host.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := &Node{Type: TextNode, doc: d}
	d.log(Op{Kind: OpCreateText, Node: n})
	return n, nil
}

// SetProperty implements host.Host.
func (d *Document) SetProperty(node host.Node, name string, value any) error {
	n, err := d.own(node)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if n.Type == TextNode {
		if name != "nodeValue" {
			return errors.New(errors.CodeUnknownProperty).
				WithDetailf("text nodes only accept nodeValue, got %q", name)
		}
		n.NodeValue = fmt.Sprint(value)
	} else {
		n.Attrs[name] = value
	}
	d.log(Op{Kind: OpSetProperty, Node: n, Name: name, Value: value})
	return nil
}

// AppendChild implements host.Host.
func (d *Document) AppendChild(parent, child host.Node) error {
	p, err := d.own(parent)
	if err != nil {
		return err
	}
	c, err := d.own(child)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.Type == TextNode {
		return errors.New(errors.CodeAppendChild).WithDetail("text nodes cannot have children")
	}
	if c.contains(p) {
		return errors.New(errors.CodeAppendChild).
			WithDetailf("<%s> cannot be appended into itself or a descendant", c.Tag)
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = p
	p.children = append(p.children, c)
	d.log(Op{Kind: OpAppendChild, Node: c, Parent: p})
	return nil
}

// GetNodeByID implements host.Host. Only nodes attached under the body are found.
func (d *Document) GetNodeByID(id string) (host.Node, error) {
	if n := d.Find(id); n != nil {
		return n, nil
	}
	return nil, errors.New(errors.CodeNodeNotFound).WithDetailf("id %q", id)
}

// Find returns the attached node with the given id, or nil.
func (d *Document) Find(id string) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	stack := []*Node{d.body}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == ElementNode && n.ID() == id {
			return n
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return nil
}

// Mount returns the default mount node, or nil if the document has none.
func (d *Document) Mount() *Node {
	return d.Find(DefaultMountID)
}

func (d *Document) own(node host.Node) (*Node, error) {
	n, ok := node.(*Node)
	if !ok || n == nil {
		return nil, errors.New(errors.CodeNodeNotFound).WithDetailf("%T is not a dom node", node)
	}
	if n.doc != d {
		return nil, errors.New(errors.CodeNodeNotFound).WithDetail("node belongs to another document")
	}
	return n, nil
}

var _ host.Host = (*Document)(nil)
