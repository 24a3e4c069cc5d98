package stream

import (
	"sync"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
	"github.com/vango-dev/fibre/pkg/protocol"
)

// Handle identifies a node created through a Host.
type Handle uint32

// MountHandle is the handle of the mount container.
const MountHandle Handle = 0

// Sink receives encoded frames.
type Sink interface {
	Send(frame []byte) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(frame []byte) error

// Send implements Sink.
func (f SinkFunc) Send(frame []byte) error {
	return f(frame)
}

// Host implements host.Host by recording operations.
type Host struct {
	mountID string

	mu      sync.Mutex
	nextID  Handle
	text    map[Handle]bool
	parent  map[Handle]Handle
	pending []protocol.Op
	sent    int
}

var _ host.Host = (*Host)(nil)

// NewHost creates a Host whose mount container answers to mountID.
func NewHost(mountID string) *Host {
	return &Host{
		mountID: mountID,
		nextID:  MountHandle + 1,
		text:    make(map[Handle]bool),
		parent:  make(map[Handle]Handle),
	}
}

// CreateElement implements host.Host.
func (h *Host) CreateElement(kind string) (host.Node, error) {
	if kind == "" {
		return nil, errors.New(errors.CodeCreateNode).WithDetail("empty element kind")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.alloc(false)
	h.pending = append(h.pending, protocol.Op{Code: protocol.OpCreateElement, ID: uint32(id), Name: kind})
	return id, nil
}

// CreateTextNode implements host.Host.
func (h *Host) CreateTextNode() (host.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.alloc(true)
	h.pending = append(h.pending, protocol.Op{Code: protocol.OpCreateText, ID: uint32(id)})
	return id, nil
}

// SetProperty implements host.Host.
func (h *Host) SetProperty(node host.Node, name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, err := h.own(node)
	if err != nil {
		return err
	}
	if h.text[id] && name != element.PropNodeValue {
		return errors.New(errors.CodeUnknownProperty).
			WithDetailf("text node accepts only %s, got %q", element.PropNodeValue, name)
	}
	h.pending = append(h.pending, protocol.Op{Code: protocol.OpSetProperty, ID: uint32(id), Name: name, Value: value})
	return nil
}

// AppendChild implements host.Host.
func (h *Host) AppendChild(parent, child host.Node) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.own(parent)
	if err != nil {
		return err
	}
	c, err := h.own(child)
	if err != nil {
		return err
	}
	if c == MountHandle {
		return errors.New(errors.CodeAppendChild).WithDetail("cannot append the mount container")
	}
	if h.text[p] {
		return errors.New(errors.CodeAppendChild).WithDetailf("node %d is a text node", p)
	}
	for cur := p; cur != MountHandle; {
		if cur == c {
			return errors.New(errors.CodeAppendChild).WithDetailf("node %d is an ancestor of node %d", c, p)
		}
		next, ok := h.parent[cur]
		if !ok {
			break
		}
		cur = next
	}
	h.parent[c] = p
	h.pending = append(h.pending, protocol.Op{Code: protocol.OpAppendChild, Parent: uint32(p), ID: uint32(c)})
	return nil
}

// GetNodeByID implements host.Host. Only the mount container is addressable.
func (h *Host) GetNodeByID(id string) (host.Node, error) {
	if id == "" || id != h.mountID {
		return nil, errors.New(errors.CodeNodeNotFound).WithDetailf("no node with id %q", id)
	}
	return MountHandle, nil
}

// Pending returns a copy of the buffered operations.
func (h *Host) Pending() []protocol.Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]protocol.Op(nil), h.pending...)
}

// Sent returns the number of operations flushed so far.
func (h *Host) Sent() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent
}

// Flush sends the buffered operations to sink as one ops frame and clears
// the buffer. It sends nothing when the buffer is empty and reports whether
// a frame was sent. On a send error the operations stay buffered.
func (h *Host) Flush(sink Sink) (bool, error) {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return false, nil
	}
	ops := h.pending
	h.pending = nil
	h.mu.Unlock()

	frame := protocol.NewFrame(protocol.FrameOps, protocol.EncodeOps(ops)).Encode()
	if err := sink.Send(frame); err != nil {
		h.mu.Lock()
		h.pending = append(ops, h.pending...)
		h.mu.Unlock()
		return false, err
	}

	h.mu.Lock()
	h.sent += len(ops)
	h.mu.Unlock()
	return true, nil
}

// alloc reserves the next handle. Caller holds h.mu.
func (h *Host) alloc(text bool) Handle {
	id := h.nextID
	h.nextID++
	if text {
		h.text[id] = true
	}
	return id
}

// own checks that node is a handle this host issued. Caller holds h.mu.
func (h *Host) own(node host.Node) (Handle, error) {
	id, ok := node.(Handle)
	if !ok || id >= h.nextID {
		return 0, errors.New(errors.CodeNodeNotFound).WithDetailf("node %v is not owned by this host", node)
	}
	return id, nil
}
