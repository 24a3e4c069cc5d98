package stream

import (
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/host"
	"github.com/vango-dev/fibre/pkg/protocol"
)

// Replayer applies operation batches to a host, keeping the handle to node
// mapping across batches.
type Replayer struct {
	host  host.Host
	nodes map[uint32]host.Node
}

// NewReplayer creates a Replayer targeting h with container as handle 0.
func NewReplayer(h host.Host, container host.Node) *Replayer {
	return &Replayer{
		host:  h,
		nodes: map[uint32]host.Node{uint32(MountHandle): container},
	}
}

// Apply applies ops in order. It stops at the first failing op.
func (r *Replayer) Apply(ops []protocol.Op) error {
	for i, op := range ops {
		if err := r.apply(op); err != nil {
			return errors.New(errors.CodeFrameDecode).
				WithDetailf("replay op %d (%s)", i, op).
				Wrap(err)
		}
	}
	return nil
}

// ApplyFrame decodes an ops frame and applies it.
// Frames of other types are ignored.
func (r *Replayer) ApplyFrame(data []byte) error {
	frame, err := protocol.DecodeFrame(data)
	if err != nil {
		return err
	}
	if frame.Type != protocol.FrameOps {
		return nil
	}
	ops, err := protocol.DecodeOps(frame.Payload)
	if err != nil {
		return err
	}
	return r.Apply(ops)
}

func (r *Replayer) apply(op protocol.Op) error {
	switch op.Code {
	case protocol.OpCreateElement:
		node, err := r.host.CreateElement(op.Name)
		if err != nil {
			return err
		}
		r.nodes[op.ID] = node
	case protocol.OpCreateText:
		node, err := r.host.CreateTextNode()
		if err != nil {
			return err
		}
		r.nodes[op.ID] = node
	case protocol.OpSetProperty:
		node, err := r.node(op.ID)
		if err != nil {
			return err
		}
		return r.host.SetProperty(node, op.Name, op.Value)
	case protocol.OpAppendChild:
		parent, err := r.node(op.Parent)
		if err != nil {
			return err
		}
		child, err := r.node(op.ID)
		if err != nil {
			return err
		}
		return r.host.AppendChild(parent, child)
	default:
		return errors.New(errors.CodeUnknownOp).WithDetailf("op code 0x%02x", uint8(op.Code))
	}
	return nil
}

func (r *Replayer) node(id uint32) (host.Node, error) {
	node, ok := r.nodes[id]
	if !ok {
		return nil, errors.New(errors.CodeNodeNotFound).WithDetailf("no node with handle %d", id)
	}
	return node, nil
}

// Replay applies ops to h with container as handle 0.
func Replay(h host.Host, container host.Node, ops []protocol.Op) error {
	return NewReplayer(h, container).Apply(ops)
}
