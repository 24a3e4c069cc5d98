package fiber

import (
	"sort"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
)

// Materializer produces one detached host node for an element description.
type Materializer interface {
	Materialize(kind string, props element.Props) (host.Node, error)
}

// HostMaterializer materializes nodes through a Host, assigning properties
// via a PropertyTable.
type HostMaterializer struct {
	host  host.Host
	props *host.PropertyTable
}

// NewMaterializer creates a HostMaterializer. A nil table means host.DefaultProperties(true).
func NewMaterializer(h host.Host, props *host.PropertyTable) *HostMaterializer {
	if props == nil {
		props = host.DefaultProperties(true)
	}
	return &HostMaterializer{host: h, props: props}
}

// Materialize creates the node and copies every property except children onto it.
// Properties are assigned in sorted name order. props is never modified.
func (m *HostMaterializer) Materialize(kind string, props element.Props) (host.Node, error) {
	var (
		node host.Node
		err  error
	)
	if kind == element.KindText {
		node, err = m.host.CreateTextNode()
	} else {
		node, err = m.host.CreateElement(kind)
	}
	if err != nil {
		return nil, errors.New(errors.CodeCreateNode).WithDetailf("<%s>", kind).Wrap(err)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		if name != element.PropChildren {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		attr, value, err := m.props.Resolve(kind, name, props[name])
		if err != nil {
			return nil, err
		}
		if err := m.host.SetProperty(node, attr, value); err != nil {
			return nil, errors.FromError(err, errors.CodeInvalidProperty)
		}
	}
	return node, nil
}
