package markup

import (
	"path/filepath"
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML (or JSON) node tree into an element tree.
func ParseYAML(data []byte) (*element.Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.CodeCLIInput).WithDetail("invalid YAML").Wrap(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New(errors.CodeCLIInput).WithDetail("document is empty")
	}
	return convertYAML(doc.Content[0])
}

// Parse parses data according to the extension of name:
// .html and .htm as HTML, .yaml, .yml and .json as a node tree.
func Parse(name string, data []byte) (*element.Element, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return ParseHTML(string(data))
	case ".yaml", ".yml", ".json":
		return ParseYAML(data)
	default:
		return nil, errors.New(errors.CodeCLIInput).
			WithDetailf("unsupported input %q", name).
			WithSuggestion("Use a .html, .yaml, .yml or .json file")
	}
}

type yamlFrame struct {
	kind     string
	props    element.Props
	children []*yaml.Node
	built    []*element.Element
}

// convertYAML walks the node tree with an explicit stack.
func convertYAML(root *yaml.Node) (*element.Element, error) {
	if root.Kind == yaml.ScalarNode {
		return nil, yamlError(root, "top-level node must be a mapping")
	}

	first, err := openFrame(root)
	if err != nil {
		return nil, err
	}
	stack := []*yamlFrame{first}
	var result *element.Element

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if len(top.built) < len(top.children) {
			child := top.children[len(top.built)]
			if child.Kind == yaml.ScalarNode {
				top.built = append(top.built, element.CreateTextElement(child.Value))
				continue
			}
			frame, err := openFrame(child)
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame)
			continue
		}

		el := element.CreateElement(top.kind, top.props, top.built)
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			result = el
			break
		}
		parent := stack[len(stack)-1]
		parent.built = append(parent.built, el)
	}
	return result, nil
}

func openFrame(n *yaml.Node) (*yamlFrame, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlError(n, "node must be a mapping or a string")
	}

	f := &yamlFrame{props: element.Props{}}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "kind":
			if value.Kind != yaml.ScalarNode || value.Value == "" {
				return nil, yamlError(value, "kind must be a non-empty string")
			}
			f.kind = value.Value

		case "props":
			if value.Kind != yaml.MappingNode {
				return nil, yamlError(value, "props must be a mapping")
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				var v any
				if err := value.Content[j+1].Decode(&v); err != nil {
					return nil, yamlError(value.Content[j+1], err.Error())
				}
				f.props[value.Content[j].Value] = v
			}

		case "children":
			if value.Kind != yaml.SequenceNode {
				return nil, yamlError(value, "children must be a sequence")
			}
			f.children = value.Content

		default:
			return nil, yamlError(key, "unknown field "+key.Value)
		}
	}

	if f.kind == "" {
		return nil, yamlError(n, "node has no kind")
	}
	return f, nil
}

func yamlError(n *yaml.Node, msg string) error {
	return errors.New(errors.CodeCLIInput).WithDetailf("line %d: %s", n.Line, msg)
}
