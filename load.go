package formschema

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadJSON decodes a schema document.
func LoadJSON(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("formschema: decode json schema: %w", err)
	}
	return &n, nil
}

// MustLoadJSON is LoadJSON for fixtures known to be valid; it panics on error.
func MustLoadJSON(data []byte) *Node {
	n, err := LoadJSON(data)
	if err != nil {
		panic(err)
	}
	return n
}

// LoadYAML decodes a schema document written in YAML. Mapping order is kept
// so that properties and pattern properties behave as in the JSON form.
func LoadYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formschema: decode yaml schema: %w", err)
	}
	var buf bytes.Buffer
	if err := writeYAMLAsJSON(&buf, &doc); err != nil {
		return nil, fmt.Errorf("formschema: convert yaml schema: %w", err)
	}
	return LoadJSON(buf.Bytes())
}

func writeYAMLAsJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLAsJSON(buf, n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLAsJSON(buf, n.Alias)
	case yaml.MappingNode:
		pairs, err := mappingPairs(n, 0)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, p := range pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(p.key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeYAMLAsJSON(buf, p.value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLAsJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		var v any
		switch n.Tag {
		case "!!timestamp", "!!binary":
			// dates stay textual; the date lexer owns their interpretation
			v = n.Value
		default:
			if err := n.Decode(&v); err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				return fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
			}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	return fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

type yamlPair struct {
	key   string
	value *yaml.Node
}

// maxMergeDepth bounds chains of merged mappings.
const maxMergeDepth = 32

// mappingPairs lists the entries of a mapping with "<<" merge keys resolved:
// keys written in the mapping override merged ones, and among several merged
// mappings the first one listed wins. Merged keys take the position of the
// merge key.
func mappingPairs(n *yaml.Node, depth int) ([]yamlPair, error) {
	if depth > maxMergeDepth {
		return nil, fmt.Errorf("line %d: merge keys nested too deeply", n.Line)
	}
	explicit := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; !isMergeKey(k) {
			explicit[k.Value] = true
		}
	}
	var out []yamlPair
	merged := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if !isMergeKey(k) {
			out = append(out, yamlPair{key: k.Value, value: v})
			continue
		}
		sources, err := mergeSources(v)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			inner, err := mappingPairs(src, depth+1)
			if err != nil {
				return nil, err
			}
			for _, p := range inner {
				if explicit[p.key] || merged[p.key] {
					continue
				}
				merged[p.key] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// mergeSources returns the mappings named by a merge value: a mapping, an
// alias of one, or a sequence of those.
func mergeSources(v *yaml.Node) ([]*yaml.Node, error) {
	resolve := func(n *yaml.Node) (*yaml.Node, bool) {
		for n != nil && n.Kind == yaml.AliasNode {
			n = n.Alias
		}
		return n, n != nil && n.Kind == yaml.MappingNode
	}
	if m, ok := resolve(v); ok {
		return []*yaml.Node{m}, nil
	}
	if v.Kind == yaml.SequenceNode {
		out := make([]*yaml.Node, 0, len(v.Content))
		for _, c := range v.Content {
			m, ok := resolve(c)
			if !ok {
				return nil, fmt.Errorf("line %d: merge list entries must be mappings", c.Line)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping or a list of mappings", v.Line)
}
