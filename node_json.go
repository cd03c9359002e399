package formschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// UnmarshalJSON decodes a schema node. Property and pattern-property order is
// taken from the document, "items" is an object for arrays and a list for
// tuples, and attrs.default is lifted into Default. Child entries that are not
// objects decode to nil nodes, which compile to nothing.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	if err := json.Unmarshal(data, (*plain)(n)); err != nil {
		return err
	}
	var aux struct {
		Items             json.RawMessage `json:"items"`
		Properties        json.RawMessage `json:"properties"`
		PatternProperties json.RawMessage `json:"patternProperties"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Properties, n.PropertyOrder = nil, nil
	n.PatternProperties = nil
	n.Items, n.TupleItems = nil, nil
	n.Default, n.HasDefault = nil, false

	if isJSONObject(aux.Properties) {
		keys, children, err := decodeChildren(aux.Properties)
		if err != nil {
			return fmt.Errorf("properties: %w", err)
		}
		n.Properties = make(map[string]*Node, len(keys))
		n.PropertyOrder = keys
		for i, k := range keys {
			n.Properties[k] = children[i]
		}
	}

	if isJSONObject(aux.PatternProperties) {
		keys, children, err := decodeChildren(aux.PatternProperties)
		if err != nil {
			return fmt.Errorf("patternProperties: %w", err)
		}
		n.PatternProperties = make([]PatternProperty, 0, len(keys))
		for i, k := range keys {
			n.PatternProperties = append(n.PatternProperties, PatternProperty{Pattern: k, Schema: children[i]})
		}
	}

	switch firstByte(aux.Items) {
	case '{':
		child, err := decodeChild(aux.Items)
		if err != nil {
			return fmt.Errorf("items: %w", err)
		}
		n.Items = child
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(aux.Items, &raws); err != nil {
			return fmt.Errorf("items: %w", err)
		}
		n.TupleItems = make([]*Node, len(raws))
		for i, raw := range raws {
			child, err := decodeChild(raw)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			n.TupleItems[i] = child
		}
	}

	if n.Attrs != nil {
		if v, ok := n.Attrs["default"]; ok {
			n.Default, n.HasDefault = v, true
		}
	}
	return nil
}

func decodeChild(raw []byte) (*Node, error) {
	if !isJSONObject(raw) {
		return nil, nil
	}
	child := &Node{}
	if err := json.Unmarshal(raw, child); err != nil {
		return nil, err
	}
	return child, nil
}

// decodeChildren decodes an object of nodes, returning its keys in document
// order alongside the decoded children.
func decodeChildren(raw []byte) ([]string, []*Node, error) {
	keys, err := objectKeys(raw)
	if err != nil {
		return nil, nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, err
	}
	// duplicate keys: the last occurrence wins, at its first position
	seen := make(map[string]struct{}, len(keys))
	uniq := keys[:0]
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	children := make([]*Node, len(uniq))
	for i, k := range uniq {
		child, err := decodeChild(m[k])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", k, err)
		}
		children[i] = child
	}
	return uniq, children, nil
}

// MarshalJSON encodes the node back into its wire form, keeping document
// order for properties and pattern properties.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	out := struct {
		plain
		Attrs             map[string]any `json:"attrs,omitempty"`
		Properties        *orderedNodes  `json:"properties,omitempty"`
		PatternProperties *orderedNodes  `json:"patternProperties,omitempty"`
		Items             any            `json:"items,omitempty"`
	}{plain: plain(n), Attrs: n.Attrs}

	if n.HasDefault {
		attrs := make(map[string]any, len(n.Attrs)+1)
		for k, v := range n.Attrs {
			attrs[k] = v
		}
		attrs["default"] = n.Default
		out.Attrs = attrs
	}
	if len(n.Properties) > 0 {
		keys := n.Keys()
		m := make([]*Node, len(keys))
		for i, k := range keys {
			m[i] = n.Properties[k]
		}
		out.Properties = &orderedNodes{keys: keys, nodes: m}
	}
	if len(n.PatternProperties) > 0 {
		pp := &orderedNodes{}
		for _, p := range n.PatternProperties {
			pp.keys = append(pp.keys, p.Pattern)
			pp.nodes = append(pp.nodes, p.Schema)
		}
		out.PatternProperties = pp
	}
	switch {
	case n.Items != nil:
		out.Items = n.Items
	case n.TupleItems != nil:
		out.Items = n.TupleItems
	}
	return json.Marshal(out)
}

type orderedNodes struct {
	keys  []string
	nodes []*Node
}

func (o *orderedNodes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.nodes[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var keys []string
	depth := 0
	expectKey := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
				if depth == 1 {
					expectKey = t == '{'
				}
			case '}', ']':
				depth--
				if depth == 1 {
					expectKey = true
				}
			}
		default:
			if depth != 1 {
				continue
			}
			if expectKey {
				if s, ok := t.(string); ok {
					keys = append(keys, s)
				}
				expectKey = false
			} else {
				expectKey = true
			}
		}
		if depth == 0 {
			break
		}
	}
	return keys, nil
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isJSONObject(raw []byte) bool { return firstByte(raw) == '{' }
