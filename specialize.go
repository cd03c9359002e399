package formschema

import (
	"dario.cat/mergo"
	"github.com/mohae/deepcopy"
)

// Specialize turns a composite alternative (an allOf/anyOf/oneOf entry) into a
// standalone node. The partial is cloned and receives the parent's type and
// name; string alternatives also inherit the parent's format when the parent
// declares one, and array alternatives without items share the parent's item
// schema. The partial itself is left untouched.
func Specialize(parent, partial *Node) *Node {
	if partial == nil {
		return nil
	}
	out, _ := deepcopy.Copy(partial).(*Node)
	if out == nil {
		out = &Node{}
	}
	if parent == nil {
		return out
	}
	inherited := Node{Type: parent.Type, Name: parent.Name}
	if parent.Type == KindString {
		inherited.Format = parent.Format
	}
	if parent.Type == KindArray && out.Items == nil {
		out.Items = parent.Items
	}
	// Type and name are always the parent's; format only fills in when the
	// parent has one.
	if err := mergo.Merge(out, inherited, mergo.WithOverride); err != nil {
		out.Type, out.Name = parent.Type, parent.Name
		if inherited.Format != FormatPlain {
			out.Format = inherited.Format
		}
	}
	return out
}
