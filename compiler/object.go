package compiler

import (
	"context"
	"regexp"
	"sort"

	fs "github.com/reoring/formschema"
)

type property struct {
	key string
	v   fs.Validator
}

type patternProperty struct {
	pattern string
	re      *regexp.Regexp
	v       fs.Validator
}

// object validates declared properties (absent keys are passed as
// formschema.Missing), then keys matched by pattern properties, then the
// if/then/else conditional. Keys matched by neither are accepted.
func (c *compiler) object(n *fs.Node) *pipeline {
	props := c.properties(n)
	p := &pipeline{base: c.typed(n, "object", asMap)}
	p.add(func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		m := v.(map[string]any)
		var out fs.Issues
		for _, pr := range props {
			val, ok := m[pr.key]
			if !ok {
				val = fs.Missing
			}
			out = append(out, pr.v.Check(ctx, val, at.Field(pr.key))...)
		}
		return out
	})
	return p.add(c.patternProperties(n), c.conditional(n))
}

func (c *compiler) properties(n *fs.Node) []property {
	keys := n.Keys()
	out := make([]property, 0, len(keys))
	for _, k := range keys {
		v := c.field(n.Properties[k], k, n.IsRequired(k))
		if v == nil {
			continue
		}
		out = append(out, property{key: k, v: v})
	}
	return out
}

// patternProperties validates keys that are not declared properties against
// the first pattern, in declaration order, that matches the key.
func (c *compiler) patternProperties(n *fs.Node) rule {
	if len(n.PatternProperties) == 0 {
		return nil
	}
	var pats []patternProperty
	for _, pp := range n.PatternProperties {
		re, err := regexp.Compile(pp.Pattern)
		if err != nil {
			c.log.Warn("invalid patternProperties key ignored", "pattern", pp.Pattern, "err", err)
			continue
		}
		pats = append(pats, patternProperty{pattern: pp.Pattern, re: re, v: c.node(pp.Schema)})
	}
	if len(pats) == 0 {
		return nil
	}
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		m := v.(map[string]any)
		keys := make([]string, 0, len(m))
		for k := range m {
			if _, declared := n.Properties[k]; !declared {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var out fs.Issues
		for _, k := range keys {
			for _, pp := range pats {
				if !pp.re.MatchString(k) {
					continue
				}
				// first match wins, even when its schema validates nothing
				if pp.v != nil {
					out = append(out, pp.v.Check(ctx, m[k], at.Field(k))...)
				}
				break
			}
		}
		return out
	}
}

// conditional wires if/then/else. The if-node's properties are all required
// for the condition to hold. The arm that applied is recorded on the
// validation context; a failed condition without an else arm accepts.
func (c *compiler) conditional(n *fs.Node) rule {
	if n.If == nil || n.Then == nil {
		return nil
	}
	test := c.node(conditionNode(n.If))
	then := c.node(asObject(n.Then))
	var els fs.Validator
	if n.Else != nil {
		els = c.node(asObject(n.Else))
	}
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		if test == nil || passes(ctx, test, v, at) {
			fs.RecordBranch(ctx, at, fs.BranchThen)
			if then == nil {
				return nil
			}
			return then.Check(ctx, v, at)
		}
		if els == nil {
			fs.RecordBranch(ctx, at, fs.BranchNone)
			return nil
		}
		fs.RecordBranch(ctx, at, fs.BranchElse)
		return els.Check(ctx, v, at)
	}
}

func conditionNode(cond *fs.Node) *fs.Node {
	out := &fs.Node{
		Type:              fs.KindObject,
		Name:              cond.Name,
		Properties:        cond.Properties,
		PropertyOrder:     cond.PropertyOrder,
		PatternProperties: cond.PatternProperties,
		Required:          cond.Keys(),
	}
	return out
}

// asObject returns n typed as an object, cloning it when the type is
// implicit.
func asObject(n *fs.Node) *fs.Node {
	if n.Type != "" {
		return n
	}
	cp := *n
	cp.Type = fs.KindObject
	return &cp
}
