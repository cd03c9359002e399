package compiler

import (
	"context"

	fs "github.com/reoring/formschema"
)

// array compiles items once; without a usable item schema the whole array
// validates nothing.
func (c *compiler) array(n *fs.Node) *pipeline {
	item := c.node(n.Items)
	if item == nil {
		c.log.Debug("array without usable items skipped", "name", n.Name)
		return nil
	}
	p := &pipeline{base: c.typed(n, "array", asSlice)}
	p.add(func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		var out fs.Issues
		for i, e := range v.([]any) {
			out = append(out, item.Check(ctx, e, at.Index(i))...)
		}
		return out
	})
	return p.add(c.itemCounts(n), c.unique(n))
}

func (c *compiler) itemCounts(n *fs.Node) rule {
	minItems := n.MinItems
	if n.Nonempty && (minItems == nil || *minItems < 1) {
		one := 1
		minItems = &one
	}
	if minItems == nil && n.MaxItems == nil && n.Length == nil {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		l := len(v.([]any))
		var out fs.Issues
		if minItems != nil && l < *minItems {
			if n.Nonempty && *minItems == 1 {
				out = append(out, c.issue(n, at, fs.CodeTooSmall, "too_small.nonempty", nil))
			} else {
				out = append(out, c.issue(n, at, fs.CodeTooSmall, "too_small.array", *minItems))
			}
		}
		if n.MaxItems != nil && l > *n.MaxItems {
			out = append(out, c.issue(n, at, fs.CodeTooBig, "too_big.array", *n.MaxItems))
		}
		if n.Length != nil && l != *n.Length {
			out = append(out, c.issue(n, at, fs.CodeInvalidLength, "invalid_length.array", *n.Length))
		}
		return out
	}
}

func (c *compiler) unique(n *fs.Node) rule {
	if !n.UniqueItems {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		items := v.([]any)
		for i := 1; i < len(items); i++ {
			for j := 0; j < i; j++ {
				if sameValue(items[i], items[j]) {
					iss := c.issue(n, at, fs.CodeNotUnique, "not_unique", nil)
					iss.Params["index"] = i
					iss.Params["duplicateOf"] = j
					return fs.Issues{iss}
				}
			}
		}
		return nil
	}
}

// tuple validates positionally when every item schema compiles. Otherwise an
// anyOf/oneOf list of complete tuple alternatives is used instead; failing
// both, the tuple validates nothing.
func (c *compiler) tuple(n *fs.Node) fs.Validator {
	if items, ok := c.tupleItems(n); ok {
		if len(n.AnyOf) > 0 || len(n.OneOf) > 0 {
			c.log.Debug("tuple alternatives ignored in favor of positional items", "name", n.Name)
		}
		return c.positional(n, items)
	}
	if len(n.AnyOf) == 0 && len(n.OneOf) == 0 {
		c.log.Debug("tuple without usable items skipped", "name", n.Name)
		return nil
	}
	anyOf := c.alternatives(n, n.AnyOf)
	oneOf := c.alternatives(n, n.OneOf)
	if len(anyOf) == 0 && len(oneOf) == 0 {
		c.log.Debug("tuple alternatives unusable", "name", n.Name)
		return nil
	}
	p := &pipeline{base: c.typed(n, "tuple", asSlice)}
	if len(n.AnyOf) > 0 {
		p.add(c.anyOf(n, anyOf))
	}
	if len(n.OneOf) > 0 {
		p.add(c.oneOf(n, oneOf))
	}
	return p
}

func (c *compiler) tupleItems(n *fs.Node) ([]fs.Validator, bool) {
	if len(n.TupleItems) == 0 {
		return nil, false
	}
	items := make([]fs.Validator, len(n.TupleItems))
	for i, it := range n.TupleItems {
		items[i] = c.node(it)
		if items[i] == nil {
			return nil, false
		}
	}
	return items, true
}

func (c *compiler) positional(n *fs.Node, items []fs.Validator) fs.Validator {
	p := &pipeline{base: c.typed(n, "tuple", asSlice)}
	return p.add(func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		vals := v.([]any)
		if len(vals) != len(items) {
			iss := c.issue(n, at, fs.CodeInvalidArity, "invalid_arity", len(items))
			iss.Params["actual"] = len(vals)
			return fs.Issues{iss}
		}
		var out fs.Issues
		for i, item := range items {
			out = append(out, item.Check(ctx, vals[i], at.Index(i))...)
		}
		return out
	})
}
