package compiler

import (
	"context"

	fs "github.com/reoring/formschema"
)

// composite builds the allOf/anyOf/oneOf refinement of a non-tuple node, or
// nil when the node declares none.
func (c *compiler) composite(n *fs.Node) rule {
	if len(n.AllOf) == 0 && len(n.AnyOf) == 0 && len(n.OneOf) == 0 {
		return nil
	}
	var rules []rule
	if len(n.AllOf) > 0 {
		rules = append(rules, c.allOf(n, c.alternatives(n, n.AllOf)))
	}
	if len(n.AnyOf) > 0 {
		rules = append(rules, c.anyOf(n, c.alternatives(n, n.AnyOf)))
	}
	if len(n.OneOf) > 0 {
		rules = append(rules, c.oneOf(n, c.alternatives(n, n.OneOf)))
	}
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		var out fs.Issues
		for _, r := range rules {
			if r != nil {
				out = append(out, r(ctx, v, at)...)
			}
		}
		return out
	}
}

// alternatives compiles each partial in isolation after it inherits the
// parent's type, name and format. Unusable alternatives are dropped.
func (c *compiler) alternatives(parent *fs.Node, partials []*fs.Node) []fs.Validator {
	out := make([]fs.Validator, 0, len(partials))
	for i, partial := range partials {
		v := c.node(fs.Specialize(parent, partial))
		if v == nil {
			c.log.Debug("composite alternative dropped", "name", parent.Name, "index", i)
			continue
		}
		out = append(out, v)
	}
	return out
}

func passes(ctx context.Context, v fs.Validator, val any, at fs.PathRef) bool {
	return len(v.Check(fs.WithTrial(ctx), val, at)) == 0
}

func (c *compiler) allOf(_ *fs.Node, alts []fs.Validator) rule {
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		var out fs.Issues
		for _, alt := range alts {
			out = append(out, alt.Check(fs.WithTrial(ctx), v, at)...)
		}
		return out
	}
}

func (c *compiler) anyOf(n *fs.Node, alts []fs.Validator) rule {
	if len(alts) == 0 {
		return nil
	}
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		for _, alt := range alts {
			if passes(ctx, alt, v, at) {
				return nil
			}
		}
		iss := c.issue(n, at, fs.CodeNoMatch, "no_match", nil)
		iss.Params["alternatives"] = len(alts)
		return fs.Issues{iss}
	}
}

func (c *compiler) oneOf(n *fs.Node, alts []fs.Validator) rule {
	if len(alts) == 0 {
		return nil
	}
	return func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
		matched := 0
		for _, alt := range alts {
			if passes(ctx, alt, v, at) {
				matched++
			}
		}
		switch {
		case matched == 1:
			return nil
		case matched == 0:
			iss := c.issue(n, at, fs.CodeNoMatch, "no_match", nil)
			iss.Params["alternatives"] = len(alts)
			return fs.Issues{iss}
		default:
			iss := c.issue(n, at, fs.CodeAmbiguousMatch, "ambiguous_match", nil)
			iss.Params["matched"] = matched
			return fs.Issues{iss}
		}
	}
}
