package compiler

import (
	"context"
	"math"

	fs "github.com/reoring/formschema"
)

func (c *compiler) number(n *fs.Node) *pipeline {
	p := &pipeline{base: c.typed(n, "number", asNumber)}
	if n.Type == fs.KindInteger {
		p.base = c.typed(n, "integer", asInteger)
	}
	p.add(
		c.lowerBound(n, n.Minimum, false),
		c.lowerBound(n, n.ExclusiveMinimum, true),
		c.upperBound(n, n.Maximum, false),
		c.upperBound(n, n.ExclusiveMaximum, true),
		c.multipleOf(n),
	)
	if len(n.Enum) > 0 {
		p.add(c.numberEnum(n))
	}
	return p.add(c.exclusiveEnum(n))
}

func (c *compiler) lowerBound(n *fs.Node, b *fs.Bound, exclusive bool) rule {
	if b == nil {
		return nil
	}
	limit, ok := b.Float()
	if !ok {
		c.log.Warn("non-numeric bound ignored", "name", n.Name, "bound", b.String())
		return nil
	}
	exclusive = exclusive || b.IsExclusive()
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		f := v.(float64)
		if exclusive && f <= limit {
			return fs.Issues{c.issue(n, at, fs.CodeTooSmall, "too_small.exclusive", limit)}
		}
		if !exclusive && f < limit {
			return fs.Issues{c.issue(n, at, fs.CodeTooSmall, "too_small", limit)}
		}
		return nil
	}
}

func (c *compiler) upperBound(n *fs.Node, b *fs.Bound, exclusive bool) rule {
	if b == nil {
		return nil
	}
	limit, ok := b.Float()
	if !ok {
		c.log.Warn("non-numeric bound ignored", "name", n.Name, "bound", b.String())
		return nil
	}
	exclusive = exclusive || b.IsExclusive()
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		f := v.(float64)
		if exclusive && f >= limit {
			return fs.Issues{c.issue(n, at, fs.CodeTooBig, "too_big.exclusive", limit)}
		}
		if !exclusive && f > limit {
			return fs.Issues{c.issue(n, at, fs.CodeTooBig, "too_big", limit)}
		}
		return nil
	}
}

func (c *compiler) multipleOf(n *fs.Node) rule {
	if n.MultipleOf == nil {
		return nil
	}
	d := *n.MultipleOf
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		c.log.Warn("multipleOf must be a positive number", "name", n.Name, "multipleOf", d)
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		if isMultiple(v.(float64), d) {
			return nil
		}
		return fs.Issues{c.issue(n, at, fs.CodeNotMultipleOf, "not_multiple_of", d)}
	}
}

// isMultiple reports whether v/d is integral within a relative tolerance, so
// that 0.3 is a multiple of 0.1.
func isMultiple(v, d float64) bool {
	q := v / d
	r := math.Round(q)
	return math.Abs(q-r) <= 1e-9*math.Max(1, math.Abs(q))
}

func (c *compiler) numberEnum(n *fs.Node) rule {
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		if contains(n.Enum, v) {
			return nil
		}
		return fs.Issues{c.issue(n, at, fs.CodeInvalidEnum, "invalid_enum", nil)}
	}
}
