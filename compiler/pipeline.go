package compiler

import (
	"context"
	"reflect"

	"github.com/google/go-cmp/cmp"

	fs "github.com/reoring/formschema"
)

// baseFunc type-checks a value and returns it in its canonical form
// (string, float64, []any, map[string]any ...).
type baseFunc func(ctx context.Context, v any, at fs.PathRef) (any, fs.Issues)

// rule refines a value that passed the base check.
type rule func(ctx context.Context, v any, at fs.PathRef) fs.Issues

// pipeline runs the base check and, when it passes, every rule. Issues from
// all failing rules are collected.
type pipeline struct {
	base  baseFunc
	rules []rule
}

func (p *pipeline) Check(ctx context.Context, v any, at fs.PathRef) fs.Issues {
	cv, iss := p.base(ctx, v, at)
	if len(iss) > 0 {
		return iss
	}
	var out fs.Issues
	for _, r := range p.rules {
		if r == nil {
			continue
		}
		if more := r(ctx, cv, at); len(more) > 0 {
			out = fs.AppendIssues(out, more...)
		}
	}
	return out
}

func (p *pipeline) add(rs ...rule) *pipeline {
	p.rules = append(p.rules, rs...)
	return p
}

// typed builds the base check for kind: Missing is reported as required and
// values conv rejects as invalid_type.
func (c *compiler) typed(n *fs.Node, kind string, conv func(any) (any, bool)) baseFunc {
	return func(_ context.Context, v any, at fs.PathRef) (any, fs.Issues) {
		if fs.IsMissing(v) {
			return nil, fs.Issues{c.issue(n, at, fs.CodeRequired, "required", nil)}
		}
		cv, ok := conv(v)
		if !ok {
			return nil, fs.Issues{c.issue(n, at, fs.CodeInvalidType, "invalid_type."+kind, nil)}
		}
		return cv, nil
	}
}

func asString(v any) (any, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (any, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asNull(v any) (any, bool) { return nil, v == nil }

func asNumber(v any) (any, bool) {
	f, ok := fs.ToFloat(v)
	return f, ok
}

func asInteger(v any) (any, bool) {
	f, ok := fs.ToFloat(v)
	if !ok || !fs.IsIntegral(f) {
		return nil, false
	}
	return f, true
}

// asSlice accepts []any and any other slice or array kind except byte slices.
func asSlice(v any) (any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// asMap accepts map[string]any and any other map keyed by strings.
func asMap(v any) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// valueOptions make cmp compare numbers by value regardless of their Go
// type, at any depth, and look into unexported struct fields of typed state
// values instead of panicking on them.
var valueOptions = cmp.Options{
	cmp.FilterValues(func(a, b any) bool {
		_, okA := fs.ToFloat(a)
		_, okB := fs.ToFloat(b)
		return okA && okB
	}, cmp.Comparer(func(a, b any) bool {
		fa, _ := fs.ToFloat(a)
		fb, _ := fs.ToFloat(b)
		return fa == fb
	})),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// sameValue is deep equality where numbers compare by value.
func sameValue(a, b any) bool {
	return cmp.Equal(a, b, valueOptions)
}

func contains(set []any, v any) bool {
	for _, e := range set {
		if sameValue(e, v) {
			return true
		}
	}
	return false
}
