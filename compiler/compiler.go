// Package compiler turns a formschema.Node tree into a formschema.Validator.
//
// Compilation never fails. Nodes that cannot validate anything (content
// nodes, arrays whose item schema is unusable, tuples with a broken item
// list) compile to nil and are dropped by their parent.
package compiler

import (
	"context"
	"fmt"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/i18n"
	"github.com/reoring/formschema/logger"
)

// Options controls compilation.
type Options struct {
	Logger logger.Logger
	// Translator renders issue messages. nil uses the process-wide i18n
	// translator at validation time.
	Translator i18n.Translator
}

type Option func(*Options)

func WithLogger(l logger.Logger) Option { return func(o *Options) { o.Logger = l } }

func WithTranslator(tr i18n.Translator) Option { return func(o *Options) { o.Translator = tr } }

type compiler struct {
	opts Options
	log  logger.Logger
}

func newCompiler(opts []Option) *compiler {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return &compiler{opts: o, log: logger.OrDiscard(o.Logger).With("component", "compiler")}
}

// Compile returns the validator for n, or nil when n validates nothing.
func Compile(n *fs.Node, opts ...Option) fs.Validator {
	return newCompiler(opts).node(n)
}

// CompileField compiles n as the value of property key. Unless key is listed
// in required, the validator also accepts formschema.Missing.
func CompileField(n *fs.Node, key string, required []string, opts ...Option) fs.Validator {
	req := false
	for _, r := range required {
		if r == key {
			req = true
			break
		}
	}
	return newCompiler(opts).field(n, key, req)
}

func (c *compiler) field(n *fs.Node, key string, required bool) fs.Validator {
	v := c.node(n)
	if v == nil {
		if n != nil && n.Type.IsField() {
			c.log.Debug("property dropped from validation", "key", key, "type", n.Type)
		}
		return nil
	}
	if !required {
		return optional(v)
	}
	return v
}

func (c *compiler) node(n *fs.Node) fs.Validator {
	if n == nil {
		return nil
	}
	var p *pipeline
	switch n.Type {
	case fs.KindObject:
		p = c.object(n)
	case fs.KindString:
		p = c.str(n)
	case fs.KindNumber, fs.KindInteger:
		p = c.number(n)
	case fs.KindBoolean:
		p = &pipeline{base: c.typed(n, "boolean", asBool)}
	case fs.KindNull:
		p = &pipeline{base: c.typed(n, "null", asNull)}
	case fs.KindArray:
		p = c.array(n)
	case fs.KindTuple:
		return c.wrap(n, c.tuple(n))
	default:
		if n.Type.IsContent() {
			c.log.Debug("content node skipped", "type", n.Type)
		} else {
			c.log.Warn("unknown node type skipped", "type", n.Type, "name", n.Name)
		}
		return nil
	}
	if p == nil {
		return nil
	}
	if r := c.composite(n); r != nil {
		p.rules = append(p.rules, r)
	}
	return c.wrap(n, p)
}

func (c *compiler) wrap(n *fs.Node, v fs.Validator) fs.Validator {
	if v == nil {
		return nil
	}
	if n.Nullable {
		return nullable(v)
	}
	return v
}

func optional(v fs.Validator) fs.Validator {
	return fs.ValidatorFunc(func(ctx context.Context, val any, at fs.PathRef) fs.Issues {
		if fs.IsMissing(val) {
			return nil
		}
		return v.Check(ctx, val, at)
	})
}

func nullable(v fs.Validator) fs.Validator {
	return fs.ValidatorFunc(func(ctx context.Context, val any, at fs.PathRef) fs.Issues {
		if val == nil {
			return nil
		}
		return v.Check(ctx, val, at)
	})
}

// ---- messages ----

func (c *compiler) translator() i18n.Translator {
	if c.opts.Translator != nil {
		return c.opts.Translator
	}
	return i18n.Current()
}

func (c *compiler) label(n *fs.Node) string {
	if name := n.Label(); name != "" {
		return name
	}
	return c.translator().Message("fallback_name", nil)
}

// issue builds an issue for n at path at. id selects the message template;
// value, when non-nil, fills {value} and Params["value"].
func (c *compiler) issue(n *fs.Node, at fs.PathRef, code, id string, value any) fs.Issue {
	name := c.label(n)
	data := map[string]string{"name": name}
	kv := []any{"name", name}
	if value != nil {
		data["value"] = render(value)
		kv = append(kv, "value", value)
	}
	iss := at.Issue(code, c.translator().Message(id, data), kv...)
	iss.Rule = id
	return iss
}

func render(v any) string {
	switch t := v.(type) {
	case *fs.Bound:
		return t.String()
	case float64:
		return fs.Value(t).String()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
