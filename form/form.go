// Package form owns the mutable state of a form: it seeds the state from
// schema and caller defaults, compiles the root validator once, and reshapes
// the flat state into nested output on submit (see ReForm).
package form

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mohae/deepcopy"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/compiler"
	"github.com/reoring/formschema/logger"
)

// Form binds a schema node to the live state it validates.
type Form struct {
	// Input is the schema the form was created from.
	Input *fs.Node
	// State is the caller's map, mutated in place by Reset.
	State map[string]any
	// Schema is the root validator compiled at construction. It is nil when
	// the schema validates nothing (e.g. a content-only document).
	Schema fs.Validator
	// Impl holds caller extensions. The form never interprets them.
	Impl map[string]any

	defaults map[string]any
	log      logger.Logger
	// ctxLog is set when no WithLogger was given; calls taking a context
	// then log through the logger it carries.
	ctxLog bool
	last   fs.Result
}

type options struct {
	defaults map[string]any
	impl     map[string]any
	log      logger.Logger
	compiler []compiler.Option
}

// Option configures Create.
type Option func(*options)

// WithDefaults overlays d onto the state on every Reset, after schema
// defaults.
func WithDefaults(d map[string]any) Option { return func(o *options) { o.defaults = d } }

// WithImpl attaches caller extensions to the form.
func WithImpl(impl map[string]any) Option { return func(o *options) { o.impl = impl } }

// WithLogger sets the logger used by the form and its compiler. Without it
// the logger carried by the context is used.
func WithLogger(l logger.Logger) Option { return func(o *options) { o.log = l } }

// WithCompiler passes options through to compiler.Compile.
func WithCompiler(opts ...compiler.Option) Option {
	return func(o *options) { o.compiler = append(o.compiler, opts...) }
}

// Create compiles input and resets state. A nil state is replaced by an empty
// map; a non-nil one is used as is, so the caller keeps seeing every update.
func Create(input *fs.Node, state map[string]any, opts ...Option) *Form {
	return CreateContext(context.Background(), input, state, opts...)
}

// CreateContext is Create with the logger carried by ctx as the fallback for
// WithLogger.
func CreateContext(ctx context.Context, input *fs.Node, state map[string]any, opts ...Option) *Form {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if state == nil {
		state = map[string]any{}
	}
	base := o.log
	if base == nil {
		base = logger.FromContext(ctx)
	}
	log := base.With("component", "form")
	copts := append([]compiler.Option{compiler.WithLogger(log)}, o.compiler...)

	f := &Form{
		Input:    input,
		State:    state,
		Schema:   compiler.Compile(input, copts...),
		Impl:     o.impl,
		defaults: o.defaults,
		log:      log,
		ctxLog:   o.log == nil,
	}
	if f.Impl == nil {
		f.Impl = map[string]any{}
	}
	f.Reset()
	return f
}

// Reset drops every state key not named in the caller defaults, then applies
// schema defaults, then the caller defaults. Values are deep-copied so edits to
// the state never reach the schema or the defaults map.
func (f *Form) Reset() {
	for k := range f.State {
		if _, keep := f.defaults[k]; !keep {
			delete(f.State, k)
		}
	}
	applied := 0
	for _, k := range f.Input.Keys() {
		child := f.Input.Property(k)
		if child == nil || child.Type.IsContent() {
			continue
		}
		if d, ok := child.DefaultValue(); ok {
			f.State[k] = deepcopy.Copy(d)
			applied++
		}
	}
	for k, v := range f.defaults {
		f.State[k] = deepcopy.Copy(v)
	}
	f.log.Debug("form reset", "schema_defaults", applied, "defaults", len(f.defaults))
}

// Validate checks the current state and remembers the result for Condition.
func (f *Form) Validate(ctx context.Context) fs.Result {
	f.last = fs.SafeParse(ctx, f.Schema, f.State)
	if !f.last.Success {
		f.logFor(ctx).Debug("form invalid", "issues", len(f.last.Issues))
	}
	return f.last
}

func (f *Form) logFor(ctx context.Context) logger.Logger {
	if f.ctxLog {
		if l := logger.FromContext(ctx); l != logger.Discard() {
			return l.With("component", "form")
		}
	}
	return f.log
}

// Valid reports whether the current state conforms, without touching the
// remembered result.
func (f *Form) Valid(ctx context.Context) bool { return fs.Is(ctx, f.Schema, f.State) }

// Condition returns the arm of the root conditional applied by the last
// Validate call.
func (f *Form) Condition() fs.Branch { return f.last.Branch("/") }

// Extension returns the caller extension stored under name.
func (f *Form) Extension(name string) (any, bool) {
	v, ok := f.Impl[name]
	return v, ok
}

// StateFromJSON decodes a JSON object into a state map.
func StateFromJSON(data []byte) (map[string]any, error) {
	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("form: decode state: %w", err)
	}
	if state == nil {
		state = map[string]any{}
	}
	return state, nil
}

// Load decodes the state JSON in data into f.State, replacing matching keys.
func (f *Form) Load(data []byte) error {
	st, err := StateFromJSON(data)
	if err != nil {
		return err
	}
	for k, v := range st {
		f.State[k] = v
	}
	return nil
}
