package formschema

import "context"

// Validator is a compiled schema node. Check returns every issue found for v
// located under at; an empty result means v conforms.
type Validator interface {
	Check(ctx context.Context, v any, at PathRef) Issues
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(ctx context.Context, v any, at PathRef) Issues

func (f ValidatorFunc) Check(ctx context.Context, v any, at PathRef) Issues { return f(ctx, v, at) }

type missingValue struct{}

func (missingValue) String() string { return "<missing>" }

// Missing is passed to a property validator when the key is absent from the
// object being validated. It is distinct from an explicit nil.
var Missing any = missingValue{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingValue)
	return ok
}

// Branch names the arm of an if/then/else conditional that applied.
type Branch string

const (
	BranchNone Branch = ""
	BranchThen Branch = "then"
	BranchElse Branch = "else"
)

// Result is the outcome of SafeParse.
type Result struct {
	Success bool
	Value   any
	Issues  Issues
	// Branches maps the JSON Pointer of every conditional object that was
	// evaluated to the arm that applied. Objects whose condition failed without
	// an else arm are absent.
	Branches map[string]Branch
}

// Branch returns the active arm recorded for the conditional at path.
func (r Result) Branch(path string) Branch {
	if r.Branches == nil {
		return BranchNone
	}
	return r.Branches[At(path).Pointer()]
}

// SafeParse runs vd against v and never fails: violations are reported in the
// result. A nil validator accepts everything.
func SafeParse(ctx context.Context, vd Validator, v any) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	rec := branchRecorder{}
	res := Result{Value: v}
	if vd != nil {
		res.Issues = vd.Check(WithBranchRecorder(ctx, rec), v, Root())
	}
	res.Success = len(res.Issues) == 0
	if len(rec) > 0 {
		res.Branches = map[string]Branch(rec)
	}
	return res
}

// Validate returns the Issues for v as an error, or nil when v conforms.
func Validate(ctx context.Context, vd Validator, v any) error {
	res := SafeParse(ctx, vd, v)
	if res.Success {
		return nil
	}
	return res.Issues
}

// Is reports whether v conforms to vd.
func Is(ctx context.Context, vd Validator, v any) bool {
	if vd == nil {
		return true
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return len(vd.Check(WithTrial(ctx), v, Root())) == 0
}

// ---- validation-time context options (exported for subpackages) ----

type contextKey int

const (
	_ctxKeyBranches contextKey = iota
	_ctxKeyTrial
)

type branchRecorder map[string]Branch

// WithBranchRecorder returns a child context collecting conditional branches
// into rec.
func WithBranchRecorder(ctx context.Context, rec map[string]Branch) context.Context {
	return context.WithValue(ctx, _ctxKeyBranches, branchRecorder(rec))
}

// WithTrial marks a speculative evaluation, e.g. a composite alternative or an
// if-condition. Branches are not recorded while in trial mode.
func WithTrial(ctx context.Context) context.Context {
	return context.WithValue(ctx, _ctxKeyTrial, true)
}

// IsTrial reports whether the current evaluation is speculative.
func IsTrial(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyTrial).(bool)
	return b
}

// RecordBranch stores the arm that applied to the conditional object at path.
func RecordBranch(ctx context.Context, at PathRef, b Branch) {
	if IsTrial(ctx) {
		return
	}
	rec, ok := ctx.Value(_ctxKeyBranches).(branchRecorder)
	if !ok || rec == nil {
		return
	}
	if b == BranchNone {
		delete(rec, at.Pointer())
		return
	}
	rec[at.Pointer()] = b
}
