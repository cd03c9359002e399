package form

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/deep"
)

// TransformContext is passed to every Transform call.
type TransformContext struct {
	// Key is the state key being written.
	Key string
	// Path is the schema field the value was read from, or Key when no
	// schema field was read.
	Path  string
	State map[string]any
	Input *fs.Node
}

// Transform turns a value read from the schema (or the state key itself) into
// an output path.
type Transform func(value string, tc TransformContext) string

// Policy resolves output paths for state keys. Path names a field of the
// key's schema node (e.g. "name" or "attrs.group"); Transform rewrites what
// was read. Both are optional.
type Policy struct {
	Path      string
	Transform Transform
}

func (p Policy) empty() bool { return p.Path == "" && p.Transform == nil }

// KeyMap overrides the Policy for individual state keys.
type KeyMap map[string]Mapping

// Mapping is one KeyMap entry. Target, when set, is used as the output path
// directly; otherwise the embedded Policy applies, falling back to the
// default policy for whichever half it leaves unset.
type Mapping struct {
	Target string
	Policy
}

// To maps a key to a literal output path.
func To(target string) Mapping { return Mapping{Target: target} }

// Via maps a key through its own policy.
func Via(p Policy) Mapping { return Mapping{Policy: p} }

// Finalize writes every state key into a new nested map. The output path of
// a key is resolved, in order, from its KeyMap entry (literal target, then
// path and/or transform, borrowing the missing half from defaults) and then
// from defaults alone. With neither, the key itself is the path.
//
// A schema field that cannot be read falls back to the key. Write errors do
// not stop the walk; they are joined and returned with the partial output.
func (f *Form) Finalize(defaults Policy, keyMap KeyMap) (map[string]any, error) {
	out := map[string]any{}
	docs := map[string]map[string]any{}

	keys := make([]string, 0, len(f.State))
	for k := range f.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		path := f.resolve(key, defaults, keyMap, docs)
		if err := deep.Set(out, path, f.State[key]); err != nil {
			errs = append(errs, fmt.Errorf("form: write %q to %q: %w", key, path, err))
		}
	}
	if len(errs) > 0 {
		f.log.Warn("finalize incomplete", "errors", len(errs))
	}
	return out, errors.Join(errs...)
}

func (f *Form) resolve(key string, defaults Policy, keyMap KeyMap, docs map[string]map[string]any) string {
	m, ok := keyMap[key]
	if ok && m.Target != "" {
		return m.Target
	}
	p := defaults
	if ok && !m.Policy.empty() {
		p = m.Policy
		if p.Path == "" {
			p.Path = defaults.Path
		}
		if p.Transform == nil {
			p.Transform = defaults.Transform
		}
	}

	value, from := key, key
	if p.Path != "" {
		if v, found := f.field(key, p.Path, docs); found {
			value, from = v, p.Path
		} else {
			f.log.Debug("schema field not found, using key", "key", key, "path", p.Path)
		}
	}
	if p.Transform == nil {
		return value
	}
	return p.Transform(value, TransformContext{Key: key, Path: from, State: f.State, Input: f.Input})
}

// field reads path from the JSON form of the key's schema node.
func (f *Form) field(key, path string, docs map[string]map[string]any) (string, bool) {
	doc, ok := docs[key]
	if !ok {
		doc = nodeDocument(f.Input.Property(key))
		docs[key] = doc
	}
	if doc == nil {
		return "", false
	}
	v, found := deep.Get(doc, path)
	if !found || v == nil {
		return "", false
	}
	if s, isStr := v.(string); isStr {
		return s, true
	}
	return fmt.Sprint(v), true
}

func nodeDocument(n *fs.Node) map[string]any {
	if n == nil {
		return nil
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// Reformed is a form with a bound reshaping policy.
type Reformed struct {
	*Form
	Defaults Policy
	KeyMap   KeyMap
}

// ReForm binds defaults and keyMap to f for later Finalize calls.
func ReForm(f *Form, defaults Policy, keyMap KeyMap) *Reformed {
	return &Reformed{Form: f, Defaults: defaults, KeyMap: keyMap}
}

// Finalize reshapes the state with the bound policy.
func (r *Reformed) Finalize() (map[string]any, error) {
	return r.Form.Finalize(r.Defaults, r.KeyMap)
}

// FinalizeWith reshapes the state with a one-off policy. A nil defaults or
// keyMap keeps the bound one.
func (r *Reformed) FinalizeWith(defaults *Policy, keyMap KeyMap) (map[string]any, error) {
	d := r.Defaults
	if defaults != nil {
		d = *defaults
	}
	if keyMap == nil {
		keyMap = r.KeyMap
	}
	return r.Form.Finalize(d, keyMap)
}

var whitespace = regexp.MustCompile(`\s+`)

// NameReForm keys the output by each field's label in snake case, so a field
// named "Favorite Color" is written to favorite_color.
func NameReForm(f *Form) *Reformed {
	lower := cases.Lower(language.Und)
	return ReForm(f, Policy{
		Path: "name",
		Transform: func(value string, _ TransformContext) string {
			return lower.String(whitespace.ReplaceAllString(value, "_"))
		},
	}, nil)
}

// GroupReForm treats the "group:field" prefix of each key as a parent object,
// so "main:name" is written to main.name.
func GroupReForm(f *Form) *Reformed {
	return ReForm(f, Policy{
		Transform: func(_ string, tc TransformContext) string {
			return whitespace.ReplaceAllString(strings.ReplaceAll(tc.Key, ":", "."), "_")
		},
	}, nil)
}
