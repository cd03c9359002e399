package formschema

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Bound is a minimum/maximum constraint. On the wire it is either a plain
// value (inclusive) or a [bracket, value] pair where "(" and ")" mark an
// exclusive bound and "[" and "]" an inclusive one. Value is a float64 for
// numeric kinds and a string for date/date-time strings.
type Bound struct {
	Bracket string
	Value   any
}

// Value returns an inclusive bound.
func Value(v any) *Bound { return &Bound{Value: normalizeBoundValue(v)} }

// Bracketed returns a bound in tuple notation, e.g. Bracketed("(", 5).
func Bracketed(bracket string, v any) *Bound {
	return &Bound{Bracket: bracket, Value: normalizeBoundValue(v)}
}

// IsExclusive reports whether the bound excludes its own value.
func (b *Bound) IsExclusive() bool {
	return b != nil && (b.Bracket == "(" || b.Bracket == ")")
}

// Float returns the numeric value of the bound.
func (b *Bound) Float() (float64, bool) {
	if b == nil {
		return 0, false
	}
	return ToFloat(b.Value)
}

// Text returns the string value of the bound.
func (b *Bound) Text() (string, bool) {
	if b == nil {
		return "", false
	}
	s, ok := b.Value.(string)
	return s, ok
}

// String renders the bound value for messages.
func (b *Bound) String() string {
	if b == nil {
		return ""
	}
	if f, ok := b.Value.(float64); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(b.Value)
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64, string:
		b.Bracket = ""
		b.Value = t
		return nil
	case []any:
		if len(t) != 2 {
			return fmt.Errorf("formschema: bound tuple must have 2 elements, got %d", len(t))
		}
		br, _ := t[0].(string)
		switch br {
		case "(", "[", ")", "]":
		default:
			return fmt.Errorf("formschema: invalid bound bracket %q", t[0])
		}
		switch t[1].(type) {
		case float64, string:
		default:
			return fmt.Errorf("formschema: bound value must be a number or string")
		}
		b.Bracket = br
		b.Value = t[1]
		return nil
	default:
		return fmt.Errorf("formschema: invalid bound %s", string(data))
	}
}

func (b Bound) MarshalJSON() ([]byte, error) {
	if b.Bracket != "" {
		return json.Marshal([]any{b.Bracket, b.Value})
	}
	return json.Marshal(b.Value)
}

func normalizeBoundValue(v any) any {
	if f, ok := ToFloat(v); ok {
		return f
	}
	return v
}

// Strings is a keyword accepting either a single string or a list of strings.
type Strings []string

func (s *Strings) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*s = nil
	case string:
		*s = Strings{t}
	case []any:
		out := make(Strings, 0, len(t))
		for _, it := range t {
			str, ok := it.(string)
			if !ok {
				return fmt.Errorf("formschema: expected string list element, got %T", it)
			}
			out = append(out, str)
		}
		*s = out
	default:
		return fmt.Errorf("formschema: expected string or string list, got %T", raw)
	}
	return nil
}

func (s Strings) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}
