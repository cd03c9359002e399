package formschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeInvalidLength  = "invalid_length"
	CodePattern        = "pattern"
	CodeInvalidEnum    = "invalid_enum"
	CodeExcludedEnum   = "excluded_enum"
	CodeInvalidFormat  = "invalid_format"
	CodeInvalidDate    = "invalid_date"
	CodeNotMultipleOf  = "not_multiple_of"
	CodeIncludes       = "includes"
	CodeExcludes       = "excludes"
	CodeStartsWith     = "starts_with"
	CodeEndsWith       = "ends_with"
	CodeNotUnique      = "not_unique"
	CodeInvalidArity   = "invalid_arity"
	CodeNoMatch        = "no_match"
	CodeAmbiguousMatch = "ambiguous_match"
	CodeParseError     = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"name":"Age", "value":10})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the schema keyword that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_short at /name
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns the human-readable message of every issue, in order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// At returns the issues located at the given JSON Pointer. Empty segments
// are ignored, so "" and "/" both name the root.
func (iss Issues) At(path string) Issues {
	path = At(path).Pointer()
	var out Issues
	for _, it := range iss {
		if it.Path == path {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
