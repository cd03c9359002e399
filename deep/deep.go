// Package deep reads and writes values at dotted paths inside nested
// map[string]any / []any documents.
//
// Path grammar: segments separated by ".", with "[n]" after a segment
// addressing element n of a list ("a.b[0].c"). A bare numeric segment ("a.0")
// also addresses a list element when the container at that point is a list,
// and makes Set create a list when the container does not exist yet.
package deep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotContainer is returned by Set when a path runs through a scalar.
	ErrNotContainer = errors.New("deep: path traverses a non-container value")
	// ErrBadPath is returned for malformed paths.
	ErrBadPath = errors.New("deep: malformed path")
	// ErrIndexRange is returned by Set for list indexes more than MaxGap
	// elements past the end of the list.
	ErrIndexRange = errors.New("deep: list index out of range")
)

// MaxGap is the number of nil elements Set may insert to reach an index.
const MaxGap = 1024

type segment struct {
	key     string
	index   int
	numeric bool
}

func parse(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	parts := strings.Split(strings.ReplaceAll(path, "[", ".["), ".")
	segs := make([]segment, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			// "[0]" at the start of a path yields a leading empty part
			if i == 0 && len(parts) > 1 && strings.HasPrefix(parts[1], "[") {
				continue
			}
			return nil, fmt.Errorf("%w: empty segment in %q", ErrBadPath, path)
		}
		if strings.HasPrefix(p, "[") {
			if !strings.HasSuffix(p, "]") {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrBadPath, path)
			}
			n, err := strconv.Atoi(p[1 : len(p)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %s in %q", ErrBadPath, p, path)
			}
			segs = append(segs, segment{key: strconv.Itoa(n), index: n, numeric: true})
			continue
		}
		seg := segment{key: p}
		if n, err := strconv.Atoi(p); err == nil && n >= 0 {
			seg.index, seg.numeric = n, true
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// Get returns the value at path. ok is false when any segment is absent or
// the path is malformed.
func Get(container any, path string) (any, bool) {
	segs, err := parse(path)
	if err != nil {
		return nil, false
	}
	cur := container
	for _, s := range segs {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[s.key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if !s.numeric || s.index >= len(c) {
				return nil, false
			}
			cur = c[s.index]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at path inside container, creating intermediate maps, or
// lists when the following segment is numeric. Existing containers on the
// path are reused; lists grow with nil elements as needed.
func Set(container map[string]any, path string, v any) error {
	if container == nil {
		return fmt.Errorf("%w: nil root", ErrNotContainer)
	}
	segs, err := parse(path)
	if err != nil {
		return err
	}
	_, err = set(container, segs, v)
	return err
}

func set(cur any, segs []segment, v any) (any, error) {
	s := segs[0]
	last := len(segs) == 1
	if cur == nil {
		if s.numeric {
			cur = []any{}
		} else {
			cur = map[string]any{}
		}
	}
	switch c := cur.(type) {
	case map[string]any:
		if last {
			c[s.key] = v
			return c, nil
		}
		child, err := set(c[s.key], segs[1:], v)
		if err != nil {
			return nil, err
		}
		c[s.key] = child
		return c, nil
	case []any:
		if !s.numeric {
			return nil, fmt.Errorf("%w: key %q on a list", ErrNotContainer, s.key)
		}
		if s.index-len(c) > MaxGap {
			return nil, fmt.Errorf("%w: [%d] on a list of %d", ErrIndexRange, s.index, len(c))
		}
		for len(c) <= s.index {
			c = append(c, nil)
		}
		if last {
			c[s.index] = v
			return c, nil
		}
		child, err := set(c[s.index], segs[1:], v)
		if err != nil {
			return nil, err
		}
		c[s.index] = child
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %T at %q", ErrNotContainer, cur, s.key)
	}
}

// Access is the combined accessor: with no value it returns the value at path
// (nil when absent); with a value it writes it and returns container.
func Access(container map[string]any, path string, v ...any) (any, error) {
	if len(v) == 0 {
		got, _ := Get(container, path)
		return got, nil
	}
	if err := Set(container, path, v[0]); err != nil {
		return nil, err
	}
	return container, nil
}
