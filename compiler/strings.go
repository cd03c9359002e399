package compiler

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/datefmt"
	"github.com/reoring/formschema/internal/format"
)

func (c *compiler) str(n *fs.Node) *pipeline {
	p := &pipeline{base: c.typed(n, "string", asString)}
	if len(n.Enum) > 0 {
		p.base = c.enumBase(n)
	}
	switch {
	case n.Format.IsCalendar():
		p.add(c.calendar(n))
	case n.Format != fs.FormatPlain:
		p.add(c.format(n))
	}
	return p.add(
		c.lengths(n),
		c.pattern(n),
		c.includes(n),
		c.excludes(n),
		c.affixes(n),
		c.exclusiveEnum(n),
	)
}

// enumBase replaces the string type check with closed-set membership.
func (c *compiler) enumBase(n *fs.Node) baseFunc {
	return func(_ context.Context, v any, at fs.PathRef) (any, fs.Issues) {
		if fs.IsMissing(v) {
			return nil, fs.Issues{c.issue(n, at, fs.CodeRequired, "required", nil)}
		}
		if !contains(n.Enum, v) {
			iss := c.issue(n, at, fs.CodeInvalidEnum, "invalid_enum", nil)
			iss.Params["options"] = n.Enum
			return nil, fs.Issues{iss}
		}
		return v, nil
	}
}

func (c *compiler) format(n *fs.Node) rule {
	name := string(n.Format)
	if !format.Known(name) {
		c.log.Warn("unknown string format ignored", "format", name, "name", n.Name)
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, _ := v.(string)
		if format.Valid(name, s) {
			return nil
		}
		iss := c.issue(n, at, fs.CodeInvalidFormat, "invalid_format."+name, nil)
		iss.Hint = name
		return fs.Issues{iss}
	}
}

func (c *compiler) lengths(n *fs.Node) rule {
	if n.MinLength == nil && n.MaxLength == nil && n.Length == nil {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		l := utf8.RuneCountInString(s)
		var out fs.Issues
		if n.MinLength != nil && l < *n.MinLength {
			out = append(out, c.issue(n, at, fs.CodeTooShort, "too_short", *n.MinLength))
		}
		if n.MaxLength != nil && l > *n.MaxLength {
			out = append(out, c.issue(n, at, fs.CodeTooLong, "too_long", *n.MaxLength))
		}
		if n.Length != nil && l != *n.Length {
			out = append(out, c.issue(n, at, fs.CodeInvalidLength, "invalid_length", *n.Length))
		}
		return out
	}
}

func (c *compiler) pattern(n *fs.Node) rule {
	if n.Pattern == "" {
		return nil
	}
	re, err := regexp.Compile(n.Pattern)
	if err != nil {
		// an unusable pattern can never be satisfied
		c.log.Warn("invalid pattern", "pattern", n.Pattern, "name", n.Name, "err", err)
		return func(_ context.Context, _ any, at fs.PathRef) fs.Issues {
			iss := c.issue(n, at, fs.CodePattern, "pattern", nil)
			iss.Cause = err
			return fs.Issues{iss}
		}
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok || re.MatchString(s) {
			return nil
		}
		iss := c.issue(n, at, fs.CodePattern, "pattern", nil)
		iss.Params["pattern"] = n.Pattern
		return fs.Issues{iss}
	}
}

func (c *compiler) includes(n *fs.Node) rule {
	if len(n.Includes) == 0 {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		var out fs.Issues
		for _, sub := range n.Includes {
			if !strings.Contains(s, sub) {
				out = append(out, c.issue(n, at, fs.CodeIncludes, "includes", sub))
			}
		}
		return out
	}
}

func (c *compiler) excludes(n *fs.Node) rule {
	if len(n.Excludes) == 0 {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		var out fs.Issues
		for _, sub := range n.Excludes {
			if strings.Contains(s, sub) {
				out = append(out, c.issue(n, at, fs.CodeExcludes, "excludes", sub))
			}
		}
		return out
	}
}

func (c *compiler) affixes(n *fs.Node) rule {
	if n.StartsWith == "" && n.EndsWith == "" {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		var out fs.Issues
		if n.StartsWith != "" && !strings.HasPrefix(s, n.StartsWith) {
			out = append(out, c.issue(n, at, fs.CodeStartsWith, "starts_with", n.StartsWith))
		}
		if n.EndsWith != "" && !strings.HasSuffix(s, n.EndsWith) {
			out = append(out, c.issue(n, at, fs.CodeEndsWith, "ends_with", n.EndsWith))
		}
		return out
	}
}

func (c *compiler) exclusiveEnum(n *fs.Node) rule {
	if len(n.ExclusiveEnum) == 0 {
		return nil
	}
	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		if !contains(n.ExclusiveEnum, v) {
			return nil
		}
		return fs.Issues{c.issue(n, at, fs.CodeExcludedEnum, "excluded_enum", nil)}
	}
}

// ---- date / date-time ----

type calendarBound struct {
	at        time.Time
	text      string
	lower     bool
	exclusive bool
}

func (c *compiler) calendar(n *fs.Node) rule {
	kind := datefmt.Kind(n.Format)
	var bounds []calendarBound
	add := func(b *fs.Bound, lower, exclusive bool) {
		if b == nil {
			return
		}
		text, ok := b.Text()
		if !ok {
			c.log.Warn("non-textual calendar bound ignored", "name", n.Name, "bound", b.String())
			return
		}
		t, err := parseCalendarBound(text, kind)
		if err != nil {
			c.log.Warn("unparseable calendar bound ignored", "name", n.Name, "bound", text, "err", err)
			return
		}
		bounds = append(bounds, calendarBound{at: t, text: text, lower: lower, exclusive: exclusive || b.IsExclusive()})
	}
	add(n.Minimum, true, false)
	add(n.ExclusiveMinimum, true, true)
	add(n.Maximum, false, false)
	add(n.ExclusiveMaximum, false, true)

	return func(_ context.Context, v any, at fs.PathRef) fs.Issues {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		t, err := datefmt.Parse(s, kind)
		if err != nil {
			iss := c.issue(n, at, fs.CodeInvalidDate, "invalid_date."+string(kind), nil)
			iss.Cause = err
			return fs.Issues{iss}
		}
		var out fs.Issues
		for _, b := range bounds {
			switch {
			case b.lower && b.exclusive && !t.After(b.at):
				out = append(out, c.issue(n, at, fs.CodeTooSmall, "too_small.date_exclusive", b.text))
			case b.lower && !b.exclusive && t.Before(b.at):
				out = append(out, c.issue(n, at, fs.CodeTooSmall, "too_small.date", b.text))
			case !b.lower && b.exclusive && !t.Before(b.at):
				out = append(out, c.issue(n, at, fs.CodeTooBig, "too_big.date_exclusive", b.text))
			case !b.lower && !b.exclusive && t.After(b.at):
				out = append(out, c.issue(n, at, fs.CodeTooBig, "too_big.date", b.text))
			}
		}
		return out
	}
}

// parseCalendarBound reads a bound with the field's own kind, falling back to
// a plain date so that "2024-08-31" can bound a date-time field.
func parseCalendarBound(text string, kind datefmt.Kind) (time.Time, error) {
	t, err := datefmt.Parse(text, kind)
	if err == nil || kind == datefmt.Date {
		return t, err
	}
	return datefmt.Parse(text, datefmt.Date)
}
