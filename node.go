package formschema

import "sort"

// Kind is the discriminator of a schema node ("type" on the wire).
type Kind string

const (
	KindObject  Kind = "object"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindTuple   Kind = "tuple"
	KindNull    Kind = "null"

	// Content kinds carry presentation only and never produce a validator.
	KindH1        Kind = "h1"
	KindH2        Kind = "h2"
	KindH3        Kind = "h3"
	KindH4        Kind = "h4"
	KindH5        Kind = "h5"
	KindH6        Kind = "h6"
	KindP         Kind = "p"
	KindHeader    Kind = "header"
	KindSubheader Kind = "subheader"
	KindParagraph Kind = "paragraph"
	KindHr        Kind = "hr"
	KindInfo      Kind = "info"
	KindWarning   Kind = "warning"
	KindError     Kind = "error"
	KindDebug     Kind = "debug"
)

// IsContent reports whether k is a UI/content kind excluded from validation.
func (k Kind) IsContent() bool {
	switch k {
	case KindH1, KindH2, KindH3, KindH4, KindH5, KindH6, KindP,
		KindHeader, KindSubheader, KindParagraph, KindHr,
		KindInfo, KindWarning, KindError, KindDebug:
		return true
	}
	return false
}

// IsField reports whether k is one of the value-bearing kinds.
func (k Kind) IsField() bool {
	switch k {
	case KindObject, KindString, KindNumber, KindInteger, KindBoolean,
		KindArray, KindTuple, KindNull:
		return true
	}
	return false
}

// Format selects a string format check.
type Format string

const (
	FormatPlain    Format = ""
	FormatUUID     Format = "uuid"
	FormatEmail    Format = "email"
	FormatIP       Format = "ip"
	FormatIPv4     Format = "ipv4"
	FormatIPv6     Format = "ipv6"
	FormatURL      Format = "url"
	FormatTime     Format = "time"
	FormatBase64   Format = "base64"
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
)

// IsCalendar reports whether values of this format are parsed into calendar
// instants before bound checks.
func (f Format) IsCalendar() bool { return f == FormatDate || f == FormatDateTime }

// Node is one declarative unit of a form schema. A single struct carries the
// attributes of every kind; Type selects which of them are meaningful.
type Node struct {
	Type        Kind           `json:"type,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Comment     string         `json:"$comment,omitempty"`
	Nullable    bool           `json:"nullable,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	Content     string         `json:"content,omitempty"`

	// Default is the value of attrs.default. HasDefault distinguishes an
	// explicit null default from no default at all.
	Default    any  `json:"-"`
	HasDefault bool `json:"-"`

	// Root document metadata.
	SchemaURI   string         `json:"$schema,omitempty"`
	ID          string         `json:"$id,omitempty"`
	Title       string         `json:"title,omitempty"`
	PublishedAt string         `json:"published_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// object
	Properties map[string]*Node `json:"-"`
	// PropertyOrder lists Properties keys in document order. Keys missing
	// from it are visited afterwards in sorted order.
	PropertyOrder     []string          `json:"-"`
	PatternProperties []PatternProperty `json:"-"`
	Required          []string          `json:"required,omitempty"`
	If                *Node             `json:"if,omitempty"`
	Then              *Node             `json:"then,omitempty"`
	Else              *Node             `json:"else,omitempty"`

	// string
	Format        Format  `json:"format,omitempty"`
	MinLength     *int    `json:"minLength,omitempty"`
	MaxLength     *int    `json:"maxLength,omitempty"`
	Length        *int    `json:"length,omitempty"` // shared with array
	Pattern       string  `json:"pattern,omitempty"`
	Enum          []any   `json:"enum,omitempty"`
	ExclusiveEnum []any   `json:"exclusiveEnum,omitempty"`
	Includes      Strings `json:"includes,omitempty"`
	Excludes      Strings `json:"excludes,omitempty"`
	StartsWith    string  `json:"startsWith,omitempty"`
	EndsWith      string  `json:"endsWith,omitempty"`

	// number, integer, and calendar strings
	Minimum          *Bound   `json:"minimum,omitempty"`
	Maximum          *Bound   `json:"maximum,omitempty"`
	ExclusiveMinimum *Bound   `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *Bound   `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// array (Items) and tuple (TupleItems) share the "items" keyword.
	Items       *Node   `json:"-"`
	TupleItems  []*Node `json:"-"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	Nonempty    bool    `json:"nonempty,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	AllOf []*Node `json:"allOf,omitempty"`
	AnyOf []*Node `json:"anyOf,omitempty"`
	OneOf []*Node `json:"oneOf,omitempty"`
}

// PatternProperty binds a key regex to the schema its values must satisfy.
type PatternProperty struct {
	Pattern string
	Schema  *Node
}

// DefaultValue returns the node's declared default, reading attrs.default when
// the first-class field was not populated.
func (n *Node) DefaultValue() (any, bool) {
	if n == nil {
		return nil, false
	}
	if n.HasDefault {
		return n.Default, true
	}
	if n.Attrs != nil {
		if v, ok := n.Attrs["default"]; ok {
			return v, true
		}
	}
	return nil, false
}

// Label returns the human label used in messages.
func (n *Node) Label() string {
	if n == nil {
		return ""
	}
	return n.Name
}

// Keys returns property keys in document order followed by any keys that were
// added without updating PropertyOrder.
func (n *Node) Keys() []string {
	if n == nil || len(n.Properties) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(n.Properties))
	keys := make([]string, 0, len(n.Properties))
	for _, k := range n.PropertyOrder {
		if _, ok := n.Properties[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if len(keys) == len(n.Properties) {
		return keys
	}
	rest := make([]string, 0, len(n.Properties)-len(keys))
	for k := range n.Properties {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Property returns the child node for key, or nil.
func (n *Node) Property(key string) *Node {
	if n == nil || n.Properties == nil {
		return nil
	}
	return n.Properties[key]
}

// SetProperty adds or replaces a property while keeping PropertyOrder in sync.
func (n *Node) SetProperty(key string, child *Node) *Node {
	if n.Properties == nil {
		n.Properties = map[string]*Node{}
	}
	if _, exists := n.Properties[key]; !exists {
		n.PropertyOrder = append(n.PropertyOrder, key)
	}
	n.Properties[key] = child
	return n
}

// IsRequired reports whether key is listed in Required.
func (n *Node) IsRequired(key string) bool {
	if n == nil {
		return false
	}
	for _, r := range n.Required {
		if r == key {
			return true
		}
	}
	return false
}
