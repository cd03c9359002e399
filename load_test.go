package formschema_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	fs "github.com/reoring/formschema"
)

func TestLoadYAML(t *testing.T) {
	n, err := fs.LoadYAML([]byte(`
type: object
properties:
  since:
    type: string
    format: date
    name: Since
    minimum: 2024-01-01
    attrs:
      default: &d 2024-06-01
  until:
    type: string
    format: date
    attrs:
      default: *d
  age:
    type: integer
    minimum: ["(", 0]
required: [since]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"since", "until", "age"}, n.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	since := n.Property("since")
	if s, ok := since.Minimum.Text(); !ok || s != "2024-01-01" {
		t.Fatalf("timestamps should stay textual, got %#v", since.Minimum.Value)
	}
	if d, _ := n.Property("until").DefaultValue(); d != "2024-06-01" {
		t.Fatalf("alias default = %#v", d)
	}
	if f, _ := n.Property("age").Minimum.Float(); f != 0 || !n.Property("age").Minimum.IsExclusive() {
		t.Fatalf("age bound = %+v", n.Property("age").Minimum)
	}
	if !n.IsRequired("since") || n.IsRequired("until") {
		t.Fatalf("required = %v", n.Required)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := fs.LoadYAML([]byte("type: [unterminated"))
	if err == nil || !strings.Contains(err.Error(), "decode yaml schema") {
		t.Fatalf("expected yaml decode error, got %v", err)
	}
	_, err = fs.LoadYAML([]byte("type: object\nproperties:\n  a:\n    type: 5\n"))
	if err == nil || !strings.Contains(err.Error(), "decode json schema") {
		t.Fatalf("expected schema decode error, got %v", err)
	}
}

func TestMustLoadJSON_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fs.MustLoadJSON([]byte(`{`))
}

const nestedJSON = `{
  "type": "object",
  "properties": {
    "team": {
      "type": "object",
      "name": "Team",
      "properties": {
        "lead": {"type": "string", "minLength": 2},
        "members": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {"email": {"type": "string", "format": "email"}},
            "required": ["email"]
          }
        }
      }
    },
    "pair": {"type": "array", "items": [{"type": "string"}, {"type": "integer"}]}
  }
}`

func TestLoad_NestedDocument(t *testing.T) {
	fromJSON, err := fs.LoadJSON([]byte(nestedJSON))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	fromYAML, err := fs.LoadYAML([]byte(`
type: object
properties:
  team:
    type: object
    name: Team
    properties:
      lead: {type: string, minLength: 2}
      members:
        type: array
        items:
          type: object
          properties:
            email: {type: string, format: email}
          required: [email]
  pair:
    type: array
    items: [{type: string}, {type: integer}]
`))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	for name, n := range map[string]*fs.Node{"json": fromJSON, "yaml": fromYAML} {
		team := n.Property("team")
		if team == nil || team.Name != "Team" {
			t.Fatalf("%s: team = %+v", name, team)
		}
		if diff := cmp.Diff([]string{"lead", "members"}, team.Keys()); diff != "" {
			t.Fatalf("%s: team keys (-want +got):\n%s", name, diff)
		}
		if lead := team.Property("lead"); lead.MinLength == nil || *lead.MinLength != 2 {
			t.Fatalf("%s: lead = %+v", name, lead)
		}
		item := team.Property("members").Items
		if item == nil || item.Property("email").Format != fs.FormatEmail || !item.IsRequired("email") {
			t.Fatalf("%s: members items = %+v", name, item)
		}
		pair := n.Property("pair")
		if len(pair.TupleItems) != 2 || pair.TupleItems[1].Type != fs.KindInteger {
			t.Fatalf("%s: pair tuple = %+v", name, pair.TupleItems)
		}
	}
}

func TestLoadYAML_MergeKeys(t *testing.T) {
	n, err := fs.LoadYAML([]byte(`
base: &text
  type: string
  name: Text
  minLength: 1
extra: &wide
  maxLength: 80
  name: Wide
type: object
properties:
  title:
    <<: *text
    name: Title
  body:
    <<: [*wide, *text]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	title := n.Property("title")
	if title.Type != fs.KindString || title.Name != "Title" || title.MinLength == nil {
		t.Fatalf("title = %+v", title)
	}
	body := n.Property("body")
	if body.Name != "Wide" || body.MaxLength == nil || *body.MaxLength != 80 || body.Type != fs.KindString {
		t.Fatalf("body = %+v", body)
	}

	_, err = fs.LoadYAML([]byte("type: object\nproperties:\n  a:\n    <<: 5\n"))
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected merge error on line 4, got %v", err)
	}
}

func TestLoadYAML_NonFiniteNumbers(t *testing.T) {
	for _, doc := range []string{
		"type: number\nmaximum: .inf\n",
		"type: number\nminimum: -.Inf\n",
		"type: number\nmultipleOf: .nan\n",
	} {
		_, err := fs.LoadYAML([]byte(doc))
		if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "no JSON representation") {
			t.Fatalf("%q: expected line-numbered error, got %v", doc, err)
		}
	}
}
