package formschema_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	fs "github.com/reoring/formschema"
)

func TestLoadJSON_PropertyOrder(t *testing.T) {
	n, err := fs.LoadJSON([]byte(`{
		"type": "object",
		"properties": {
			"zeta": {"type": "string"},
			"alpha": {"type": "number"},
			"mid": {"type": "boolean"}
		},
		"patternProperties": {
			"^x_": {"type": "string"},
			"^a": {"type": "number"}
		}
	}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, n.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if len(n.PatternProperties) != 2 || n.PatternProperties[0].Pattern != "^x_" || n.PatternProperties[1].Pattern != "^a" {
		t.Fatalf("pattern properties out of order: %+v", n.PatternProperties)
	}
	if n.Property("alpha").Type != fs.KindNumber {
		t.Fatalf("alpha should be a number node")
	}
}

func TestLoadJSON_Items(t *testing.T) {
	arr := fs.MustLoadJSON([]byte(`{"type": "array", "items": {"type": "string"}}`))
	if arr.Items == nil || arr.Items.Type != fs.KindString || arr.TupleItems != nil {
		t.Fatalf("array items not decoded: %+v", arr)
	}
	tup := fs.MustLoadJSON([]byte(`{"type": "tuple", "items": [{"type": "string"}, "blah"]}`))
	if len(tup.TupleItems) != 2 || tup.TupleItems[0] == nil || tup.TupleItems[1] != nil {
		t.Fatalf("tuple items not decoded leniently: %+v", tup.TupleItems)
	}
}

func TestLoadJSON_DefaultAndKeywords(t *testing.T) {
	n := fs.MustLoadJSON([]byte(`{
		"type": "string",
		"name": "Tags",
		"attrs": {"default": null, "placeholder": "x"},
		"includes": "a",
		"excludes": ["b", "c"],
		"minimum": ["(", "01/01/2024"],
		"maximum": "12/31/2024"
	}`))
	d, ok := n.DefaultValue()
	if !ok || d != nil {
		t.Fatalf("explicit null default should be present, got %v, %v", d, ok)
	}
	if diff := cmp.Diff(fs.Strings{"a"}, n.Includes); diff != "" {
		t.Fatalf("includes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fs.Strings{"b", "c"}, n.Excludes); diff != "" {
		t.Fatalf("excludes (-want +got):\n%s", diff)
	}
	if !n.Minimum.IsExclusive() || n.Maximum.IsExclusive() {
		t.Fatalf("bound brackets not decoded: %+v %+v", n.Minimum, n.Maximum)
	}
	if s, _ := n.Maximum.Text(); s != "12/31/2024" {
		t.Fatalf("maximum text = %q", s)
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	cases := []string{
		`{"type": "number", "minimum": ["<", 1]}`,
		`{"type": "number", "minimum": ["(", 1, 2]}`,
		`{"type": "string", "includes": [1]}`,
		`{"type": "object", "properties": {"a": {"type": 5}}}`,
		`not json`,
	}
	for _, doc := range cases {
		if _, err := fs.LoadJSON([]byte(doc)); err == nil {
			t.Errorf("expected error for %s", doc)
		}
	}
}

func TestBound(t *testing.T) {
	b := fs.Bracketed("(", 5)
	if f, ok := b.Float(); !ok || f != 5 || !b.IsExclusive() {
		t.Fatalf("unexpected bound %+v", b)
	}
	if fs.Value(int64(3)).String() != "3" || fs.Value(1.5).String() != "1.5" {
		t.Fatalf("bound rendering")
	}
	var nilBound *fs.Bound
	if nilBound.IsExclusive() || nilBound.String() != "" {
		t.Fatalf("nil bound should be inert")
	}

	raw, err := json.Marshal(struct {
		Min *fs.Bound `json:"min"`
		Max *fs.Bound `json:"max"`
	}{fs.Bracketed("]", 10), fs.Value(2)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"min":["]",10],"max":2}` {
		t.Fatalf("marshal = %s", raw)
	}
}

func TestNode_MarshalKeepsOrder(t *testing.T) {
	n := fs.MustLoadJSON([]byte(`{
		"type": "object",
		"properties": {
			"b": {"type": "string", "attrs": {"default": "x"}},
			"a": {"type": "array", "items": {"type": "number"}}
		}
	}`))
	raw, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	if strings.Index(s, `"b"`) > strings.Index(s, `"a"`) {
		t.Fatalf("property order lost: %s", s)
	}
	back, err := fs.LoadJSON(raw)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, back.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if d, _ := back.Property("b").DefaultValue(); d != "x" {
		t.Fatalf("default lost: %v", d)
	}
	if back.Property("a").Items == nil {
		t.Fatalf("items lost")
	}
}

func TestNode_SetProperty(t *testing.T) {
	n := &fs.Node{Type: fs.KindObject}
	n.SetProperty("b", &fs.Node{Type: fs.KindString}).SetProperty("a", &fs.Node{Type: fs.KindString})
	n.Properties["c"] = &fs.Node{}
	if diff := cmp.Diff([]string{"b", "a", "c"}, n.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
}

func TestKind(t *testing.T) {
	if !fs.KindHr.IsContent() || fs.KindHr.IsField() {
		t.Fatalf("hr is a content kind")
	}
	if fs.KindTuple.IsContent() || !fs.KindTuple.IsField() {
		t.Fatalf("tuple is a field kind")
	}
	if !fs.FormatDate.IsCalendar() || fs.FormatTime.IsCalendar() {
		t.Fatalf("calendar formats")
	}
}
