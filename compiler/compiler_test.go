package compiler_test

import (
	"context"
	"testing"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/compiler"
)

func mustCompile(t *testing.T, doc string) fs.Validator {
	t.Helper()
	n, err := fs.LoadJSON([]byte(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v := compiler.Compile(n)
	if v == nil {
		t.Fatalf("expected a validator for %s", doc)
	}
	return v
}

func mustCompileNode(t *testing.T, n *fs.Node) fs.Validator {
	t.Helper()
	v := compiler.Compile(n)
	if v == nil {
		t.Fatalf("expected a validator")
	}
	return v
}

func parse(v fs.Validator, state any) fs.Result {
	return fs.SafeParse(context.Background(), v, state)
}

func expectPass(t *testing.T, v fs.Validator, state any) {
	t.Helper()
	if res := parse(v, state); !res.Success {
		t.Fatalf("expected %v to pass, got %v", state, res.Issues)
	}
}

func expectFail(t *testing.T, v fs.Validator, state any, code string) fs.Issues {
	t.Helper()
	res := parse(v, state)
	if res.Success {
		t.Fatalf("expected %v to fail with %s", state, code)
	}
	for _, iss := range res.Issues {
		if iss.Code == code {
			return res.Issues
		}
	}
	t.Fatalf("expected code %s for %v, got %v", code, state, res.Issues)
	return nil
}

func TestRequiredness(t *testing.T) {
	v := mustCompile(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string", "name": "A"},
			"b": {"type": "string", "name": "B"}
		},
		"required": ["a"]
	}`)
	expectPass(t, v, map[string]any{"a": "x"})
	iss := expectFail(t, v, map[string]any{"b": "x"}, fs.CodeRequired)
	if iss[0].Path != "/a" || iss[0].Message != "A is required." {
		t.Fatalf("unexpected issue %+v", iss[0])
	}
	// optional keys still validate when present
	expectFail(t, v, map[string]any{"a": "x", "b": 1}, fs.CodeInvalidType)
}

func TestFallbackName(t *testing.T) {
	v := mustCompile(t, `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`)
	res := parse(v, map[string]any{})
	if res.Issues[0].Message != "Value is required." {
		t.Fatalf("got %q", res.Issues[0].Message)
	}
}

func TestCompileField_Optional(t *testing.T) {
	n := &fs.Node{Type: fs.KindString}
	opt := compiler.CompileField(n, "a", nil)
	req := compiler.CompileField(n, "a", []string{"a"})
	if !fs.Is(context.Background(), opt, fs.Missing) {
		t.Fatalf("optional field should accept Missing")
	}
	if fs.Is(context.Background(), req, fs.Missing) {
		t.Fatalf("required field should reject Missing")
	}
}

func TestNumberBounds_TupleEquivalence(t *testing.T) {
	plain := mustCompile(t, `{"type":"number","minimum":5,"maximum":10}`)
	bracketed := mustCompile(t, `{"type":"number","minimum":["[",5],"maximum":["]",10]}`)
	for _, x := range []float64{4, 4.99, 5, 7, 10, 10.01, 11} {
		if fs.Is(context.Background(), plain, x) != fs.Is(context.Background(), bracketed, x) {
			t.Fatalf("plain and bracketed bounds disagree on %v", x)
		}
	}

	open := mustCompile(t, `{"type":"number","minimum":["(",5],"maximum":[")",10]}`)
	expectFail(t, open, 5, fs.CodeTooSmall)
	expectPass(t, open, 6)
	expectFail(t, open, 10, fs.CodeTooBig)

	excl := mustCompile(t, `{"type":"number","exclusiveMinimum":5,"exclusiveMaximum":10}`)
	expectFail(t, excl, 5, fs.CodeTooSmall)
	expectPass(t, excl, 9.5)
	expectFail(t, excl, 10, fs.CodeTooBig)
}

func TestInteger_ExclusiveTupleMinimum(t *testing.T) {
	v := mustCompile(t, `{"type":"integer","name":"Count","minimum":["(",1]}`)
	iss := expectFail(t, v, 1, fs.CodeTooSmall)
	if iss[0].Message != "Count must be greater than 1." {
		t.Fatalf("got %q", iss[0].Message)
	}
	expectPass(t, v, 2)
	expectFail(t, v, 2.5, fs.CodeInvalidType)
	expectFail(t, v, "2", fs.CodeInvalidType)
}

func TestMultipleOf(t *testing.T) {
	v := mustCompile(t, `{"type":"number","multipleOf":0.1}`)
	expectPass(t, v, 0.3)
	expectPass(t, v, 12.7)
	expectFail(t, v, 0.35, fs.CodeNotMultipleOf)

	even := mustCompile(t, `{"type":"integer","multipleOf":2}`)
	expectPass(t, even, 4)
	expectFail(t, even, 3, fs.CodeNotMultipleOf)
}

func TestBooleanAndNull(t *testing.T) {
	b := mustCompile(t, `{"type":"boolean"}`)
	expectPass(t, b, true)
	expectFail(t, b, "true", fs.CodeInvalidType)

	null := mustCompile(t, `{"type":"null"}`)
	expectPass(t, null, nil)
	expectFail(t, null, 0, fs.CodeInvalidType)
}

func TestNullable(t *testing.T) {
	v := mustCompile(t, `{"type":"string","nullable":true,"minLength":2}`)
	expectPass(t, v, nil)
	expectPass(t, v, "ab")
	expectFail(t, v, "a", fs.CodeTooShort)
}

func TestContentNodesSkipped(t *testing.T) {
	for _, kind := range []string{"h1", "header", "paragraph", "hr", "info", "warning", "debug"} {
		n := &fs.Node{Type: fs.Kind(kind), Content: "hello"}
		if compiler.Compile(n) != nil {
			t.Fatalf("%s should not produce a validator", kind)
		}
	}
	v := mustCompile(t, `{
		"type": "object",
		"properties": {
			"title": {"type": "header", "content": "Profile"},
			"name": {"type": "string"}
		},
		"required": ["title", "name"]
	}`)
	expectPass(t, v, map[string]any{"name": "x"})
}

func TestUnknownKeysPass(t *testing.T) {
	v := mustCompile(t, `{"type":"object","properties":{"a":{"type":"string"}}}`)
	expectPass(t, v, map[string]any{"a": "x", "zzz": 42})
	expectFail(t, v, "not an object", fs.CodeInvalidType)
}

func TestIssuesAreCollected(t *testing.T) {
	v := mustCompile(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string", "minLength": 5, "includes": "q", "startsWith": "z"},
			"b": {"type": "number", "maximum": 1}
		}
	}`)
	res := parse(v, map[string]any{"a": "abc", "b": 3})
	if len(res.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", res.Issues)
	}
	if len(res.Issues.At("/a")) != 3 || len(res.Issues.At("/b")) != 1 {
		t.Fatalf("unexpected paths %v", res.Issues)
	}
}
