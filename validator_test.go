package formschema_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	fs "github.com/reoring/formschema"
)

// branchy records the branch given in the state and fails on "bad".
var branchy = fs.ValidatorFunc(func(ctx context.Context, v any, at fs.PathRef) fs.Issues {
	m, _ := v.(map[string]any)
	if b, ok := m["branch"].(string); ok {
		fs.RecordBranch(ctx, at, fs.Branch(b))
	}
	if m["bad"] == true {
		return fs.Issues{at.Field("bad").Issue(fs.CodeInvalidType, "bad", "name", "Bad")}
	}
	return nil
})

func TestSafeParse(t *testing.T) {
	ctx := context.Background()
	res := fs.SafeParse(ctx, branchy, map[string]any{"branch": "then"})
	if !res.Success || res.Branch("/") != fs.BranchThen || res.Branch("") != fs.BranchThen {
		t.Fatalf("unexpected result %+v", res)
	}

	res = fs.SafeParse(ctx, branchy, map[string]any{"bad": true})
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Path != "/bad" {
		t.Fatalf("unexpected issues %v", res.Issues)
	}
	if res.Issues[0].Params["name"] != "Bad" {
		t.Fatalf("params = %v", res.Issues[0].Params)
	}
	if res.Branches != nil {
		t.Fatalf("no branches recorded, got %v", res.Branches)
	}

	if res := fs.SafeParse(ctx, nil, 42); !res.Success || res.Value != 42 {
		t.Fatalf("nil validator accepts everything")
	}
}

func TestRecordBranch_NoneClears(t *testing.T) {
	rec := map[string]fs.Branch{}
	ctx := fs.WithBranchRecorder(context.Background(), rec)
	fs.RecordBranch(ctx, fs.At("/a"), fs.BranchElse)
	if rec["/a"] != fs.BranchElse {
		t.Fatalf("branch not recorded: %v", rec)
	}
	fs.RecordBranch(ctx, fs.At("/a"), fs.BranchNone)
	if _, ok := rec["/a"]; ok {
		t.Fatalf("none should clear the entry: %v", rec)
	}

	fs.RecordBranch(fs.WithTrial(ctx), fs.At("/b"), fs.BranchThen)
	if len(rec) != 0 {
		t.Fatalf("trial evaluations must not record: %v", rec)
	}
	// no recorder installed
	fs.RecordBranch(context.Background(), fs.Root(), fs.BranchThen)
}

func TestValidateAndIs(t *testing.T) {
	ctx := context.Background()
	if err := fs.Validate(ctx, branchy, map[string]any{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	err := fs.Validate(ctx, branchy, map[string]any{"bad": true})
	wrapped := fmt.Errorf("submit: %w", err)
	iss, ok := fs.AsIssues(wrapped)
	if !ok || len(iss) != 1 || iss[0].Code != fs.CodeInvalidType {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
	if _, ok := fs.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no issues")
	}

	if fs.Is(ctx, branchy, map[string]any{"bad": true}) {
		t.Fatalf("Is should reject")
	}
	if !fs.Is(ctx, nil, nil) {
		t.Fatalf("nil validator accepts")
	}
}

func TestMissing(t *testing.T) {
	if !fs.IsMissing(fs.Missing) || fs.IsMissing(nil) {
		t.Fatalf("Missing must differ from nil")
	}
	if fmt.Sprint(fs.Missing) != "<missing>" {
		t.Fatalf("Missing renders as %v", fs.Missing)
	}
}

func TestIssues(t *testing.T) {
	iss := fs.Issues{
		fs.Root().Field("a/b").Issue(fs.CodeRequired, "A is required"),
		fs.Root().Field("list").Index(2).Issue(fs.CodeTooShort, "too short", "min", 3),
		fs.Root().Issue(fs.CodeNoMatch, "no match"),
		fs.At("/").Issue(fs.CodeNoMatch, "again"),
	}
	if iss[0].Path != "/a~1b" || iss[1].Path != "/list/2" {
		t.Fatalf("paths = %q %q", iss[0].Path, iss[1].Path)
	}
	want := "required at /a~1b; too_short at /list/2; no_match at /; ... (total 4)"
	if iss.Error() != want {
		t.Fatalf("Error() = %q", iss.Error())
	}
	if got := iss.At("/"); len(got) != 2 {
		t.Fatalf("At(/) = %v", got)
	}
	if got := iss.At(""); len(got) != 2 {
		t.Fatalf("At(\"\") = %v", got)
	}
	if got := iss.At("/list/2/"); len(got) != 1 || got[0].Params["min"] != 3 {
		t.Fatalf("At(/list/2/) = %v", got)
	}
	if msgs := iss.Messages(); msgs[3] != "again" {
		t.Fatalf("messages = %v", msgs)
	}
	if fs.At("/x/y").Pointer() != "/x/y" || fs.At("").Pointer() != "/" {
		t.Fatalf("At round trip")
	}
}
