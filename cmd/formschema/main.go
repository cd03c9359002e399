package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	fs "github.com/reoring/formschema"
	"github.com/reoring/formschema/compiler"
	"github.com/reoring/formschema/form"
	"github.com/reoring/formschema/i18n"
	"github.com/reoring/formschema/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdout, stderr)
	case "finalize":
		return finalizeCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "formschema CLI\n\nUsage:\n  formschema check -schema form.json|form.yaml -state state.json [-lang ja] [-json] [-v]\n  formschema finalize -schema form.json -state state.json [-preset name|group] [-path name] [-map key=path,...] [-v]\n\nNotes:\n  - check exits 1 when the state does not conform.\n  - finalize prints the reshaped state as JSON.")
}

type common struct {
	schema  string
	state   string
	lang    string
	verbose bool
}

func (c *common) register(set *flag.FlagSet) {
	set.StringVar(&c.schema, "schema", "", "schema document (.json, .yaml or .yml)")
	set.StringVar(&c.state, "state", "", "state document (JSON object); empty means {}")
	set.StringVar(&c.lang, "lang", "en", "message language (en or ja)")
	set.BoolVar(&c.verbose, "v", false, "enable debug logs on stderr")
}

// open loads the schema and state. The returned context carries the logger
// selected by -v.
func (c *common) open(stderr io.Writer) (context.Context, *form.Form, error) {
	if c.schema == "" {
		return nil, nil, fmt.Errorf("-schema is required")
	}
	n, err := loadSchema(c.schema)
	if err != nil {
		return nil, nil, err
	}
	state := map[string]any{}
	if c.state != "" {
		data, err := os.ReadFile(c.state)
		if err != nil {
			return nil, nil, fmt.Errorf("reading state: %w", err)
		}
		if state, err = form.StateFromJSON(data); err != nil {
			return nil, nil, err
		}
	}
	log := logger.Discard()
	if c.verbose {
		cfg := logger.DefaultConfig()
		cfg.Level = logger.DebugLevel
		cfg.Output = stderr
		log = logger.NewLogger(cfg)
	}
	ctx := logger.ContextWithLogger(context.Background(), log)
	// Create resets the state, so the loaded values are passed as defaults.
	return ctx, form.CreateContext(ctx, n, nil,
		form.WithDefaults(state),
		form.WithCompiler(compiler.WithTranslator(i18n.For(c.lang))),
	), nil
}

func loadSchema(path string) (*fs.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fs.LoadYAML(data)
	default:
		return fs.LoadJSON(data)
	}
}

func checkCmd(args []string, stdout, stderr io.Writer) int {
	set := flag.NewFlagSet("check", flag.ContinueOnError)
	set.SetOutput(stderr)
	var c common
	var asJSON bool
	c.register(set)
	set.BoolVar(&asJSON, "json", false, "print issues as JSON")
	if err := set.Parse(args); err != nil {
		return 2
	}
	ctx, f, err := c.open(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	res := f.Validate(ctx)
	if asJSON {
		if err := writeJSON(stdout, issuesView(res)); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	} else {
		for _, iss := range res.Issues {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", iss.Path, iss.Code, iss.Message)
		}
		if b := f.Condition(); b != fs.BranchNone {
			fmt.Fprintf(stdout, "condition: %s\n", b)
		}
		if res.Success {
			fmt.Fprintln(stdout, "ok")
		}
	}
	if !res.Success {
		return 1
	}
	return 0
}

type issueView struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

func issuesView(res fs.Result) map[string]any {
	out := make([]issueView, 0, len(res.Issues))
	for _, iss := range res.Issues {
		out = append(out, issueView{Path: iss.Path, Code: iss.Code, Message: iss.Message, Params: iss.Params})
	}
	view := map[string]any{"success": res.Success, "issues": out}
	if len(res.Branches) > 0 {
		view["branches"] = res.Branches
	}
	return view
}

func finalizeCmd(args []string, stdout, stderr io.Writer) int {
	set := flag.NewFlagSet("finalize", flag.ContinueOnError)
	set.SetOutput(stderr)
	var c common
	var preset, path, mapping string
	c.register(set)
	set.StringVar(&preset, "preset", "", "name (snake_case labels) or group (key prefixes)")
	set.StringVar(&path, "path", "", "schema field used as the default output path")
	set.StringVar(&mapping, "map", "", "comma-separated key=path overrides")
	if err := set.Parse(args); err != nil {
		return 2
	}
	_, f, err := c.open(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var r *form.Reformed
	switch preset {
	case "":
		r = form.ReForm(f, form.Policy{}, nil)
	case "name":
		r = form.NameReForm(f)
	case "group":
		r = form.GroupReForm(f)
	default:
		fmt.Fprintf(stderr, "unknown preset %q\n", preset)
		return 2
	}
	if path != "" {
		r.Defaults.Path = path
	}
	km, err := parseKeyMap(mapping)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if km != nil {
		r.KeyMap = km
	}

	out, err := r.Finalize()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := writeJSON(stdout, out); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return 0
}

func parseKeyMap(s string) (form.KeyMap, error) {
	entries := splitCSV(s)
	if len(entries) == 0 {
		return nil, nil
	}
	km := make(form.KeyMap, len(entries))
	for _, e := range entries {
		key, target, ok := strings.Cut(e, "=")
		key, target = strings.TrimSpace(key), strings.TrimSpace(target)
		if !ok || key == "" || target == "" {
			return nil, fmt.Errorf("invalid -map entry %q (want key=path)", e)
		}
		km[key] = form.To(target)
	}
	return km, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
