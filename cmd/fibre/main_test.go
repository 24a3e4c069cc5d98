package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/vango-dev/fibre/internal/config"
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/fiber"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestRunRender_Demo(t *testing.T) {
	tests := []struct {
		name       string
		budget     int
		wantSlices string
	}{
		{"one unit per slice", 1, "5 units in 5 slices"},
		{"two units per slice", 2, "5 units in 3 slices"},
		{"clock", 0, "5 units in "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runRender(context.Background(), &out, "", renderOptions{
				configDir: t.TempDir(),
				budget:    tt.budget,
			})
			if err != nil {
				t.Fatalf("runRender() error = %v", err)
			}
			got := out.String()
			if !strings.HasPrefix(got, `<div id="foo"><a>bar</a><b></b></div>`+"\n") {
				t.Errorf("output = %q, want demo HTML first", got)
			}
			if !strings.Contains(got, tt.wantSlices) {
				t.Errorf("output = %q, want %q", got, tt.wantSlices)
			}
		})
	}
}

func TestRunRender_Files(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "html",
			file:    "page.html",
			content: `<ul class="list"><li>one</li><li>two</li></ul>`,
			want:    `<ul class="list"><li>one</li><li>two</li></ul>`,
		},
		{
			name: "yaml",
			file: "page.yaml",
			content: `kind: p
props:
  id: greeting
children:
  - hello
`,
			want: `<p id="greeting">hello</p>`,
		},
		{
			name:    "json",
			file:    "page.json",
			content: `{"kind": "section", "children": [{"kind": "h1", "children": ["Title"]}]}`,
			want:    `<section><h1>Title</h1></section>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			var out bytes.Buffer
			if err := runRender(context.Background(), &out, path, renderOptions{configDir: dir, budget: 3}); err != nil {
				t.Fatalf("runRender() error = %v", err)
			}
			if got := strings.SplitN(out.String(), "\n", 2)[0]; got != tt.want {
				t.Errorf("HTML = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunRender_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.html", `<p>one</p><p>two</p>`)
	txt := writeFile(t, dir, "page.txt", `<p>x</p>`)
	bogus := writeFile(t, dir, "bogus.html", `<div bogus="1"></div>`)

	tests := []struct {
		name string
		file string
		opts renderOptions
		code string
	}{
		{"missing file", filepath.Join(dir, "nope.html"), renderOptions{}, errors.CodeCLIInput},
		{"two roots", bad, renderOptions{}, errors.CodeCLIInput},
		{"unsupported extension", txt, renderOptions{}, errors.CodeCLIInput},
		{"negative budget", "", renderOptions{budget: -1}, errors.CodeCLIInput},
		{"unknown property", bogus, renderOptions{budget: 10}, errors.CodeRenderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.configDir = dir
			err := runRender(context.Background(), &bytes.Buffer{}, tt.file, tt.opts)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("runRender() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunRender_LaxProperties(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	strict := false
	cfg.Scheduler.StrictProperties = &strict
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	path := writeFile(t, dir, "page.html", `<div bogus="1"></div>`)

	var out bytes.Buffer
	if err := runRender(context.Background(), &out, path, renderOptions{configDir: dir, budget: 10}); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	if !strings.Contains(out.String(), `bogus="1"`) {
		t.Errorf("output = %q, want the unknown attribute passed through", out.String())
	}
}

func TestRunRender_Stalled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Scheduler.Threshold = "5ms"
	cfg.Scheduler.SliceBudget = "5ms"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	err := runRender(context.Background(), &bytes.Buffer{}, "", renderOptions{configDir: dir})
	if !errors.HasCode(err, errors.CodeConfigScheduler) {
		t.Errorf("runRender() error = %v, want code %s", err, errors.CodeConfigScheduler)
	}
}

func TestRunRender_FibersAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	snapDir := filepath.Join(dir, "out")
	cfg := config.New()
	cfg.Snapshot.Dir = snapDir
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	var out bytes.Buffer
	err := runRender(context.Background(), &out, "", renderOptions{
		configDir: dir,
		budget:    2,
		fibers:    true,
		snapshot:  "demo",
	})
	if err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	if !strings.Contains(out.String(), `"kind": "#root"`) {
		t.Errorf("output missing fiber records: %q", out.String())
	}
	if !strings.Contains(out.String(), "Saved demo.html and demo.fibers.json") {
		t.Errorf("output missing snapshot confirmation: %q", out.String())
	}

	html, err := os.ReadFile(filepath.Join(snapDir, "demo.html"))
	if err != nil {
		t.Fatalf("ReadFile(demo.html) error = %v", err)
	}
	if got, want := string(html), `<div id="foo"><a>bar</a><b></b></div>`; got != want {
		t.Errorf("demo.html = %q, want %q", got, want)
	}

	data, err := os.ReadFile(filepath.Join(snapDir, "demo.fibers.json"))
	if err != nil {
		t.Fatalf("ReadFile(demo.fibers.json) error = %v", err)
	}
	var doc struct {
		Fibers int            `json:"fibers"`
		Tree   []fiber.Record `json:"tree"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Fibers != 5 || len(doc.Tree) != 5 {
		t.Errorf("fibers = %d (%d records), want 5", doc.Fibers, len(doc.Tree))
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.New()
	cfg.Snapshot.Bucket = "renders"
	cfg.Snapshot.Prefix = "site"
	cfg.Snapshot.Endpoint = "http://localhost:9000"

	store, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	if _, ok := store.(interface{ Key(string) string }); !ok {
		t.Errorf("openStore() = %T, want an S3 store", store)
	}

	cfg.Snapshot.Bucket = ""
	cfg.Snapshot.Dir = ""
	if _, err := openStore(cfg); !errors.HasCode(err, errors.CodeSnapshotConfig) {
		t.Errorf("openStore() without dir error = %v, want %s", err, errors.CodeSnapshotConfig)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); !errors.HasCode(err, errors.CodeSnapshotConfig) {
		t.Errorf("envCredentials() error = %v, want %s", err, errors.CodeSnapshotConfig)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "token")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatalf("envCredentials() error = %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" || creds.SessionToken != "token" {
		t.Errorf("envCredentials() = %+v", creds)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Scheduler.Policy = "queue"

	sc := serverConfig(cfg)
	if sc.Address != "127.0.0.1:0" {
		t.Errorf("Address = %q, want 127.0.0.1:0", sc.Address)
	}
	if sc.Policy.String() != "queue" {
		t.Errorf("Policy = %v, want queue", sc.Policy)
	}
	if sc.Metrics == nil || sc.Gatherer == nil {
		t.Error("metrics enabled but not configured")
	}

	cfg.Metrics.Enabled = false
	if sc := serverConfig(cfg); sc.Metrics != nil || sc.Gatherer != nil {
		t.Error("metrics disabled but configured")
	}
}

func TestRootCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version short", []string{"version", "--short"}, "dev\n"},
		{"render demo", []string{"render", "--budget", "5", "--config", t.TempDir()}, `<div id="foo"><a>bar</a><b></b></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var b bytes.Buffer
	printError(&b, errors.New(errors.CodeCLIInput).WithDetail("bad input"))
	if !strings.Contains(b.String(), "E200") {
		t.Errorf("printError() = %q, want code E200", b.String())
	}

	b.Reset()
	printError(&b, os.ErrNotExist)
	if !strings.Contains(b.String(), "Error: file does not exist") {
		t.Errorf("printError() = %q", b.String())
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("isTerminal(buffer) = true, want false")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("isTerminal(regular file) = true, want false")
	}
}
