package cli

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/config"
	"github.com/causa-hse/causa/internal/investigation"
	"github.com/causa-hse/causa/internal/labels"
)

func captureStdout(fn func() error) (string, error) {
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = old

	data, readErr := io.ReadAll(r)
	_ = r.Close()
	if readErr != nil {
		return "", readErr
	}
	return string(data), runErr
}

// setupWorkspace runs the test inside a fresh working directory with an
// isolated home directory and a fixed clock.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})

	home := t.TempDir()
	t.Cleanup(config.SetUserHomeDirForTest(func() (string, error) {
		return home, nil
	}))

	oldNow := now
	now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = oldNow })
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := captureStdout(func() error { return Run(args) })
	if err != nil {
		t.Fatalf("Run(%v): %v\noutput:\n%s", args, err, out)
	}
	return out
}

// buildFallTree creates: 1 final event <- 2 unusual fact <- 3 root cause.
func buildFallTree(t *testing.T) {
	t.Helper()
	run(t, "init", "--incident", "INC-7")
	run(t, "add", "final_event", "Fall from platform")
	run(t, "add", "unusual_fact", "Harness not anchored", "--cause-of", "1")
	run(t, "add", "--cause-of", "2", "root_cause", "Work at height not planned")
}

func TestRunHelpCommand(t *testing.T) {
	output, err := captureStdout(func() error {
		return Run([]string{"help"})
	})
	if err != nil {
		t.Fatalf("Run(help) returned error: %v", err)
	}
	if !strings.Contains(output, "Usage:") || !strings.Contains(output, "causa rut check|format|dv") {
		t.Errorf("unexpected help output: %q", output)
	}
}

func TestRunUsageErrors(t *testing.T) {
	setupWorkspace(t)
	cases := [][]string{
		{},
		{"frobnicate"},
		{"show"},
		{"add", "final_event"},
		{"add", "bogus_type", "fact"},
		{"validate", "extra"},
		{"levels", "--nope"},
		{"rut", "check"},
		{"rut", "explain", "1"},
		{"export", "--format", "docx"},
		{"config", "set", "api.timeoutSeconds", "never"},
		{"config", "unset", "nope"},
	}
	for _, args := range cases {
		_, err := captureStdout(func() error { return Run(args) })
		var ue UsageError
		if !errors.As(err, &ue) {
			t.Fatalf("Run(%v) = %v, want UsageError", args, err)
		}
	}
}

func TestMissingTreeSuggestsInit(t *testing.T) {
	setupWorkspace(t)
	_, err := captureStdout(func() error { return Run([]string{"levels"}) })
	if err == nil || !strings.Contains(err.Error(), "causa init") {
		t.Fatalf("expected init hint, got %v", err)
	}
}

func TestTreeCommandsFlow(t *testing.T) {
	dir := setupWorkspace(t)
	buildFallTree(t)

	if out := run(t, "init"); !strings.Contains(out, "tree already exists") {
		t.Fatalf("second init output = %q", out)
	}
	if out := run(t, "validate"); strings.TrimSpace(out) != "OK" {
		t.Fatalf("validate output = %q", out)
	}

	levels := run(t, "levels")
	final := strings.Index(levels, "Fall from platform")
	harness := strings.Index(levels, "Harness not anchored")
	root := strings.Index(levels, "Work at height not planned")
	if !(final >= 0 && final < harness && harness < root) {
		t.Fatalf("levels out of order:\n%s", levels)
	}
	if !strings.Contains(levels, "Evento final") || !strings.Contains(levels, "NIVEL") {
		t.Fatalf("expected Spanish labels:\n%s", levels)
	}

	show := run(t, "show", "2")
	for _, want := range []string{
		"Numero: 2",
		"Level: 1",
		"CreatedAt: 2026-03-01T09:00:00Z",
		"- 3 [root_cause] Work at height not planned",
		"- 1 [final_event] Fall from platform",
	} {
		if !strings.Contains(show, want) {
			t.Fatalf("show missing %q:\n%s", want, show)
		}
	}

	run(t, "link", "1", "3")
	tree, err := causal.Load(filepath.Join(dir, causal.DefaultTreeFilename))
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	finalNode, _ := causal.ResolveRef(tree, "1")
	if len(finalNode.ParentNodes) != 2 {
		t.Fatalf("final causes = %v, want 2", finalNode.ParentNodes)
	}

	_, err = captureStdout(func() error { return Run([]string{"link", "3", "1"}) })
	if !errors.Is(err, causal.ErrFinalEventCause) {
		t.Fatalf("linking the final event as a cause = %v", err)
	}

	run(t, "unlink", "1", "3")
	run(t, "remove", "2")
	show = run(t, "show", "3")
	if !strings.Contains(show, "Level: 0") {
		t.Fatalf("orphaned root cause should fall to level 0:\n%s", show)
	}

	levels = run(t, "levels")
	if !strings.Contains(levels, "Nodos sin conexión al evento final: 3") {
		t.Fatalf("expected unreachable note:\n%s", levels)
	}

	if out := run(t, "renumber"); !strings.Contains(out, "renumbered 2 nodes") {
		t.Fatalf("renumber output = %q", out)
	}
	if out := run(t, "show", "2"); !strings.Contains(out, "Work at height not planned") {
		t.Fatalf("renumber should close the gap:\n%s", out)
	}
}

func TestValidateReportsErrors(t *testing.T) {
	setupWorkspace(t)
	run(t, "init")

	out, err := captureStdout(func() error { return Run([]string{"validate"}) })
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "invalid tree") || !strings.Contains(out, "final_event") {
		t.Fatalf("validate output = %q", out)
	}
}

func TestTreeFlagSelectsYAMLFile(t *testing.T) {
	dir := setupWorkspace(t)
	run(t, "init", "--tree", "fall.yaml")
	run(t, "add", "--tree", "fall.yaml", "final_event", "Fall")

	b, err := os.ReadFile(filepath.Join(dir, "fall.yaml"))
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if !strings.Contains(string(b), "nodeType: final_event") {
		t.Fatalf("expected YAML tree:\n%s", b)
	}
	if _, err := os.Stat(filepath.Join(dir, causal.DefaultTreeFilename)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("default tree file should not exist, stat err = %v", err)
	}
}

func TestRUTCommands(t *testing.T) {
	setupWorkspace(t)

	if out := run(t, "rut", "check", "12345678-5"); strings.TrimSpace(out) != "OK 12.345.678-5" {
		t.Fatalf("check output = %q", out)
	}
	if out := run(t, "rut", "format", "123456785"); strings.TrimSpace(out) != "12.345.678-5" {
		t.Fatalf("format output = %q", out)
	}
	if out := run(t, "rut", "dv", "12.345.678"); strings.TrimSpace(out) != "5" {
		t.Fatalf("dv output = %q", out)
	}
	if out := run(t, "rut", "dv", "10000013"); strings.TrimSpace(out) != "K" {
		t.Fatalf("dv output = %q", out)
	}
	if out := run(t, "rut", "check", "１２．３４５．６７８－５"); strings.TrimSpace(out) != "OK 12.345.678-5" {
		t.Fatalf("check full-width output = %q", out)
	}

	_, err := captureStdout(func() error { return Run([]string{"rut", "check", "12.345.678-9"}) })
	if err == nil || err.Error() != "RUT inválido" {
		t.Fatalf("check invalid = %v", err)
	}

	run(t, "config", "set", "export.locale", "en")
	_, err = captureStdout(func() error { return Run([]string{"rut", "check", "1-9"}) })
	if err == nil || err.Error() != "RUT is too short" {
		t.Fatalf("check short (en) = %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := setupWorkspace(t)
	buildFallTree(t)

	out := run(t, "export", "--format", "csv")
	if !strings.HasPrefix(out, "section,ref,level,type,text,causes,responsible,due_date,status\n") {
		t.Fatalf("csv output = %q", out)
	}
	if !strings.Contains(out, "Work at height not planned") {
		t.Fatalf("csv missing node:\n%s", out)
	}

	outPath := filepath.Join(dir, "report.md")
	if msg := run(t, "export", "--out", outPath); !strings.Contains(msg, "wrote "+outPath) {
		t.Fatalf("export message = %q", msg)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "### Nivel 2") {
		t.Fatalf("markdown export missing levels:\n%s", b)
	}

	_, err = captureStdout(func() error { return Run([]string{"export", "--doc", "missing.json"}) })
	if err == nil || !strings.Contains(err.Error(), "document not found") {
		t.Fatalf("missing doc = %v", err)
	}
}

func TestExportUsesDocumentAndConfiguredFormat(t *testing.T) {
	dir := setupWorkspace(t)
	buildFallTree(t)

	doc := investigation.NewDocument(investigation.Incident{
		ID:         "INC-7",
		Title:      "Caída de altura",
		Category:   labels.CategoryAccident,
		OccurredAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	})
	if err := investigation.SaveAtomic(filepath.Join(dir, investigation.DefaultDocumentFilename), doc); err != nil {
		t.Fatalf("save doc: %v", err)
	}

	run(t, "config", "set", "export.format", "html")
	out := run(t, "export")
	if !strings.Contains(out, "<html") || !strings.Contains(out, "Caída de altura") {
		t.Fatalf("html export = %q", out)
	}
	if !strings.Contains(out, "Fall from platform") {
		t.Fatalf("document without a tree should pick up the tree file:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := setupWorkspace(t)

	run(t, "config", "set", "api.timeoutSeconds", "45")
	run(t, "config", "set", "--global", "logging.level", "info")

	if _, err := os.Stat(filepath.Join(dir, ".causa", "config.json")); err != nil {
		t.Fatalf("project config not written: %v", err)
	}

	out := run(t, "config")
	if !strings.Contains(out, `"timeoutSeconds": 45`) || !strings.Contains(out, `"level": "info"`) {
		t.Fatalf("config output = %s", out)
	}

	list := run(t, "config", "list")
	for _, want := range []string{"api.timeoutSeconds", "local", "global", "default"} {
		if !strings.Contains(list, want) {
			t.Fatalf("config list missing %q:\n%s", want, list)
		}
	}

	run(t, "config", "unset", "api.timeoutSeconds")
	if out := run(t, "config"); !strings.Contains(out, `"timeoutSeconds": 30`) {
		t.Fatalf("unset should restore default: %s", out)
	}
}

func TestFetchCommand(t *testing.T) {
	dir := setupWorkspace(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/incidents/INC-9":
			_, _ = w.Write([]byte(`{"id":"INC-9","title":"Forklift collision","occurredAt":"2026-01-20T08:00:00Z"}`))
		case "/incidents/INC-9/causal-tree":
			_, _ = w.Write([]byte(`{"nodes":[
				{"id":"n1","numero":1,"nodeType":"final_event","fact":"Collision","parentNodes":["n2"]},
				{"id":"n2","numero":2,"nodeType":"unusual_fact","fact":"Speeding"}
			]}`))
		case "/incidents/INC-9/actions":
			_, _ = w.Write([]byte(`{"actions":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	_, err := captureStdout(func() error { return Run([]string{"fetch", "INC-9"}) })
	if err == nil || !strings.Contains(err.Error(), "api.baseUrl") {
		t.Fatalf("fetch without base URL = %v", err)
	}

	run(t, "config", "set", "api.baseUrl", srv.URL)
	run(t, "config", "set", "api.tokenEnv", "CAUSA_TEST_TOKEN")
	t.Setenv("CAUSA_TEST_TOKEN", "tok-1")

	out := run(t, "fetch", "INC-9")
	if !strings.Contains(out, "fetched INC-9: 2 nodes, 0 actions") {
		t.Fatalf("fetch output = %q", out)
	}

	tree, err := causal.Load(filepath.Join(dir, causal.DefaultTreeFilename))
	if err != nil {
		t.Fatalf("load fetched tree: %v", err)
	}
	if len(causal.Validate(tree)) != 0 || tree.IncidentID != "INC-9" {
		t.Fatalf("fetched tree = %+v", tree)
	}
	doc, err := investigation.Load(filepath.Join(dir, investigation.DefaultDocumentFilename))
	if err != nil {
		t.Fatalf("load fetched doc: %v", err)
	}
	if doc.Incident.Title != "Forklift collision" || doc.CausalTree == nil {
		t.Fatalf("fetched doc = %+v", doc)
	}

	t.Setenv("CAUSA_TEST_TOKEN", "")
	_, err = captureStdout(func() error { return Run([]string{"fetch", "INC-9"}) })
	if err == nil || !strings.Contains(err.Error(), "CAUSA_TEST_TOKEN") {
		t.Fatalf("fetch without token = %v", err)
	}
}

func TestTUICommandLoadsTree(t *testing.T) {
	setupWorkspace(t)
	buildFallTree(t)

	var got causal.Tree
	var gotLocale labels.Locale = -1
	old := startTUI
	startTUI = func(tree causal.Tree, l labels.Locale) error {
		got = tree
		gotLocale = l
		return nil
	}
	t.Cleanup(func() { startTUI = old })

	run(t, "tui")
	if len(got.Nodes) != 3 || gotLocale != labels.Spanish {
		t.Fatalf("tui got %d nodes, locale %v", len(got.Nodes), gotLocale)
	}
}

// syncCounter is a no-op core that counts Sync calls, including those made
// through child loggers.
type syncCounter struct {
	zapcore.Core
	syncs *int
}

func (c syncCounter) With(fields []zapcore.Field) zapcore.Core {
	return syncCounter{Core: c.Core.With(fields), syncs: c.syncs}
}

func (c syncCounter) Sync() error {
	*c.syncs++
	return nil
}

func TestCommandsSyncTheirLogger(t *testing.T) {
	setupWorkspace(t)
	buildFallTree(t)

	syncs := 0
	oldLogger := newLogger
	newLogger = func(string, string) (*zap.Logger, error) {
		return zap.New(syncCounter{Core: zapcore.NewNopCore(), syncs: &syncs}), nil
	}
	t.Cleanup(func() { newLogger = oldLogger })
	oldTUI := startTUI
	startTUI = func(causal.Tree, labels.Locale) error { return nil }
	t.Cleanup(func() { startTUI = oldTUI })

	cases := [][]string{
		{"levels"},
		{"export", "--format", "csv"},
		{"rut", "check", "12.345.678-5"},
		{"config"},
		{"tui"},
	}
	for _, args := range cases {
		before := syncs
		run(t, args...)
		if syncs != before+1 {
			t.Fatalf("%v: logger synced %d times, want 1", args, syncs-before)
		}
	}

	before := syncs
	if _, err := captureStdout(func() error { return Run([]string{"fetch", "INC-7"}) }); err == nil {
		t.Fatal("fetch without api.baseUrl should fail")
	}
	if syncs != before+1 {
		t.Fatalf("fetch: logger synced %d times, want 1", syncs-before)
	}
}

func TestParseArgsInterspersed(t *testing.T) {
	fs := newFlagSet("test")
	var list stringList
	fs.Var(&list, "cause-of", "")
	tree := treeFlag(fs)

	pos, err := parseArgs(fs, []string{"a", "--cause-of", "1", "b", "--tree", "x.json", "--cause-of", "2"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if strings.Join(pos, ",") != "a,b" || strings.Join(list, ",") != "1,2" || *tree != "x.json" {
		t.Fatalf("pos=%v list=%v tree=%q", pos, list, *tree)
	}
}
