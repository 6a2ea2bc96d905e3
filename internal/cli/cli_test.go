package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const manifestYAML = `apps:
  - label: shop
    models:
      - name: Order
        fields:
          - {name: code, kind: CharField, max_length: 12, unique: true}
          - {name: placed, kind: DateTimeField}
`

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	source := writeManifest(t, dir)
	out := filepath.Join(dir, "out")

	stdout, _, err := run(t, "generate", "--source", source, "--base-dir", out, "--log-level", "error")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	override := filepath.Join(out, "model_factories", "shop", "order.py")
	want := "Successfully created factories:\n- " + override + "\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(out, "model_factories", "shop", "base", "order.py")); err != nil {
		t.Fatalf("expected base factory: %v", err)
	}

	// A second run lists the existing override again.
	stdout, _, err = run(t, "generate", "--source", source, "--base-dir", out, "--log-level", "error")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatalf("second summary mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCommandOnlyApps(t *testing.T) {
	dir := t.TempDir()
	source := writeManifest(t, dir)
	out := filepath.Join(dir, "out")

	stdout, _, err := run(t, "generate", "-s", source, "--base-dir", out, "--only-apps", "crm", "--log-level", "error")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stdout != "Successfully created factories:\n" {
		t.Fatalf("unexpected summary %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(out, "model_factories", "shop")); !os.IsNotExist(err) {
		t.Fatalf("expected shop to be skipped, stat err = %v", err)
	}
}

func TestGenerateCommandRequiresSource(t *testing.T) {
	t.Setenv("FACTORYGEN_SOURCE", "")
	_, _, err := run(t, "generate", "--base-dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "source is required") {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestGenerateCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	source := writeManifest(t, dir)
	out := filepath.Join(dir, "out")
	cfg := filepath.Join(dir, "factorygen.yaml")
	content := "source: " + source + "\nbase_dir: " + out + "\nroot_dir: fixtures\nlog_level: error\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _, err := run(t, "generate", "--config", cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stdout, filepath.Join(out, "fixtures", "shop", "order.py")) {
		t.Fatalf("expected configured root in summary, got %q", stdout)
	}
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	source := writeManifest(t, dir)
	out := filepath.Join(dir, "out")

	stdout, _, err := run(t, "plan", "--source", source, "--base-dir", out, "--log-level", "error")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, want := range []string{"- app: shop", "model: shop.Order", "kind: CharField", "strategy: builtin.CharField", "- code"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in plan output:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("plan must not write files, stat err = %v", err)
	}
}

func TestKindsCommand(t *testing.T) {
	stdout, _, err := run(t, "kinds", "--log-level", "error")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.HasPrefix(lines[0], "KIND") {
		t.Fatalf("expected header, got %q", lines[0])
	}
	if !strings.Contains(stdout, "builtin.CharField") {
		t.Fatalf("expected CharField strategy in output:\n%s", stdout)
	}
}

func TestKindsCommandListsStrategies(t *testing.T) {
	stdout, _, err := run(t, "kinds", "--strategies", "--log-level", "error")
	if err != nil {
		t.Fatalf("kinds --strategies: %v", err)
	}
	ids := strings.Split(strings.TrimSpace(stdout), "\n")
	if !slices.IsSorted(ids) {
		t.Fatalf("expected sorted identifiers, got %v", ids)
	}
	for _, want := range []string{"builtin.CharField", "builtin.ChoiceField", "builtin.PointField"} {
		if !slices.Contains(ids, want) {
			t.Fatalf("expected %s in:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "KIND") {
		t.Fatalf("unexpected kinds table in strategy listing:\n%s", stdout)
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, "loud", "text"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
