package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-factorygen/internal/loader"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

const manifest = `{"apps": [{"label": "shop", "models": []}]}`

func TestLoaderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.json")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := loader.New(schema.NewLoaderOptions())
	doc, err := l.Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != manifest {
		t.Fatalf("unexpected payload: %s", doc.Raw())
	}
	if doc.Encoding() != schema.EncodingJSON {
		t.Fatalf("expected json encoding, got %q", doc.Encoding())
	}
}

func TestLoaderFS(t *testing.T) {
	files := fstest.MapFS{
		"fixtures/models.yaml": {Data: []byte("apps:\n  - label: shop\n")},
	}
	l := loader.New(schema.NewLoaderOptions(schema.WithFileSystem(files)))
	doc, err := l.Load(context.Background(), schema.SourceFromFS("fixtures/models.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Encoding() != schema.EncodingYAML {
		t.Fatalf("expected yaml encoding, got %q", doc.Encoding())
	}
}

func TestLoaderFSNotConfigured(t *testing.T) {
	l := loader.New(schema.NewLoaderOptions())
	if _, err := l.Load(context.Background(), schema.SourceFromFS("models.yaml")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoaderHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(manifest))
	}))
	defer server.Close()

	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPClient(server.Client())))
	doc, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/models.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != manifest {
		t.Fatalf("unexpected payload: %s", doc.Raw())
	}

	_, err = l.Load(context.Background(), schema.SourceFromURL(server.URL+"/missing.json"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoaderHTTPDisabled(t *testing.T) {
	l := loader.New(schema.NewLoaderOptions())
	_, err := l.Load(context.Background(), schema.SourceFromURL("https://example.com/models.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestLoaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := loader.New(schema.NewLoaderOptions())
	if _, err := l.Load(ctx, schema.SourceFromFile("does-not-matter.json")); err == nil {
		t.Fatalf("expected context error")
	}
}
