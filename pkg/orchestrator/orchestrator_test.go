package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/orchestrator"
	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/schema"
	"github.com/goliatone/go-factorygen/pkg/strategy"
	"github.com/goliatone/go-factorygen/pkg/testsupport"
)

func newOrchestrator(t *testing.T, dir string, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	e, err := emitter.New(emitter.WithLayout(emitter.Layout{BaseDir: dir}))
	if err != nil {
		t.Fatalf("new emitter: %v", err)
	}
	p, err := planner.New(planner.WithRenderer(e.Renderer()))
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	opts := append([]orchestrator.Option{orchestrator.WithEmitter(e), orchestrator.WithPlanner(p)}, options...)
	return orchestrator.New(opts...)
}

func catalogSource() schema.Source {
	return schema.SourceFromFile(filepath.Join("testdata", "catalog.yaml"))
}

func TestGenerateWritesTree(t *testing.T) {
	dir := t.TempDir()
	orch := newOrchestrator(t, dir)

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Source: catalogSource()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("expected run id")
	}

	root := filepath.Join(dir, "model_factories")
	wantFactories := []string{
		filepath.Join(root, "shop", "order.py"),
		filepath.Join(root, "crm", "customer.py"),
	}
	if diff := cmp.Diff(wantFactories, result.Factories()); diff != "" {
		t.Fatalf("factories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantFactories, result.Created()); diff != "" {
		t.Fatalf("created mismatch (-want +got):\n%s", diff)
	}

	tree := testsupport.ReadTree(t, root)
	wantFiles := []string{
		"__init__.py",
		"crm/__init__.py",
		"crm/base/__init__.py",
		"crm/base/customer.py",
		"crm/customer.py",
		"shop/__init__.py",
		"shop/base/__init__.py",
		"shop/base/order.py",
		"shop/order.py",
	}
	gotFiles := make([]string, 0, len(tree))
	for name := range tree {
		gotFiles = append(gotFiles, name)
	}
	if diff := cmp.Diff(wantFiles, gotFiles, cmpSorted); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if tree["__init__.py"] != "" || tree["shop/base/__init__.py"] != "" {
		t.Fatalf("marker files must be empty")
	}

	wantIndex := "# Generated by factorygen " + emitter.Version + ". Rewritten on every run.\n" +
		"from model_factories.crm.customer import CustomerFactory\n"
	if tree["crm/__init__.py"] != wantIndex {
		t.Fatalf("unexpected crm index:\n%s", tree["crm/__init__.py"])
	}
	customer := tree["crm/base/customer.py"]
	for _, want := range []string{
		"from crm.models import Customer",
		"ROLE_CHOICES = (\n    'a',  # Admin\n    'b',  # User\n)",
		"    role = factory.Faker(provider='random_element', elements=ROLE_CHOICES)",
	} {
		if !strings.Contains(customer, want) {
			t.Fatalf("customer base factory missing %q:\n%s", want, customer)
		}
	}
	if !strings.Contains(tree["shop/base/order.py"], "customer = factory.SubFactory(factory='model_factories.crm.CustomerFactory')") {
		t.Fatalf("order base factory missing sub factory:\n%s", tree["shop/base/order.py"])
	}

	for _, app := range result.Apps {
		if app.Label == "audit" && (app.Index != "" || len(app.Written) > 0) {
			t.Fatalf("empty app must not produce files: %+v", app)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "audit")); !os.IsNotExist(err) {
		t.Fatalf("empty app directory must not exist, stat err=%v", err)
	}
	if result.Bytes() <= 0 {
		t.Fatalf("expected written bytes")
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	orch := newOrchestrator(t, dir)
	ctx := testsupport.Context()
	root := filepath.Join(dir, "model_factories")

	if _, err := orch.Generate(ctx, orchestrator.Request{Source: catalogSource()}); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	first := testsupport.ReadTree(t, root)

	edited := filepath.Join(root, "shop", "order.py")
	custom := first["shop/order.py"] + "    # custom tweak\n"
	if err := os.WriteFile(edited, []byte(custom), 0o644); err != nil {
		t.Fatalf("edit override: %v", err)
	}

	result, err := orch.Generate(ctx, orchestrator.Request{Source: catalogSource()})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if len(result.Created()) != 0 {
		t.Fatalf("second run must not create override files, got %v", result.Created())
	}
	if len(result.Factories()) != 2 {
		t.Fatalf("expected factories to be reported on every run, got %v", result.Factories())
	}

	second := testsupport.ReadTree(t, root)
	first["shop/order.py"] = custom
	if diff := testsupport.CompareGolden(first, second); diff != "" {
		t.Fatalf("second run changed the tree (-want +got):\n%s", diff)
	}
}

func TestGenerateFiltersApps(t *testing.T) {
	tests := []struct {
		name   string
		req    orchestrator.Request
		labels []string
	}{
		{name: "all", req: orchestrator.Request{}, labels: []string{"shop", "crm", "audit"}},
		{name: "only", req: orchestrator.Request{OnlyApps: []string{"crm"}}, labels: []string{"crm"}},
		{name: "ignore", req: orchestrator.Request{IgnoreApps: []string{"crm"}}, labels: []string{"shop", "audit"}},
		{
			name:   "allow list wins",
			req:    orchestrator.Request{OnlyApps: []string{"crm"}, IgnoreApps: []string{"crm"}},
			labels: []string{"crm"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := newOrchestrator(t, t.TempDir())
			tt.req.Source = catalogSource()
			plans, err := orch.Plan(testsupport.Context(), tt.req)
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			labels := make([]string, 0, len(plans))
			for _, plan := range plans {
				labels = append(labels, plan.Label)
			}
			if diff := cmp.Diff(tt.labels, labels); diff != "" {
				t.Fatalf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateWithSelector(t *testing.T) {
	var offered []string
	selector := orchestrator.SelectorFunc(func(_ context.Context, labels []string) ([]string, error) {
		offered = labels
		return []string{"shop"}, nil
	})
	dir := t.TempDir()
	orch := newOrchestrator(t, dir, orchestrator.WithSelector(selector))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:     catalogSource(),
		IgnoreApps: []string{"audit"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"shop", "crm"}, offered); diff != "" {
		t.Fatalf("offered labels mismatch (-want +got):\n%s", diff)
	}
	if len(result.Apps) != 1 || result.Apps[0].Label != "shop" {
		t.Fatalf("expected only shop, got %+v", result.Apps)
	}
}

func TestGenerateUnknownKindAborts(t *testing.T) {
	catalog := model.Catalog{Apps: []model.App{{
		Label: "geo",
		Models: []model.Model{{
			Name:   "Place",
			App:    "geo",
			Fields: []model.Field{{Name: "area", Kind: "PolygonField", Editable: true}},
		}},
	}}}
	dir := t.TempDir()
	_, err := newOrchestrator(t, dir).Generate(testsupport.Context(), orchestrator.Request{Catalog: &catalog})
	if !errors.Is(err, strategy.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "model_factories", "geo", "place.py")); !os.IsNotExist(statErr) {
		t.Fatalf("override must not be written for a failed model, stat err=%v", statErr)
	}
}

func TestGenerateRequiresInput(t *testing.T) {
	orch := newOrchestrator(t, t.TempDir())
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without source")
	}

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "missing.yaml")),
	})
	if err == nil || !strings.Contains(err.Error(), "load document") {
		t.Fatalf("expected load error, got %v", err)
	}

	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	if _, err := orch.Generate(ctx, orchestrator.Request{Source: catalogSource()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCatalogFormatSelection(t *testing.T) {
	orch := newOrchestrator(t, t.TempDir())
	ctx := testsupport.Context()

	if _, err := orch.Catalog(ctx, orchestrator.Request{Source: catalogSource(), Format: "openapi"}); err == nil {
		t.Fatalf("expected openapi adapter to reject a manifest")
	}
	catalog, err := orch.Catalog(ctx, orchestrator.Request{Source: catalogSource(), Format: "MANIFEST"})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"shop", "crm", "audit"}, catalog.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"manifest", "openapi"}, orch.Adapters()); diff != "" {
		t.Fatalf("adapters mismatch (-want +got):\n%s", diff)
	}
}
