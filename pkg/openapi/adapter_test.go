package openapi_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/openapi"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

func loadDocument(t *testing.T, name string) schema.Document {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestAdapterCatalog(t *testing.T) {
	doc := loadDocument(t, "shop.yaml")
	adapter := openapi.NewAdapter()
	if !adapter.Detect(doc) {
		t.Fatalf("expected adapter to detect OpenAPI document")
	}

	catalog, err := adapter.Catalog(context.Background(), doc)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	want := model.Catalog{Apps: []model.App{
		{
			Label: "shop",
			Models: []model.Model{
				{
					Name:   "Order",
					App:    "shop",
					Module: "shop.models",
					Fields: []model.Field{
						{Name: "id", Kind: "IntegerField"},
						{Name: "code", Kind: "CharField", Editable: true, Unique: true, MaxLength: 12},
						{Name: "total", Kind: "DecimalField", Editable: true, MaxDigits: 10, DecimalPlaces: 2},
						{Name: "status", Kind: "PositiveIntegerField", Editable: true, Choices: []model.Choice{
							{Value: int64(1), Label: "Pending"},
							{Value: int64(2), Label: "Shipped"},
						}},
						{Name: "placed_at", Kind: "DateTimeField", Editable: true},
						{Name: "customer", Kind: "ForeignKey", Editable: true, Related: &model.Ref{App: "crm", Model: "Customer"}},
						{Name: "items", Kind: "ManyToManyField", Editable: true, Related: &model.Ref{App: "shop", Model: "Product"}},
						{Name: "metadata", Kind: "JSONField", Editable: true},
						{Name: "notes", Kind: "TextField", Editable: true, Null: true},
					},
				},
				{
					Name: "Product",
					App:  "shop",
					Fields: []model.Field{
						{Name: "sku", Kind: "UUIDField", Editable: true},
						{Name: "price", Kind: "FloatField", Editable: true},
					},
				},
			},
		},
		{
			Label: "crm",
			Models: []model.Model{
				{
					Name: "Customer",
					App:  "crm",
					Fields: []model.Field{
						{Name: "email", Kind: "EmailField", Editable: true},
						{Name: "last_ip", Kind: "GenericIPAddressField", Editable: true, Protocol: model.ProtocolIPv4},
					},
				},
			},
		},
	}}

	if diff := cmp.Diff(want, catalog); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterDefaultApp(t *testing.T) {
	doc := loadDocument(t, "shop.yaml")
	catalog, err := openapi.NewAdapter(openapi.WithDefaultApp("store")).Catalog(context.Background(), doc)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if got := catalog.Labels(); !cmp.Equal(got, []string{"store", "crm"}) {
		t.Fatalf("unexpected app labels %v", got)
	}
}

func TestAdapterDetect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "yaml openapi", raw: "openapi: 3.0.0\ninfo: {title: x, version: '1'}\n", want: true},
		{name: "json openapi", raw: `{"openapi":"3.1.0"}`, want: true},
		{name: "manifest", raw: "apps:\n  - label: shop\n", want: false},
		{name: "garbage", raw: "{{{", want: false},
	}
	adapter := openapi.NewAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := schema.MustNewDocument(schema.SourceFromFile("doc"), []byte(tt.raw))
			if got := adapter.Detect(doc); got != tt.want {
				t.Fatalf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdapterRequiresSchemas(t *testing.T) {
	raw := "openapi: 3.0.3\ninfo:\n  title: Empty\n  version: '1'\npaths: {}\n"
	doc := schema.MustNewDocument(schema.SourceFromFile("empty.yaml"), []byte(raw))
	_, err := openapi.NewAdapter().Catalog(context.Background(), doc)
	if err == nil {
		t.Fatalf("expected error for document without schemas")
	}
	if !strings.Contains(err.Error(), "components.schemas") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAdapterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := openapi.NewAdapter().Catalog(ctx, loadDocument(t, "shop.yaml")); err == nil {
		t.Fatalf("expected context error")
	}
}
