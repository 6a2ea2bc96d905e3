package planner_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

func orderModel() model.Model {
	return model.Model{
		Name:   "Order",
		App:    "shop",
		Module: "shop.models",
		Fields: []model.Field{
			{Name: "id", Kind: "AutoField"},
			{Name: "code", Kind: "CharField", Editable: true, Unique: true, MaxLength: 12},
			{Name: "total", Kind: "DecimalField", Editable: true, MaxDigits: 10, DecimalPlaces: 2},
			{Name: "status", Kind: "PositiveSmallIntegerField", Editable: true, Choices: []model.Choice{
				{Value: int64(1), Label: "Pending"},
				{Value: int64(2), Label: "Shipped"},
			}},
			{Name: "customer", Kind: "ForeignKey", Editable: true, Related: &model.Ref{App: "crm", Model: "Customer"}},
			{Name: "created", Kind: "DateTimeField", Editable: true},
			{Name: "updated", Kind: "DateTimeField"},
		},
	}
}

func newPlanner(t *testing.T, options ...planner.Option) *planner.Planner {
	t.Helper()
	renderer, err := emitter.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p, err := planner.New(append([]planner.Option{planner.WithRenderer(renderer)}, options...)...)
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	return p
}

func fieldNames(plan planner.Plan) []string {
	names := make([]string, 0, len(plan.Fields))
	for _, entry := range plan.Fields {
		names = append(names, entry.Field.Name)
	}
	return names
}

func TestPlanOrder(t *testing.T) {
	plan, err := newPlanner(t).Plan(orderModel())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if diff := cmp.Diff([]string{"code", "total", "status", "customer", "created"}, fieldNames(plan)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	args := map[string]string{}
	kinds := map[string]string{}
	for _, entry := range plan.Fields {
		args[entry.Field.Name] = entry.Arguments()
		kinds[entry.Field.Name] = entry.Kind
	}
	wantArgs := map[string]string{
		"code":     "provider='pystr', max_chars=12",
		"total":    "provider='pydecimal', left_digits=8, right_digits=2, positive=None",
		"status":   "provider='random_element', elements=STATUS_CHOICES",
		"customer": "factory='model_factories.crm.CustomerFactory'",
		"created":  "provider='date_time', end_datetime=None, tzinfo=timezone.get_current_timezone()",
	}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}
	if kinds["status"] != strategy.KindChoice {
		t.Fatalf("expected status to classify as %s, got %s", strategy.KindChoice, kinds["status"])
	}

	if diff := cmp.Diff([]string{"code"}, plan.Unique); diff != "" {
		t.Fatalf("unique mismatch (-want +got):\n%s", diff)
	}
	if got := plan.UniqueKwargs(); got != "'code'," {
		t.Fatalf("unexpected unique kwargs %q", got)
	}
	if !plan.NeedsTimezone {
		t.Fatalf("expected plan to need timezone")
	}
	wantImports := []string{
		"from django.utils import timezone",
		"from shop.models import Order",
	}
	if diff := cmp.Diff(wantImports, plan.Imports); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}

	block, ok := plan.Choice("status")
	if !ok {
		t.Fatalf("expected status choice block")
	}
	wantBlock := "STATUS_CHOICES = (\n    1,  # Pending\n    2,  # Shipped\n)"
	if block.Symbol != "STATUS_CHOICES" || block.Source != wantBlock {
		t.Fatalf("unexpected choice block %+v", block)
	}
}

func TestPlanWithoutUniqueOrTimezone(t *testing.T) {
	m := model.Model{
		Name: "Tag",
		App:  "blog",
		Fields: []model.Field{
			{Name: "label", Kind: "SlugField", Editable: true},
		},
	}
	plan, err := newPlanner(t).Plan(m)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.NeedsTimezone || plan.UniqueKwargs() != "" {
		t.Fatalf("unexpected plan flags %+v", plan)
	}
	if diff := cmp.Diff([]string{"from blog.models import Tag"}, plan.Imports); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanChoicesWinOverRelation(t *testing.T) {
	m := model.Model{
		Name: "Ticket",
		App:  "desk",
		Fields: []model.Field{
			{Name: "owner", Kind: "ForeignKey", Editable: true, Related: &model.Ref{Model: "User"}, Choices: []model.Choice{
				{Value: "a", Label: "Alice"},
			}},
		},
	}
	plan, err := newPlanner(t).Plan(m)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := plan.Fields[0].StrategyID; got != strategy.BuiltinPrefix+strategy.KindChoice {
		t.Fatalf("expected choice strategy, got %s", got)
	}
	block, _ := plan.Choice("owner")
	if block.Source != "OWNER_CHOICES = (\n    'a',  # Alice\n)" {
		t.Fatalf("unexpected choice block %q", block.Source)
	}
}

func TestPlanUnknownKind(t *testing.T) {
	m := model.Model{
		Name:   "Place",
		App:    "geo",
		Fields: []model.Field{{Name: "area", Kind: "PolygonField", Editable: true}},
	}
	_, err := newPlanner(t).Plan(m)
	if err == nil {
		t.Fatalf("expected unknown kind error")
	}
	var lookup *strategy.LookupError
	if !errors.As(err, &lookup) {
		t.Fatalf("expected LookupError, got %T: %v", err, err)
	}
	if lookup.Kind != "PolygonField" || lookup.Model != "geo.Place" || lookup.Field != "area" {
		t.Fatalf("unexpected lookup error %+v", lookup)
	}
	if !errors.Is(err, strategy.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestPlanParameterFailure(t *testing.T) {
	m := model.Model{
		Name:   "Item",
		App:    "shop",
		Fields: []model.Field{{Name: "name", Kind: "CharField", Editable: true}},
	}
	_, err := newPlanner(t).Plan(m)
	if err == nil {
		t.Fatalf("expected parameter error")
	}
	if errors.Is(err, strategy.ErrUnknownKind) {
		t.Fatalf("parameter failure must not look like an unknown kind: %v", err)
	}
	if !strings.Contains(err.Error(), "shop.Item.name") {
		t.Fatalf("expected error to name the field, got %v", err)
	}
}

func TestPlanAliasesAndIgnores(t *testing.T) {
	m := model.Model{
		Name: "Invoice",
		App:  "billing",
		Fields: []model.Field{
			{Name: "amount", Kind: "MoneyField", Editable: true, MaxDigits: 12, DecimalPlaces: 2},
			{Name: "legacy", Kind: "TextField", Editable: true},
			{Name: "stamp", Kind: "DateField"},
		},
	}
	p := newPlanner(t,
		planner.WithClassifier(planner.NewClassifier(map[string]string{"MoneyField": "DecimalField"})),
		planner.WithIgnoreKinds("TextField"),
		planner.WithIgnoreNonEditable(false),
	)
	plan, err := p.Plan(m)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if diff := cmp.Diff([]string{"amount", "stamp"}, fieldNames(plan)); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if plan.Fields[0].Kind != "DecimalField" {
		t.Fatalf("expected alias to apply, got %s", plan.Fields[0].Kind)
	}
}

func TestPlanRequiresRendererForChoices(t *testing.T) {
	p, err := planner.New()
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	_, err = p.Plan(orderModel())
	if !errors.Is(err, planner.ErrRendererRequired) {
		t.Fatalf("expected ErrRendererRequired, got %v", err)
	}
}

func TestPlanCustomRegistry(t *testing.T) {
	reg, err := strategy.NewDefaultRegistry(nil, map[string]string{"SlugField": "builtin.TextField"})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m := model.Model{
		Name:   "Tag",
		App:    "blog",
		Fields: []model.Field{{Name: "slug", Kind: "SlugField", Editable: true}},
	}
	plan, err := newPlanner(t, planner.WithRegistry(reg), planner.WithRootPackage("tests.factories")).Plan(m)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := plan.Fields[0].Arguments(); got != "provider='text'" {
		t.Fatalf("unexpected arguments %q", got)
	}
}
