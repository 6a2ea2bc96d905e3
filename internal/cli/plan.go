package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-factorygen/pkg/orchestrator"
)

type planView struct {
	App    string      `yaml:"app"`
	Models []modelView `yaml:"models"`
}

type modelView struct {
	Model   string      `yaml:"model"`
	Imports []string    `yaml:"imports,omitempty"`
	Unique  []string    `yaml:"unique,omitempty"`
	Fields  []fieldView `yaml:"fields"`
}

type fieldView struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Strategy  string `yaml:"strategy"`
	Arguments string `yaml:"arguments,omitempty"`
}

func newPlanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the generation plan without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlan(cmd)
		},
	}
	a.addSourceFlags(cmd)
	return cmd
}

func (a *app) runPlan(cmd *cobra.Command) error {
	req, err := a.request()
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(cmd)
	if err != nil {
		return err
	}
	plans, err := orch.Plan(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to plan factories: %w", err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(planViews(plans)); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}

func planViews(plans []orchestrator.AppPlan) []planView {
	out := make([]planView, 0, len(plans))
	for _, app := range plans {
		view := planView{App: app.Label, Models: []modelView{}}
		for _, plan := range app.Plans {
			m := modelView{
				Model:   plan.Model.Label(),
				Imports: plan.Imports,
				Unique:  plan.Unique,
				Fields:  []fieldView{},
			}
			for _, entry := range plan.Fields {
				m.Fields = append(m.Fields, fieldView{
					Name:      entry.Field.Name,
					Kind:      entry.Kind,
					Strategy:  entry.StrategyID,
					Arguments: entry.Arguments(),
				})
			}
			view.Models = append(view.Models, m)
		}
		out = append(out, view)
	}
	return out
}
