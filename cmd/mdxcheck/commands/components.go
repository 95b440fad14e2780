package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

// ComponentsCmd implements the 'components' command.
type ComponentsCmd struct {
	Registry string `help:"Component registry file (overrides components.registry)" type:"path"`
	Format   string `short:"f" help:"Output format (text or json)" enum:"text,json" default:"text"`
}

// Run prints the components documents may use.
func (c *ComponentsCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.Settings()
	if err != nil {
		return err
	}
	registry, err := loadRegistry(c.Registry, cfg)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(registry.Specs()); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode registry").Build()
		}
		return nil
	}

	_, err = fmt.Fprintln(g.Out, componentsTable(registry))
	return err
}

func componentsTable(registry *component.Registry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("COMPONENT", "PARAMETER", "TYPE", "REQUIRED", "ALLOWED")

	for _, spec := range registry.Specs() {
		for _, p := range spec.Params {
			t.Row(spec.Name, p.Name, paramType(p), yesNo(p.Required), allowed(p))
		}
		if spec.RequireChildren {
			t.Row(spec.Name, component.ChildrenParam, "content", "yes", "")
		}
		if len(spec.Params) == 0 && !spec.RequireChildren {
			t.Row(spec.Name, "", "", "", "")
		}
	}
	return t.String()
}

func paramType(p component.ParamSpec) string {
	if p.Type == "" {
		return string(component.ParamAny)
	}
	return string(p.Type)
}

func allowed(p component.ParamSpec) string {
	if len(p.Enum) > 0 {
		values := make([]string, len(p.Enum))
		for i, v := range p.Enum {
			values[i] = fmt.Sprint(v)
		}
		return strings.Join(values, ", ")
	}
	if p.Pattern != "" {
		return "/" + p.Pattern + "/"
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
