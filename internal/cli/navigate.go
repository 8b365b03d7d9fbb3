package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradestate/internal/navigation"
	"github.com/mesh-intelligence/tradestate/pkg/pagecache"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// step is one navigation event parsed from a page[:entity] argument. After
// navigating, Entity holds the entity the page was scoped to.
type step struct {
	Page   types.PageKey  `json:"page"`
	Entity types.EntityID `json:"entity,omitempty"`
}

// stepResult is the JSON form of one navigation.
type stepResult struct {
	step
	Path          []types.PageKey           `json:"path"`
	Abandoned     []types.PageKey           `json:"abandoned,omitempty"`
	SiblingSwitch *navigation.SiblingSwitch `json:"siblingSwitch,omitempty"`
	NoOp          bool                      `json:"noop,omitempty"`
}

func parseStep(arg string) (step, error) {
	page, entity, _ := strings.Cut(arg, ":")
	if page == "" {
		return step{}, userError("invalid step %q: empty page", arg)
	}
	return step{Page: types.PageKey(page), Entity: types.EntityID(entity)}, nil
}

func newNavigateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate STEP...",
		Short: "Navigate through pages, evicting abandoned state",
		Long: "Run navigation events in order. Each STEP is a page key, optionally followed\n" +
			"by :ENTITY for keyed pages (for example contractDetail:c1). The path starts\n" +
			"empty on every invocation; evictions are written to the durable medium.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := make([]step, 0, len(args))
			for _, arg := range args {
				s, err := parseStep(arg)
				if err != nil {
					return err
				}
				steps = append(steps, s)
			}

			return a.withEngine(func(engine *pagecache.Engine) error {
				results := make([]stepResult, 0, len(steps))
				for _, s := range steps {
					tr := engine.Navigate(s.Page, s.Entity)
					_, s.Entity = engine.Current()
					results = append(results, stepResult{
						step:          s,
						Path:          tr.NewPath,
						Abandoned:     tr.Abandoned,
						SiblingSwitch: tr.SiblingSwitch,
						NoOp:          tr.NoOp,
					})
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				for _, r := range results {
					fmt.Fprintln(cmd.OutOrStdout(), formatResult(r))
				}
				return nil
			})
		},
	}
}

func formatResult(r stepResult) string {
	parts := make([]string, len(r.Path))
	for i, p := range r.Path {
		parts[i] = string(p)
	}
	line := strings.Join(parts, " > ")
	if r.Entity != "" {
		line += " [" + string(r.Entity) + "]"
	}
	switch {
	case r.NoOp:
		line += "  (no change)"
	case r.SiblingSwitch != nil:
		line += fmt.Sprintf("  (reset %s and %s)", r.SiblingSwitch.From, r.SiblingSwitch.To)
	case len(r.Abandoned) > 0:
		abandoned := make([]string, len(r.Abandoned))
		for i, p := range r.Abandoned {
			abandoned[i] = string(p)
		}
		line += "  (left " + strings.Join(abandoned, ", ") + ")"
	}
	return line
}
