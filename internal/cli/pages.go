package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// pageInfo is the JSON form of one hierarchy node.
type pageInfo struct {
	Key         types.PageKey   `json:"key"`
	Kind        types.PageKind  `json:"kind"`
	Level       int             `json:"level"`
	Ancestors   []types.PageKey `json:"ancestors"`
	Independent bool            `json:"independent"`
}

func newPagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the page hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := hierarchy.Default()
			var infos []pageInfo
			for _, p := range h.Pages() {
				infos = append(infos, pageInfo{
					Key:         p.Key,
					Kind:        h.Kind(p.Key),
					Level:       h.Level(p.Key),
					Ancestors:   h.Ancestors(p.Key),
					Independent: h.IsIndependentTop(p.Key),
				})
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PAGE\tKIND\tLEVEL\tANCESTORS\tINDEPENDENT")
			for _, info := range infos {
				ancestors := "-"
				if len(info.Ancestors) > 0 {
					parts := make([]string, len(info.Ancestors))
					for i, anc := range info.Ancestors {
						parts[i] = string(anc)
					}
					ancestors = strings.Join(parts, " > ")
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\n", info.Key, info.Kind, info.Level, ancestors, info.Independent)
			}
			return tw.Flush()
		},
	}
}
