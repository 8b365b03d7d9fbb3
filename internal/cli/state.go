package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradestate/pkg/pagecache"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

func newStateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Read and update cached page state",
	}
	cmd.AddCommand(newStateGetCmd(a), newStateSetCmd(a))
	return cmd
}

// pageArgs parses PAGE [ENTITY] and checks the entity against the page kind.
func pageArgs(engine *pagecache.Engine, args []string) (types.PageKey, types.EntityID, types.PageKind, error) {
	page := types.PageKey(args[0])
	var id types.EntityID
	if len(args) > 1 {
		id = types.EntityID(args[1])
	}
	kind := engine.Hierarchy().Kind(page)
	switch {
	case kind.Keyed() && id == "":
		return "", "", "", userError("page %s is a %s page and needs an ENTITY", page, kind)
	case !kind.Keyed() && id != "":
		return "", "", "", userError("page %s is a list page and takes no ENTITY", page)
	}
	return page, id, kind, nil
}

func newStateGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PAGE [ENTITY]",
		Short: "Print the cached state of a page",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(engine *pagecache.Engine) error {
				page, id, _, err := pageArgs(engine, args)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), engine.KeyedState(page, id))
			})
		},
	}
}

func newStateSetCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "set PAGE [ENTITY] --data JSON",
		Short: "Merge a partial update into the cached state of a page",
		Long: "Merge the JSON object given with --data into the cached state of a page.\n" +
			"Fields present in the object replace the stored fields; absent fields are\n" +
			"kept. Sub-resource pages also accept formFields, which is deep-merged into\n" +
			"formData.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(func(engine *pagecache.Engine) error {
				page, id, kind, err := pageArgs(engine, args)
				if err != nil {
					return err
				}

				var result types.PageState
				switch kind {
				case types.KindDetail:
					var patch types.DetailPatch
					if err := decodeData(data, &patch); err != nil {
						return err
					}
					result = engine.UpdateDetailState(page, id, patch)
				case types.KindSubResource:
					var patch types.SubResourcePatch
					if err := decodeData(data, &patch); err != nil {
						return err
					}
					result = engine.UpdateFormState(page, id, patch)
				default:
					var patch types.ListPatch
					if err := decodeData(data, &patch); err != nil {
						return err
					}
					result = engine.UpdateListState(page, patch)
				}

				if engine.Degraded() {
					return sysError("state kept in memory only: storage write failed")
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to update")
	return cmd
}
