package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradestate/pkg/pagecache"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

func newDraftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage in-progress form drafts",
		Long:  fmt.Sprintf("Read, write and clear form drafts. Known forms: %v.", types.FormTypes()),
	}
	cmd.AddCommand(newDraftGetCmd(a), newDraftSetCmd(a), newDraftClearCmd(a))
	return cmd
}

func parseFormType(arg string) (types.FormType, error) {
	ft := types.FormType(arg)
	if !ft.Valid() {
		return "", userError("unknown form %q (known: %v)", arg, types.FormTypes())
	}
	return ft, nil
}

func newDraftGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FORM",
		Short: "Print the draft of a form (null when there is none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := parseFormType(args[0])
			if err != nil {
				return err
			}
			return a.withEngine(func(engine *pagecache.Engine) error {
				return writeJSON(cmd.OutOrStdout(), engine.Draft(ft))
			})
		},
	}
}

func newDraftSetCmd(a *app) *cobra.Command {
	var (
		data  string
		merge bool
	)
	cmd := &cobra.Command{
		Use:   "set FORM --data JSON",
		Short: "Replace the draft of a form",
		Long: "Replace the draft of a form with the JSON object given with --data.\n" +
			"With --merge the object is deep-merged into the existing draft instead:\n" +
			"objects merge, arrays and scalars replace, null removes a field.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := parseFormType(args[0])
			if err != nil {
				return err
			}
			var rec types.Record
			if err := decodeData(data, &rec); err != nil {
				return err
			}
			return a.withEngine(func(engine *pagecache.Engine) error {
				if merge {
					rec = types.MergeRecord(engine.Draft(ft), rec)
				}
				engine.UpdateDraft(ft, rec)
				if engine.Degraded() {
					return sysError("draft kept in memory only: storage write failed")
				}
				return writeJSON(cmd.OutOrStdout(), engine.Draft(ft))
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON object with the draft fields")
	cmd.Flags().BoolVar(&merge, "merge", false, "deep-merge into the existing draft")
	return cmd
}

func newDraftClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear FORM",
		Short: "Remove the draft of a form after a successful submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := parseFormType(args[0])
			if err != nil {
				return err
			}
			return a.withEngine(func(engine *pagecache.Engine) error {
				engine.ClearDraft(ft)
				if !a.flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "draft %s cleared\n", ft)
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), map[string]string{"cleared": string(ft)})
			})
		},
	}
}
