package command

import (
	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/printer"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

type versionRow struct {
	Purl    string `json:"purl"`
	Version string `json:"version"`
}

func NewVersionsCmd(f *cmdutils.Factory) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "versions <purl>",
		Short: "List the published versions of a package",
		Long:  "List every version a registry knows for a package, newest first.",
		Example: heredoc.Doc(`
			oss-download versions pkg:cran/ggplot2
			oss-download versions --limit 5 pkg:golang/github.com/rs/zerolog
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := f.Service()
			if err != nil {
				return err
			}

			id, versions, err := svc.Versions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if limit > 0 && len(versions) > limit {
				versions = versions[:limit]
			}

			rows := make([]versionRow, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, versionRow{Purl: types.Describe(types.WithVersion(id, v)), Version: v})
			}
			return printer.Print(cmd.OutOrStdout(), config.Global.Format, rows,
				printer.ColumnMapping{{"version", "Version"}, {"purl", "Package"}})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many versions (0 shows all)")

	return cmd
}
