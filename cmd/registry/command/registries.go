package command

import (
	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/util/common/printer"

	"github.com/spf13/cobra"
)

type registryRow struct {
	Type     string `json:"type"`
	Endpoint string `json:"endpoint"`
}

func NewRegistriesCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registries",
		Aliases: []string{"reg"},
		Short:   "List supported registries and the endpoints in use",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := f.Service()
			if err != nil {
				return err
			}

			var rows []registryRow
			for _, t := range adapter.RegisteredTypes() {
				a, err := svc.AdapterFor(cmd.Context(), t)
				if err != nil {
					return err
				}
				rows = append(rows, registryRow{Type: string(t), Endpoint: a.Endpoint()})
			}
			return printer.Print(cmd.OutOrStdout(), config.Global.Format, rows,
				printer.ColumnMapping{{"type", "Type"}, {"endpoint", "Endpoint"}})
		},
	}

	return cmd
}
