package command

import (
	"fmt"

	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/errors"
	"github.com/WS-QA/OSSGadget/util/common/printer"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

type metadataOutput struct {
	Purl string `json:"purl"`
	types.MetadataResult
}

func NewMetadataCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <purl>",
		Short: "Print the registry metadata document of a package",
		Long: heredoc.Doc(`
			Print the metadata document the registry publishes for a package,
			unparsed. Registries keyed by version (maven, pypi, golang) use the
			newest version when the purl has none.
		`),
		Example: heredoc.Doc(`
			oss-download metadata pkg:npm/left-pad
			oss-download metadata --format json pkg:maven/junit/junit@4.13.2
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := f.Service()
			if err != nil {
				return err
			}

			id, res, err := svc.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if config.Global.Format == printer.FormatJSON {
				if err := printer.Print(cmd.OutOrStdout(), printer.FormatJSON,
					metadataOutput{Purl: types.Describe(types.WithVersion(id, res.Version)), MetadataResult: res}, nil); err != nil {
					return err
				}
			} else if res.Found() {
				fmt.Fprintln(cmd.OutOrStdout(), res.Document)
			}

			switch res.Status {
			case types.StatusNoVersion:
				return errors.Wrap(errors.ErrNoVersion, args[0])
			case types.StatusNotFound:
				return errors.Wrap(errors.ErrNotFound, args[0])
			}
			return nil
		},
	}

	return cmd
}
