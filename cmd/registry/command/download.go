package command

import (
	"fmt"

	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/module/registry/download"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/printer"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var downloadColumns = printer.ColumnMapping{
	{"purl", "Package"},
	{"status", "Status"},
	{"path", "Path"},
	{"size", "Size"},
	{"error", "Error"},
}

func NewDownloadCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <purl>...",
		Short: "Download packages from their registries",
		Long: heredoc.Doc(`
			Download one or more packages identified by package URLs.

			A purl without a version downloads the newest version. A version
			containing '*' downloads every version matching the pattern.
		`),
		Example: heredoc.Doc(`
			oss-download download pkg:cran/ggplot2@3.4.4
			oss-download download pkg:maven/org.apache.commons/commons-lang3@3.14.0
			oss-download download --extract -d ./pkgs pkg:npm/%40angular/core pkg:pypi/requests@2.*
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.Config()
			if err != nil {
				return err
			}

			opts := download.Options{
				Extract:     cfg.Download.Extract,
				Concurrency: cfg.Download.Concurrency,
			}
			if cmd.Flags().Changed("extract") {
				opts.Extract = config.Global.Extract
			}
			if cmd.Flags().Changed("concurrency") {
				opts.Concurrency = config.Global.Concurrency
			}
			// bars of concurrent downloads would overwrite each other
			if len(args) > 1 && opts.Concurrency != 1 {
				f.Terminal.ProgressEnabled = false
			}

			svc, err := f.Service()
			if err != nil {
				return err
			}

			results, runErr := svc.Download(cmd.Context(), args, opts)
			if err := printer.Print(cmd.OutOrStdout(), config.Global.Format, results, downloadColumns); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			missing := 0
			for _, r := range results {
				if r.Status != types.StatusFound {
					missing++
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d package(s) could not be downloaded", missing, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&config.Global.DownloadDir, "download-directory", "d", "",
		"Directory to store downloads in (overrides config, default current directory)")
	cmd.Flags().BoolVarP(&config.Global.Extract, "extract", "x", false,
		"Extract archives instead of storing them as downloaded")
	cmd.Flags().IntVarP(&config.Global.Concurrency, "concurrency", "c", 0,
		"Number of packages downloaded in parallel (0 uses one per CPU)")

	return cmd
}
