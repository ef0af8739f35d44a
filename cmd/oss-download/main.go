package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/cmd/registry"
	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/internal/style"
	"github.com/WS-QA/OSSGadget/internal/terminal"
	"github.com/WS-QA/OSSGadget/util/common/errors"
	"github.com/WS-QA/OSSGadget/util/common/printer"

	"github.com/MakeNowJust/heredoc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	factory := cmdutils.NewFactory()
	rootCmd := newRootCmd(factory)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if factory.Terminal.ColorEnabled {
			fmt.Fprintln(os.Stderr, style.Error.Render("Error: "+err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if errors.Is(err, errors.ErrInvalidArgument) {
			fmt.Fprintln(os.Stderr, style.Hint("package URLs look like pkg:npm/left-pad@1.3.0 or pkg:maven/junit/junit@4.13.2"))
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd(factory *cmdutils.Factory) *cobra.Command {
	var jsonFlag bool

	rootCmd := &cobra.Command{
		Use:           "oss-download",
		Short:         "Download open source packages from their registries",
		SilenceUsage:  true,
		SilenceErrors: true, //prevent duplicate printing of errors
		Long: heredoc.Doc(`
			oss-download fetches packages identified by package URLs (purls)
			from CRAN, Maven Central, npm, PyPI and the Go module proxy.

			Endpoints can be pointed at mirrors with a config file (--config)
			or the ENV_<REGISTRY>_ENDPOINT environment variables.
		`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			termInfo := terminal.Detect(config.Global.NoColor, jsonFlag)
			style.Init(termInfo.ColorEnabled)
			factory.Terminal = termInfo

			if termInfo.ForceJSON {
				config.Global.Format = printer.FormatJSON
			}
			if err := printer.ValidateFormat(config.Global.Format); err != nil {
				return err
			}

			setupLogging(config.Global.Verbose, config.Global.NoColor)
			return nil
		},
	}

	addGlobalFlags(rootCmd.PersistentFlags(), &jsonFlag)

	registry.AddCommands(rootCmd, factory)
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// addGlobalFlags binds the flags every command accepts to config.Global.
func addGlobalFlags(flags *pflag.FlagSet, jsonFlag *bool) {
	flags.StringVar(&config.Global.ConfigPath, "config", "", "Path to a YAML or TOML config file")
	flags.StringVar(&config.Global.Format, "format", printer.FormatTable, "Format of the result (table|json)")
	flags.BoolVar(jsonFlag, "json", false, "Output results as JSON (equivalent to --format=json)")
	flags.BoolVarP(&config.Global.Verbose, "verbose", "v", false, "Enable verbose logging to console")
	flags.BoolVar(&config.Global.NoColor, "no-color", false, "Disable colour output (also respects NO_COLOR env)")
}

// setupLogging sends zerolog output to stderr when verbose, and nowhere
// otherwise.
func setupLogging(verbose, noColor bool) {
	if !verbose {
		log.Logger = zerolog.Nop()
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of oss-download",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oss-download version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Built with %s\n", runtime.Version())
		},
	}
}
