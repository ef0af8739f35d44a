package registry

import (
	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/cmd/registry/command"

	"github.com/spf13/cobra"
)

// AddCommands attaches the registry commands to root.
func AddCommands(root *cobra.Command, f *cmdutils.Factory) {
	root.AddCommand(command.NewDownloadCmd(f))
	root.AddCommand(command.NewVersionsCmd(f))
	root.AddCommand(command.NewMetadataCmd(f))
	root.AddCommand(command.NewRegistriesCmd(f))
}
