package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var mkdirParent string

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Long: `Create a new folder.

The folder is created in the drive root unless --parent names an existing
folder path.

Examples:
  # Create a folder in the root
  dittodrivectl mkdir photos

  # Create a nested folder
  dittodrivectl mkdir 2024 --parent /photos`,
	Args: cobra.ExactArgs(1),
	RunE: runMkdir,
}

func init() {
	mkdirCmd.Flags().StringVarP(&mkdirParent, "parent", "p", "", "Parent folder path (default: drive root)")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	node, err := client.CreateFolder(args[0], normalizeDrivePath(mkdirParent))
	if err != nil {
		return err
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, node,
		fmt.Sprintf("Folder '%s' created (id: %s)", node.Path, node.ID))
}
