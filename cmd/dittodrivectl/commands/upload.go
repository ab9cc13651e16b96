package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var (
	uploadParent string
	uploadName   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file",
	Long: `Upload a local file to the drive.

The file is stored in the drive root unless --parent names an existing
folder path. The remote name defaults to the local file name.

Examples:
  # Upload into the root
  dittodrivectl upload report.pdf

  # Upload into a folder with a different name
  dittodrivectl upload report.pdf --parent /documents --name q3-report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadParent, "parent", "p", "", "Parent folder path (default: drive root)")
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Remote file name (default: local file name)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	name := uploadName
	if name == "" {
		name = filepath.Base(args[0])
	}

	node, err := client.UploadFile(normalizeDrivePath(uploadParent), name, file)
	if err != nil {
		return err
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, node,
		fmt.Sprintf("File '%s' uploaded (id: %s, %s)", node.Path, node.ID, nodeSize(node)))
}
