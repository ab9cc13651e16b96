package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

var (
	mvName   string
	mvParent string
)

var mvCmd = &cobra.Command{
	Use:   "mv <node-id>",
	Short: "Rename or move a node",
	Long: `Rename a node in place or move it under a different parent folder.

Exactly one of --name or --parent must be given. Moving a folder carries
its whole subtree to the new location.

Examples:
  # Rename
  dittodrivectl mv 7c9e6679-7425-40de-944b-e07fc1f90ae7 --name budget-2024.xlsx

  # Move into another folder
  dittodrivectl mv 7c9e6679-7425-40de-944b-e07fc1f90ae7 --parent /archive

  # Move to the drive root
  dittodrivectl mv 7c9e6679-7425-40de-944b-e07fc1f90ae7 --parent /`,
	Args: cobra.ExactArgs(1),
	RunE: runMv,
}

func init() {
	mvCmd.Flags().StringVar(&mvName, "name", "", "New name for the node")
	mvCmd.Flags().StringVar(&mvParent, "parent", "", "New parent folder path")
}

func runMv(cmd *cobra.Command, args []string) error {
	rename := cmd.Flags().Changed("name")
	move := cmd.Flags().Changed("parent")
	if rename == move {
		return fmt.Errorf("exactly one of --name or --parent must be set")
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	var node *apiclient.Node
	if rename {
		node, err = client.RenameNode(args[0], mvName)
	} else {
		node, err = client.MoveNode(args[0], normalizeDrivePath(mvParent))
	}
	if err != nil {
		return err
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, node,
		fmt.Sprintf("Node moved to '%s'", node.Path))
}
