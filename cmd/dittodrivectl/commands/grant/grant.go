// Package grant implements access grant subcommands.
package grant

import (
	"github.com/spf13/cobra"
)

// Cmd is the grant subcommand.
var Cmd = &cobra.Command{
	Use:   "grant",
	Short: "Access grant management",
	Long: `Manage access grants on nodes.

A grant gives another principal a role (viewer or editor) on one of your
nodes. Grants on a folder cover its whole subtree.

Subcommands:
  set     Grant a role to a principal, or change an existing grant
  ls      List grants on a node
  revoke  Remove a principal's grant`,
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(lsCmd)
	Cmd.AddCommand(revokeCmd)
}
