// Package trash implements trash management subcommands.
package trash

import (
	"github.com/spf13/cobra"
)

// Cmd is the trash subcommand.
var Cmd = &cobra.Command{
	Use:   "trash",
	Short: "Trash management",
	Long: `Manage trashed nodes.

Trashed nodes keep their content until purged and can be restored to
their original path.

Subcommands:
  ls       List trashed nodes
  restore  Restore a trashed node to its original path
  purge    Permanently remove a trashed node`,
}

func init() {
	Cmd.AddCommand(lsCmd)
	Cmd.AddCommand(restoreCmd)
	Cmd.AddCommand(purgeCmd)
}
