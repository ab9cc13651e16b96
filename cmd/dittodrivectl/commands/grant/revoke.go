package grant

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/prompt"
)

var revokeForce bool

var revokeCmd = &cobra.Command{
	Use:   "revoke <node-id> <grantee-id>",
	Short: "Remove a principal's grant",
	Long: `Remove a principal's grant on a node. Only the node's owner may revoke.

Examples:
  # Revoke access (asks for confirmation)
  dittodrivectl grant revoke 7c9e6679-7425-40de-944b-e07fc1f90ae7 alice

  # Skip the confirmation prompt
  dittodrivectl grant revoke 7c9e6679-7425-40de-944b-e07fc1f90ae7 alice --force`,
	Args: cobra.ExactArgs(2),
	RunE: runRevoke,
}

func init() {
	revokeCmd.Flags().BoolVarP(&revokeForce, "force", "f", false, "Skip confirmation prompt")
}

func runRevoke(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	confirmed, err := prompt.ConfirmWithForce(
		fmt.Sprintf("Revoke '%s' access to node '%s'?", args[1], args[0]), revokeForce)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := client.RevokeGrant(args[0], args[1]); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Revoked '%s' access to node '%s'", args[1], args[0]))
	return nil
}
