package grant

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var setRole string

var setCmd = &cobra.Command{
	Use:   "set <node-id> <grantee-id>",
	Short: "Grant a role on a node",
	Long: `Grant a principal a role on a node, or change the role if a grant
already exists. Only the node's owner may grant.

Roles:
  viewer  Read-only access (list, stat, download)
  editor  Read and write access (upload, rename, move)

Examples:
  # Grant read-only access
  dittodrivectl grant set 7c9e6679-7425-40de-944b-e07fc1f90ae7 alice --role viewer

  # Upgrade to editor
  dittodrivectl grant set 7c9e6679-7425-40de-944b-e07fc1f90ae7 alice --role editor`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setRole, "role", "viewer", "Role to grant (viewer|editor)")
}

func runSet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	grant, err := client.SetGrant(args[0], args[1], setRole)
	if err != nil {
		return err
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, grant,
		fmt.Sprintf("Granted '%s' role %s on node %s", grant.GranteeID, grant.Role, grant.NodeID))
}
