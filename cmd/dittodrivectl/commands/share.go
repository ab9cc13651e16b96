package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
)

var shareTTL time.Duration

var shareCmd = &cobra.Command{
	Use:   "share <node-id>",
	Short: "Create a signed share link",
	Long: `Create a signed download link for a file.

Anyone holding the link can download the file until it expires; no account
or token is needed. The lifetime defaults to the server's configured value
and is capped at the server's maximum.

Examples:
  # Share with the default lifetime
  dittodrivectl share 7c9e6679-7425-40de-944b-e07fc1f90ae7

  # Share for two hours
  dittodrivectl share 7c9e6679-7425-40de-944b-e07fc1f90ae7 --ttl 2h`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	shareCmd.Flags().DurationVar(&shareTTL, "ttl", 0, "Link lifetime (default: server's configured value)")
}

func runShare(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	link, err := client.CreateShareLink(args[0], shareTTL)
	if err != nil {
		return err
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, link)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, link)
	default:
		fmt.Println(link.URL)
		fmt.Printf("Expires: %s\n", timeutil.FormatLocal(link.ExpiresAt))
		return nil
	}
}
