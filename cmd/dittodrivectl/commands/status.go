package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the status of the connected DittoDrive server.

This command checks the server health and readiness endpoints and displays
liveness plus the state of the metadata store and blob backend.

Examples:
  # Check status of connected server
  dittodrivectl status

  # Output as JSON
  dittodrivectl status -o json`,
	RunE: runStatus,
}

// ServerStatus represents the server status for display.
type ServerStatus struct {
	Server  string            `json:"server" yaml:"server"`
	Status  string            `json:"status" yaml:"status"`
	Healthy bool              `json:"healthy" yaml:"healthy"`
	Ready   bool              `json:"ready" yaml:"ready"`
	Checks  map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
	Error   string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetUnauthenticatedClient()
	if err != nil {
		return err
	}

	serverURL, _ := cmdutil.GetServerURL()
	status := ServerStatus{
		Server:  serverURL,
		Status:  "unreachable",
		Healthy: false,
	}

	health, err := client.Health()
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Status = health.Status
		status.Healthy = health.Healthy()

		// Readiness answers 503 with the failing dependency when degraded
		ready, err := client.Ready()
		if err != nil {
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) {
				status.Error = apiErr.Detail
			} else {
				status.Error = err.Error()
			}
		} else {
			status.Ready = ready.Healthy()
			status.Checks = ready.Data
			if ready.Error != "" {
				status.Error = ready.Error
			}
		}
	}

	// Output based on format
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("DittoDrive Server Status")
	fmt.Println("========================")
	fmt.Println()
	fmt.Printf("  Server:     %s\n", status.Server)

	if status.Healthy {
		fmt.Printf("  Status:     \033[32m● %s\033[0m\n", status.Status)
	} else if status.Status == "unreachable" {
		fmt.Printf("  Status:     \033[31m○ %s\033[0m\n", status.Status)
	} else {
		fmt.Printf("  Status:     \033[33m● %s\033[0m\n", status.Status)
	}

	fmt.Printf("  Ready:      %s\n", cmdutil.BoolToYesNo(status.Ready))
	for name, state := range status.Checks {
		fmt.Printf("  %-11s %s\n", name+":", state)
	}
	if status.Error != "" {
		fmt.Printf("  Error:      %s\n", status.Error)
	}
	fmt.Println()
}
