package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the DittoDrive configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  dittodrive config validate

  # Validate specific config file
  dittodrive config validate --config /etc/dittodrive/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load and validate configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	// Check JWT secret is configured (config file or environment)
	if cfg.Auth.GetSecret() == "" {
		warnings = append(warnings, "JWT secret not configured - API authentication will fail")
	}

	// Check the blob bucket is not the generated placeholder
	if cfg.Blob.Type == "s3" && cfg.Blob.S3.Bucket == "dittodrive" {
		warnings = append(warnings, "Blob bucket is set to the default placeholder - set blob.s3.bucket to your bucket")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  Blob store:      %s\n", cfg.Blob.Type)
	fmt.Printf("  API port:        %d\n", cfg.Server.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
