// Package cmdutil provides shared utilities for dittodrivectl commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/prompt"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

// Environment variables consulted when the corresponding flag is unset.
const (
	EnvServerURL = "DITTODRIVE_SERVER"
	EnvToken     = "DITTODRIVE_TOKEN"
)

// Flags receives the persistent flag values from the root command before
// any subcommand runs.
var Flags = &GlobalFlags{}

// GlobalFlags mirrors the persistent flags.
type GlobalFlags struct {
	ServerURL string
	Token     string
	Output    string
	NoColor   bool
}

// GetServerURL returns the server URL from the --server flag, falling back
// to the DITTODRIVE_SERVER environment variable.
func GetServerURL() (string, error) {
	url := Flags.ServerURL
	if url == "" {
		url = os.Getenv(EnvServerURL)
	}
	if url == "" {
		return "", fmt.Errorf("no server URL configured. Use --server or set %s", EnvServerURL)
	}
	return strings.TrimRight(url, "/"), nil
}

// GetClient returns an API client configured from the --server and --token
// flags, falling back to the DITTODRIVE_SERVER and DITTODRIVE_TOKEN
// environment variables.
func GetClient() (*apiclient.Client, error) {
	url, err := GetServerURL()
	if err != nil {
		return nil, err
	}

	tok := Flags.Token
	if tok == "" {
		tok = os.Getenv(EnvToken)
	}
	if tok == "" {
		return nil, fmt.Errorf("no access token configured. Use --token or set %s", EnvToken)
	}

	return apiclient.New(url).WithToken(tok), nil
}

// GetUnauthenticatedClient returns an API client without a token, for
// endpoints that need none (health probes).
func GetUnauthenticatedClient() (*apiclient.Client, error) {
	url, err := GetServerURL()
	if err != nil {
		return nil, err
	}
	return apiclient.New(url), nil
}

// GetOutputFormatParsed parses the --output flag value.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled reports whether --no-color was given.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// PrintOutput renders a listing in the selected format. Table format
// prints emptyMsg instead of an empty table; JSON and YAML always encode
// data so scripted callers get a stable shape.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a confirmation line, table format only; JSON and
// YAML consumers get the resource itself instead.
func PrintSuccess(msg string) {
	format, err := GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stdout, format, !IsColorDisabled())
	printer.Success(msg)
}

// PrintResourceWithSuccess is the mutation-result printer: a confirmation
// line in table format, the mutated resource in JSON and YAML.
func PrintResourceWithSuccess(w io.Writer, data any, successMsg string) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		PrintSuccess(successMsg)
		return nil
	}
}

// PrintResource renders a single resource in the selected format.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// BoolToYesNo renders a boolean for table cells.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EmptyOr substitutes fallback for empty table cells.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// HandleAbort turns a Ctrl+C during a prompt into a clean exit; any other
// error passes through.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}
