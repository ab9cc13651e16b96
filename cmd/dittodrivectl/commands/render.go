package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

// nodesTable renders a page of nodes as a table.
func nodesTable(nodes []apiclient.Node) *output.TableData {
	table := output.NewTableData("ID", "NAME", "KIND", "SIZE", "PATH", "UPDATED")
	for _, n := range nodes {
		table.AddRow(
			n.ID,
			n.Name,
			n.Kind,
			nodeSize(&n),
			n.Path,
			timeutil.FormatLocal(n.UpdatedAt),
		)
	}
	return table
}

// normalizeDrivePath maps user-entered paths onto the server's convention:
// slash-separated with no leading or trailing slash, empty for the root.
func normalizeDrivePath(p string) string {
	return strings.Trim(p, "/")
}

// nodeSize formats a node's size for display. Folders show "-".
func nodeSize(n *apiclient.Node) string {
	if n.IsFolder() {
		return "-"
	}
	return humanize.IBytes(uint64(n.Size))
}

// printPageFooter prints pagination totals after a table, when there is
// more than one page.
func printPageFooter(totalItems int64, page, totalPages int) {
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil || format != output.FormatTable {
		return
	}
	if totalPages > 1 {
		fmt.Printf("\nPage %d of %d (%d items total)\n", page, totalPages, totalItems)
	}
}
