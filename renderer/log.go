package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/chipbook"
)

// ImportLogText renders the issues of an import as a plain text report: an
// ERRORS section, then a WARNINGS section, one line per issue. A section
// with no issues is omitted entirely, and a clean import renders as "".
func ImportLogText(res *chipbook.ImportResult) string {
	var sb strings.Builder

	errors := newSection(&sb, "ERRORS\n")
	for _, issue := range res.Errors {
		fmt.Fprintf(errors, "  %s\n", issue)
	}
	errors.end("\n")

	warnings := newSection(&sb, "WARNINGS\n")
	for _, issue := range res.Warnings {
		fmt.Fprintf(warnings, "  %s\n", issue)
	}
	warnings.end("\n")

	return sb.String()
}

// ImportSummaryText renders the one-line outcome of an import, for the CLI
// to print after the issue report.
func ImportSummaryText(res *chipbook.ImportResult) string {
	if !res.Success() {
		return fmt.Sprintf("import failed: %d errors, %d warnings", len(res.Errors), len(res.Warnings))
	}
	return fmt.Sprintf("imported %d sessions, %d players, %d results (%d warnings)",
		len(res.Sessions), len(res.Players), len(res.PlayerSessions), len(res.Warnings))
}
