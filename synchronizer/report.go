package synchronizer

import (
	"fmt"
	"strings"

	"mercadolivre-sync/reconcile"
)

const reportHeader = "### SYNCHRONIZATION REPORT ###\n\n"

// RenderReport writes one section per catalog entry, each ending in exactly one status line.
func RenderReport(results []ItemResult) string {
	var b strings.Builder
	b.WriteString(reportHeader)
	for _, r := range results {
		fmt.Fprintf(&b, "--- Checking: %s (ID: %s) ---\n", titleOf(r.Product), r.Product.ProductID)
		b.WriteString(reconcile.Report(r.Payload))
		b.WriteString(StatusLine(r))
		b.WriteString("\n\n")
	}
	return b.String()
}

// StatusLine is the single status line of an item section.
func StatusLine(r ItemResult) string {
	switch r.Status {
	case StatusUpdated:
		return "  -> Status: UPDATE SENT TO CATALOG."
	case StatusUnchanged:
		return "  -> Status: No changes. Product synchronized."
	case StatusMissingURL:
		return "Status: ERROR - marketplace URL not found in catalog record."
	case StatusUnavailable:
		return "Status: WARNING - product unavailable or page removed."
	case StatusConnectionError:
		return "Status: CONNECTION ERROR - " + errText(r.Err)
	case StatusUpdateFailed:
		return "Status: UPDATE FAILED - " + errText(r.Err)
	default:
		return "Status: UNEXPECTED ERROR - " + errText(r.Err)
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
