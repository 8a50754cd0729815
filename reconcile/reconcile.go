package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"mercadolivre-sync/internal/types"
)

// Reconciler computes the fields of a stored record that must be rewritten.
type Reconciler struct {
	rules []Rule
}

// New creates a reconciler over rules. With no rules the commercial set is used.
func New(rules ...Rule) *Reconciler {
	if len(rules) == 0 {
		rules = CommercialRules()
	}
	return &Reconciler{rules: rules}
}

// Diff returns the sparse update for stored. The payload is empty when nothing differs.
func (r *Reconciler) Diff(stored types.CatalogProduct, extracted types.ExtractedProduct) types.UpdatePayload {
	payload := types.UpdatePayload{ProductID: stored.ProductID}
	for _, rule := range r.rules {
		if change, differs := rule.Diff(stored, extracted); differs {
			payload.Changes = append(payload.Changes, change)
		}
	}
	return payload
}

// Report renders one block of diff lines per change.
func Report(payload types.UpdatePayload) string {
	var b strings.Builder
	for _, c := range payload.Changes {
		fmt.Fprintf(&b, "  - Field: %s | Status: DIFFERENT\n", c.Label)
		fmt.Fprintf(&b, "    - Stored value:  %s\n", FormatValue(c.Stored))
		fmt.Fprintf(&b, "    - Scraped value: %s\n", FormatValue(c.Value))
	}
	return b.String()
}

// FormatValue prints a change value for the report; absent values read "N/A".
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case decimal.Decimal:
		return val.StringFixed(2)
	case []string:
		if len(val) == 0 {
			return "N/A"
		}
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}
