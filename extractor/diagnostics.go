package extractor

import "fmt"

// Diagnostic records the outcome of one field extraction.
type Diagnostic struct {
	Field    string
	Strategy string
	Found    bool
	Snippet  string
}

func (d Diagnostic) String() string {
	if d.Found {
		return fmt.Sprintf("%s: found via %s", d.Field, d.Strategy)
	}
	if d.Snippet != "" {
		return fmt.Sprintf("%s: not found (raw %q)", d.Field, d.Snippet)
	}
	return fmt.Sprintf("%s: not found", d.Field)
}

// Missing returns the diagnostics of fields that could not be extracted.
func Missing(diags []Diagnostic) []Diagnostic {
	var missing []Diagnostic
	for _, d := range diags {
		if !d.Found {
			missing = append(missing, d)
		}
	}
	return missing
}
