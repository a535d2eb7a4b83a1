package output

import (
	"fmt"
	"strings"

	"docsync/internal/freshness"
)

// RenderDriftReport renders the per-artifact drift table. Records arrive
// already sorted by artifact path, so the report is stable across runs.
func RenderDriftReport(records []freshness.DriftRecord) []byte {
	var b strings.Builder
	b.WriteString("# Drift report\n\n")

	if len(records) == 0 {
		b.WriteString("No tracked artifacts.\n")
		return []byte(b.String())
	}

	b.WriteString("| Artifact | Status | Age (days) | Stale sources |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, rec := range records {
		stale := "-"
		if len(rec.StaleSources) > 0 {
			stale = strings.Join(rec.StaleSources, ", ")
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", rec.Artifact, rec.Status, rec.AgeDays, stale)
	}

	drifted := 0
	for _, rec := range records {
		if rec.Drifted {
			drifted++
		}
	}
	fmt.Fprintf(&b, "\n%d of %d artifacts drifted.\n", drifted, len(records))
	return []byte(b.String())
}
