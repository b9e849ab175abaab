package pkg

import (
	"fmt"
	"io"
	"strings"

	"github.com/aquasecurity/trivy-multi-report/pkg/types"
)

// summaryOrder lists buckets from most to least severe.
var summaryOrder = []types.Severity{
	types.SeverityCritical,
	types.SeverityHigh,
	types.SeverityMedium,
	types.SeverityLow,
	types.SeverityUnknown,
}

func writeSummary(w io.Writer, output string, bundle *types.Bundle) {
	fmt.Fprintf(w, "\nReport generated successfully: %s\n", output)
	for _, key := range bundle.Keys() {
		summary, _ := bundle.Get(key)

		counts := make([]string, 0, len(summaryOrder))
		for _, s := range summaryOrder {
			counts = append(counts, fmt.Sprintf("%s: %d", s.Colorize(), summary.Metrics.Count(s)))
		}
		fmt.Fprintf(w, "  %s (%s, TOTAL: %d)\n", summary.Target, strings.Join(counts, ", "), summary.Metrics.Total)
	}
	fmt.Fprintf(w, "Total images scanned: %d\n", bundle.Len())
}
