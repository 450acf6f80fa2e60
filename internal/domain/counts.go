// Package domain contains core business types and interfaces.
//
// This file implements the snag count aggregation used by the report list
// and the generated document header. Counts are always derived from the
// current tree; nothing here is cached.
package domain

// SnagCounts holds the aggregate snag counts for a report.
type SnagCounts struct {
	Total    int // All snags across all rooms
	Open     int // Snags with status "open"
	Critical int // Snags with priority "critical"
}

// CountSnags traverses the report tree and returns its aggregate counts.
// O(total snags); must be recomputed after every structural change.
func CountSnags(r *Report) SnagCounts {
	var counts SnagCounts
	for i := range r.Rooms {
		for j := range r.Rooms[i].Snags {
			s := &r.Rooms[i].Snags[j]
			counts.Total++
			if s.Status == SnagStatusOpen {
				counts.Open++
			}
			if s.Priority == SnagPriorityCritical {
				counts.Critical++
			}
		}
	}
	return counts
}
