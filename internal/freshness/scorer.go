package freshness

import (
	"sort"
	"time"
)

// Status buckets an artifact by days elapsed since its sources last matched.
type Status string

const (
	StatusFresh  Status = "fresh"
	StatusAging  Status = "aging"
	StatusStale  Status = "stale"
	StatusUrgent Status = "urgent"
)

// Day thresholds between status buckets.
const (
	agingAfterDays  = 30
	staleAfterDays  = 90
	urgentAfterDays = 180
)

// DriftRecord describes one artifact's standing for the current run. A new
// set is produced every run; only the store persists.
type DriftRecord struct {
	Artifact     string   `json:"artifact"`
	Status       Status   `json:"status"`
	Drifted      bool     `json:"drifted"`
	AgeDays      int      `json:"ageDays"`
	StaleSources []string `json:"staleSources,omitempty"`
}

// Scorer compares stored fingerprints against the current run's.
type Scorer struct {
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Score produces a drift record for every artifact in the store, ordered by
// artifact path. An artifact drifts when any source fingerprint captured at
// its generation differs from the current set or the source no longer
// exists. A drifted artifact still reports fresh until its age since
// LastMatched crosses the first threshold.
func (sc *Scorer) Score(store *Store, current map[string]Fingerprint) []DriftRecord {
	now := time.Now()
	if sc.Now != nil {
		now = sc.Now()
	}

	records := make([]DriftRecord, 0, len(store.Artifacts))
	for artifact, rec := range store.Artifacts {
		var staleSources []string
		for src, recorded := range rec.Sources {
			cur, ok := current[src]
			if !ok || cur.Hash != recorded.Hash || !cur.ModTime.Equal(recorded.ModTime) {
				staleSources = append(staleSources, src)
			}
		}
		drifted := len(staleSources) > 0

		age := 0
		status := StatusFresh
		if drifted {
			age = int(now.Sub(rec.LastMatched).Hours() / 24)
			if age < 0 {
				age = 0
			}
			status = statusForAge(age)
		}

		sort.Strings(staleSources)
		records = append(records, DriftRecord{
			Artifact:     artifact,
			Status:       status,
			Drifted:      drifted,
			AgeDays:      age,
			StaleSources: staleSources,
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Artifact < records[j].Artifact })
	return records
}

func statusForAge(days int) Status {
	switch {
	case days < agingAfterDays:
		return StatusFresh
	case days <= staleAfterDays:
		return StatusAging
	case days <= urgentAfterDays:
		return StatusStale
	default:
		return StatusUrgent
	}
}
