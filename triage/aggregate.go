package triage

import (
	"sort"
	"time"
)

// FrequencyRow is one value of a frequency distribution.
type FrequencyRow struct {
	Value string
	Count int
}

// FrequencyTable is a frequency distribution ordered by descending count.
// Ties keep the order in which values were first encountered, so for a
// fixed input order the table is stable across runs.
type FrequencyTable []FrequencyRow

// Aggregate computes the value counts of key over records, sorted by count
// descending with first-encountered tie order, truncated to topN when
// topN > 0. Records for which key returns the empty string are skipped.
func Aggregate(records []CaseRecord, key func(*CaseRecord) string, topN int) FrequencyTable {
	index := make(map[string]int)
	var table FrequencyTable
	for i := range records {
		v := key(&records[i])
		if v == "" {
			continue
		}
		if j, ok := index[v]; ok {
			table[j].Count++
			continue
		}
		index[v] = len(table)
		table = append(table, FrequencyRow{Value: v, Count: 1})
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})
	if topN > 0 && len(table) > topN {
		table = table[:topN]
	}
	return table
}

// isSentinelOwner reports whether owner is one of the two unassigned
// sentinels.
func isSentinelOwner(owner string) bool {
	return owner == OwnerUnlabeled || owner == OwnerUnclassified
}

// OwnerDistribution counts records per assigned owner. Sentinel owners are
// excluded from the per-owner rows; their total is appended as a single
// "unassigned" bucket to keep the breakdown readable.
func OwnerDistribution(records []CaseRecord) FrequencyTable {
	unassigned := 0
	table := Aggregate(records, func(rec *CaseRecord) string {
		if isSentinelOwner(rec.Owner) {
			unassigned++
			return ""
		}
		return rec.Owner
	}, 0)
	if unassigned > 0 {
		table = append(table, FrequencyRow{Value: UnassignedBucket, Count: unassigned})
	}
	return table
}

// MonthCount is one month of the arrival distribution.
type MonthCount struct {
	Month time.Month
	Count int
}

// MonthDistribution counts resolved records per arrival month, ordered by
// month number ascending. Records whose date resolution failed carry no
// arrival month and are excluded from this distribution only.
func MonthDistribution(records []CaseRecord) []MonthCount {
	counts := make(map[time.Month]int)
	for i := range records {
		if records[i].ArrivalDate == nil {
			continue
		}
		counts[records[i].ArrivalDate.Month()]++
	}
	var out []MonthCount
	for m := time.January; m <= time.December; m++ {
		if n, ok := counts[m]; ok {
			out = append(out, MonthCount{Month: m, Count: n})
		}
	}
	return out
}

// Stats bundles the distributions shown on the dashboard and in the PDF
// reports.
type Stats struct {
	Total        int
	PassivePoles FrequencyTable
	Months       []MonthCount
	Owners       FrequencyTable
	Courts       FrequencyTable
	Subjects     FrequencyTable
}

// BuildStats computes the standard distribution set over a derived batch.
// topN bounds the passive-pole, court and subject tables; zero or negative
// means the default of 10.
func BuildStats(records []CaseRecord, topN int) Stats {
	if topN <= 0 {
		topN = 10
	}
	return Stats{
		Total:        len(records),
		PassivePoles: Aggregate(records, func(r *CaseRecord) string { return r.PassivePole }, topN),
		Months:       MonthDistribution(records),
		Owners:       OwnerDistribution(records),
		Courts:       Aggregate(records, func(r *CaseRecord) string { return r.Court }, topN),
		Subjects:     Aggregate(records, func(r *CaseRecord) string { return r.Subject }, topN),
	}
}
