// Package metrics implements the metrics collector: a
// bounded ring buffer of per-action outcome records plus on-demand
// aggregates computed at snapshot time.
package metrics

import (
	"sort"
	"time"
)

// Record is one dispatched action's outcome.
type Record struct {
	Kind      string
	Success   bool
	Duration  time.Duration
	ErrorType string
	Timestamp time.Time
}

const ringBufferSize = 1000

// Collector holds recent records per action kind in a bounded ring.
type Collector struct {
	records map[string][]Record
}

func NewCollector() *Collector {
	return &Collector{records: make(map[string][]Record)}
}

// Record appends r to its kind's ring, evicting the oldest entry on
// overflow.
func (c *Collector) Record(r Record) {
	list := c.records[r.Kind]
	list = append(list, r)
	if len(list) > ringBufferSize {
		list = list[len(list)-ringBufferSize:]
	}
	c.records[r.Kind] = list
}

// Snapshot is the per-action aggregate computed on demand.
type Snapshot struct {
	Kind              string
	TotalExecutions   int
	SuccessCount      int
	SuccessRate       float64
	AverageDuration   time.Duration
	MinDuration       time.Duration
	MaxDuration       time.Duration
	ErrorDistribution map[string]int
	RecentTrend       string
	TopErrors         []string
}

// Snapshot computes the aggregate for one action kind.
func (c *Collector) Snapshot(kind string) Snapshot {
	records := c.records[kind]
	snap := Snapshot{Kind: kind, ErrorDistribution: make(map[string]int)}
	if len(records) == 0 {
		snap.RecentTrend = "stable"
		return snap
	}

	var totalDur time.Duration
	snap.MinDuration = records[0].Duration
	snap.MaxDuration = records[0].Duration

	for _, r := range records {
		snap.TotalExecutions++
		if r.Success {
			snap.SuccessCount++
		} else if r.ErrorType != "" {
			snap.ErrorDistribution[r.ErrorType]++
		}
		totalDur += r.Duration
		if r.Duration < snap.MinDuration {
			snap.MinDuration = r.Duration
		}
		if r.Duration > snap.MaxDuration {
			snap.MaxDuration = r.Duration
		}
	}

	snap.SuccessRate = float64(snap.SuccessCount) / float64(snap.TotalExecutions)
	snap.AverageDuration = totalDur / time.Duration(snap.TotalExecutions)
	snap.RecentTrend = trend(records)
	snap.TopErrors = topErrors(snap.ErrorDistribution, 5)
	return snap
}

// trend compares the success rate of the first half vs second half of
// the last 50 records; a swing beyond ±0.1 is improving/degrading,
// otherwise stable.
func trend(records []Record) string {
	window := records
	if len(window) > 50 {
		window = window[len(window)-50:]
	}
	if len(window) < 2 {
		return "stable"
	}
	mid := len(window) / 2
	first := successRate(window[:mid])
	second := successRate(window[mid:])
	delta := second - first
	switch {
	case delta > 0.1:
		return "improving"
	case delta < -0.1:
		return "degrading"
	default:
		return "stable"
	}
}

func successRate(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	ok := 0
	for _, r := range records {
		if r.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(records))
}

func topErrors(dist map[string]int, k int) []string {
	type kv struct {
		k string
		v int
	}
	var sorted []kv
	for errType, count := range dist {
		sorted = append(sorted, kv{errType, count})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].v > sorted[j].v })
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = e.k
	}
	return out
}

// Kinds returns every action kind with at least one recorded outcome.
func (c *Collector) Kinds() []string {
	kinds := make([]string, 0, len(c.records))
	for k := range c.records {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
