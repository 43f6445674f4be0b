package cpm

import (
	"github.com/joshharrison/pathloom/internal/network"
)

// SelectCritical returns the maximum path weight and the index of every
// path that reaches it. A heavier path resets the index set, an equal one
// joins it. Weights only count strictly positive durations.
func SelectCritical(paths []Path, table *network.ActivityTable) (int, []int) {
	max := 0
	var critical []int
	for i, p := range paths {
		w := pathWeight(p, table)
		switch {
		case w > max:
			max = w
			critical = []int{i}
		case w == max:
			critical = append(critical, i)
		}
	}
	return max, critical
}

func pathWeight(p Path, table *network.ActivityTable) int {
	sum := 0
	for _, name := range p {
		sum += table.Weight(name)
	}
	return sum
}

// ComputeStatistics derives early/late bounds for every interior activity
// from the enumerated paths and the critical duration.
//
// For activity A on a path, with Start and End trimmed:
//
//	early start candidate = 1 + weight of the activities before A
//	late start candidate  = critical - (weight of A and the activities after it - 1)
//
// The table keeps the largest early start and the smallest late start seen
// across all paths containing A.
func ComputeStatistics(paths []Path, table *network.ActivityTable, critical int) *StatisticsTable {
	st := NewStatisticsTable(table)
	for _, p := range paths {
		interior := p.Interior()

		remaining := 0
		for _, name := range interior {
			remaining += table.Weight(name)
		}

		before := 0
		for _, name := range interior {
			s, ok := st.Get(name)
			if !ok {
				continue
			}
			s.ProposeEarlyStart(1 + before)
			s.ProposeLateStart(critical - (remaining - 1))

			w := table.Weight(name)
			before += w
			remaining -= w
		}
	}
	return st
}
