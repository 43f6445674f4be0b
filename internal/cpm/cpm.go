package cpm

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/network"
)

// BuildNetwork validates the activity and precedence definitions and
// enumerates every Start-to-End path.
//
// Activities are scanned in the given order: the first duration -1 entry
// becomes Start, the second End. With fewer than two such entries the
// returned PathSet is empty and Degenerate reports true.
func BuildNetwork(activities []network.Activity, edges []network.Edge, opts ...Option) (*PathSet, error) {
	o := buildOptions(opts)

	n, err := network.Build(activities, edges)
	if err != nil {
		return nil, err
	}
	if !n.Complete() {
		o.logger.Warn("network lacks a start or end extreme; no paths enumerated",
			zap.String("start", n.Start),
			zap.String("end", n.End))
	}

	paths, err := Enumerate(n, opts...)
	if err != nil {
		return nil, fmt.Errorf("enumerate paths: %w", err)
	}
	return &PathSet{Network: n, Paths: paths}, nil
}

// ComputeSchedule performs critical path analysis on an enumerated path set.
// It is a pure function of the path set: each call builds a fresh
// statistics table.
func ComputeSchedule(ps *PathSet, opts ...Option) (*Schedule, error) {
	if ps == nil || ps.Network == nil {
		return nil, fmt.Errorf("compute schedule: no path set")
	}
	o := buildOptions(opts)
	table := ps.Network.Table

	critical, indices := SelectCritical(ps.Paths, table)
	stats := ComputeStatistics(ps.Paths, table, critical)

	result := &Schedule{
		PathSet:          ps,
		CriticalDuration: critical,
		CriticalPaths:    indices,
		Stats:            stats,
	}

	onCritical := make(map[string]bool)
	for _, i := range indices {
		for _, name := range ps.Paths[i].Interior() {
			onCritical[name] = true
		}
	}
	for _, s := range stats.All() {
		if onCritical[s.Activity] {
			s.IsCritical = true
			result.CriticalActivities = append(result.CriticalActivities, s.Activity)
		}
	}

	result.Waves = computeWaves(stats)

	o.logger.Debug("computed schedule",
		zap.Int("paths", len(ps.Paths)),
		zap.Int("critical_duration", critical),
		zap.Ints("critical_paths", indices),
		zap.Int("waves", len(result.Waves)))
	return result, nil
}

// computeWaves groups scheduled activities by their early start.
func computeWaves(stats *StatisticsTable) []Wave {
	esGroups := make(map[int][]string)
	for _, s := range stats.All() {
		if !s.Scheduled() {
			continue
		}
		esGroups[s.EarlyStart] = append(esGroups[s.EarlyStart], s.Activity)
	}

	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		names := esGroups[es]

		hasCritical := false
		for _, name := range names {
			s, _ := stats.Get(name)
			s.Wave = i
			if s.IsCritical {
				hasCritical = true
			}
		}

		// Critical activities first, declaration order otherwise
		sort.SliceStable(names, func(a, b int) bool {
			sa, _ := stats.Get(names[a])
			sb, _ := stats.Get(names[b])
			return sa.IsCritical && !sb.IsCritical
		})

		waves[i] = Wave{
			Index:      i,
			Day:        es,
			Activities: names,
			IsCritical: hasCritical,
		}
	}
	return waves
}
