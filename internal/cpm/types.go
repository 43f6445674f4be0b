package cpm

import (
	"strings"

	"github.com/joshharrison/pathloom/internal/network"
)

// Path is an ordered sequence of activity names from Start to End.
type Path []string

// Equal reports whether p and q hold the same names in the same order.
// Paths of different length are never equal.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Interior returns p without its first and last names.
func (p Path) Interior() Path {
	if len(p) <= 2 {
		return nil
	}
	return p[1 : len(p)-1]
}

// Contains reports whether name appears in p.
func (p Path) Contains(name string) bool {
	for _, n := range p {
		if n == name {
			return true
		}
	}
	return false
}

func (p Path) String() string {
	return strings.Join(p, " ")
}

// PathSet is the enumerated Start-to-End paths of a network.
type PathSet struct {
	Network *network.Network
	Paths   []Path
}

// Start returns the network's Start activity name.
func (ps *PathSet) Start() string { return ps.Network.Start }

// End returns the network's End activity name.
func (ps *PathSet) End() string { return ps.Network.End }

// Degenerate reports whether the network lacked an extreme, which leaves
// the path set empty.
func (ps *PathSet) Degenerate() bool {
	return !ps.Network.Complete()
}

// Weight returns the summed positive durations of path i.
func (ps *PathSet) Weight(i int) int {
	return pathWeight(ps.Paths[i], ps.Network.Table)
}

// Schedule is the complete CPM analysis of a path set.
type Schedule struct {
	PathSet            *PathSet
	CriticalDuration   int
	CriticalPaths      []int    // indices into PathSet.Paths, ascending
	CriticalActivities []string // interior activities on any critical path, declaration order
	Stats              *StatisticsTable
	Waves              []Wave // activities grouped by early start
}

// IsCriticalPath reports whether path index i is one of the critical paths.
func (s *Schedule) IsCriticalPath(i int) bool {
	for _, c := range s.CriticalPaths {
		if c == i {
			return true
		}
	}
	return false
}

// Wave represents a group of activities that share an early start day.
type Wave struct {
	Index      int      `json:"index"`
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical activities
}
