package cpm

import (
	"encoding/json"

	"github.com/joshharrison/pathloom/internal/network"
)

// Statistics holds the schedule bounds and execution flags of one interior
// activity. Times are whole days, day 1 being project start.
//
// Bounds only move in one direction while a schedule is computed: early
// start keeps the largest candidate, late start keeps the smallest. Finish
// bounds and slack are derived after every accepted candidate.
type Statistics struct {
	Activity    string `json:"activity"`
	Duration    int    `json:"duration"`
	Started     bool   `json:"started"`
	Finished    bool   `json:"finished"`
	EarlyStart  int    `json:"early_start"`
	EarlyFinish int    `json:"early_finish"`
	LateStart   int    `json:"late_start"`
	LateFinish  int    `json:"late_finish"`
	Slack       int    `json:"slack"`
	OnPath      bool   `json:"on_path"` // false when no Start-to-End path reaches the activity
	IsCritical  bool   `json:"is_critical"`
	Wave        int    `json:"wave"` // -1 until scheduled

	earlySet bool
	lateSet  bool
}

func (s *Statistics) span() int {
	if s.Duration > 0 {
		return s.Duration
	}
	return 0
}

// ProposeEarlyStart records es when no early start is known yet or es is
// later than the current one. It reports whether the bound moved.
func (s *Statistics) ProposeEarlyStart(es int) bool {
	if s.earlySet && es <= s.EarlyStart {
		return false
	}
	s.earlySet = true
	s.OnPath = true
	s.EarlyStart = es
	s.EarlyFinish = es + s.span()
	s.updateSlack()
	return true
}

// ProposeLateStart records ls when no late start is known yet or ls is
// earlier than the current one. It reports whether the bound moved.
func (s *Statistics) ProposeLateStart(ls int) bool {
	if s.lateSet && ls >= s.LateStart {
		return false
	}
	s.lateSet = true
	s.OnPath = true
	s.LateStart = ls
	s.LateFinish = ls + s.span()
	s.updateSlack()
	return true
}

// Scheduled reports whether both bounds have been computed.
func (s *Statistics) Scheduled() bool {
	return s.earlySet && s.lateSet
}

func (s *Statistics) updateSlack() {
	if s.earlySet && s.lateSet {
		s.Slack = s.LateStart - s.EarlyStart
	}
}

// StatisticsTable owns one Statistics entry per interior activity for a
// single computation. It is built fresh for every network and handed by
// reference to the tracker, which flips the Started/Finished flags.
type StatisticsTable struct {
	order  []string
	byName map[string]*Statistics
}

// NewStatisticsTable creates an empty entry for every interior activity.
func NewStatisticsTable(table *network.ActivityTable) *StatisticsTable {
	interior := table.Interior()
	st := &StatisticsTable{
		order:  make([]string, 0, len(interior)),
		byName: make(map[string]*Statistics, len(interior)),
	}
	for _, a := range interior {
		st.order = append(st.order, a.Name)
		st.byName[a.Name] = &Statistics{Activity: a.Name, Duration: a.Duration, Wave: -1}
	}
	return st
}

// Get returns the entry for name.
func (st *StatisticsTable) Get(name string) (*Statistics, bool) {
	s, ok := st.byName[name]
	return s, ok
}

// Len returns the number of entries.
func (st *StatisticsTable) Len() int {
	return len(st.order)
}

// Names returns activity names in declaration order.
func (st *StatisticsTable) Names() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// All returns the entries in declaration order.
func (st *StatisticsTable) All() []*Statistics {
	out := make([]*Statistics, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, st.byName[name])
	}
	return out
}

// Clone returns a deep copy, so a schedule can be replayed more than once.
func (st *StatisticsTable) Clone() *StatisticsTable {
	c := &StatisticsTable{
		order:  make([]string, len(st.order)),
		byName: make(map[string]*Statistics, len(st.byName)),
	}
	copy(c.order, st.order)
	for name, s := range st.byName {
		dup := *s
		c.byName[name] = &dup
	}
	return c
}

// MarshalJSON renders the table as an array in declaration order.
func (st *StatisticsTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(st.All())
}
