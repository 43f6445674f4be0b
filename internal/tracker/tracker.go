// Package tracker replays an execution log against a computed schedule and
// classifies every actual start and finish against the activity's bounds.
package tracker

import (
	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/schederr"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// Tracker consumes day events in ascending order and mutates the
// Started/Finished flags of the statistics table it was given.
type Tracker struct {
	stats   *cpm.StatisticsTable
	lastDay int
	logger  *zap.Logger
}

// New creates a Tracker over stats. The table is shared, not copied; pass
// stats.Clone() to keep the original untouched.
func New(stats *cpm.StatisticsTable, opts ...Option) *Tracker {
	t := &Tracker{stats: stats, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LastDay returns the last day replayed, 0 before the first step.
func (t *Tracker) LastDay() int {
	return t.lastDay
}

// Track replays events against stats and returns one report per event.
// The whole log is validated first; nothing is applied if any event is
// out of order, repeats a day or names an unknown activity.
func Track(stats *cpm.StatisticsTable, events []DayEvent, opts ...Option) ([]DayReport, error) {
	t := New(stats, opts...)
	if err := t.Validate(events); err != nil {
		return nil, err
	}
	reports := make([]DayReport, 0, len(events))
	for _, ev := range events {
		r, err := t.Step(ev)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Validate checks events against the tracker's current state without
// applying them.
func (t *Tracker) Validate(events []DayEvent) error {
	started := make(map[string]bool)
	finished := make(map[string]bool)
	last := t.lastDay
	for _, ev := range events {
		if err := t.check(ev, last, started, finished); err != nil {
			return err
		}
		last = ev.Day
		for _, name := range ev.Started {
			started[name] = true
		}
		for _, name := range ev.Finished {
			finished[name] = true
		}
	}
	return nil
}

// check validates a single event given the previous day and the names
// already started or finished earlier in the same log.
func (t *Tracker) check(ev DayEvent, last int, started, finished map[string]bool) error {
	if ev.Day < 1 {
		return schederr.Sequencingf("day %d: days are counted from 1", ev.Day)
	}
	if ev.Day == last {
		return schederr.Sequencingf("day %d appears more than once", ev.Day)
	}
	if ev.Day < last {
		return schederr.Sequencingf("day %d comes after day %d", ev.Day, last)
	}

	for _, name := range dedupeNames(ev.Started) {
		s, err := t.lookup(ev.Day, name)
		if err != nil {
			return err
		}
		if s.Started || started[name] {
			return schederr.Configf("day %d: activity %q already started", ev.Day, name)
		}
	}
	for _, name := range dedupeNames(ev.Finished) {
		s, err := t.lookup(ev.Day, name)
		if err != nil {
			return err
		}
		if s.Finished || finished[name] {
			return schederr.Configf("day %d: activity %q already finished", ev.Day, name)
		}
	}
	return nil
}

func (t *Tracker) lookup(day int, name string) (*cpm.Statistics, error) {
	s, ok := t.stats.Get(name)
	if !ok {
		return nil, schederr.Configf("day %d: %q is not a scheduled activity", day, name)
	}
	if !s.Scheduled() {
		return nil, schederr.Configf("day %d: activity %q is on no path from start to end", day, name)
	}
	return s, nil
}

// Step applies one day. Order: finishes, in-progress snapshot, starts,
// then notices for bounds that fall on the day.
func (t *Tracker) Step(ev DayEvent) (DayReport, error) {
	if err := t.check(ev, t.lastDay, nil, nil); err != nil {
		return DayReport{}, err
	}
	day := ev.Day
	report := DayReport{Day: day}

	for _, name := range dedupeNames(ev.Finished) {
		s, _ := t.stats.Get(name)
		s.Finished = true
		report.Finished = append(report.Finished, classify(name, EventFinish, day, s.EarlyFinish, s.LateFinish))
	}

	// Snapshot before today's starts, so same-day start and finish is not
	// listed as in progress.
	for _, s := range t.stats.All() {
		if s.Started && !s.Finished {
			report.InProgress = append(report.InProgress, s.Activity)
		}
	}

	for _, name := range dedupeNames(ev.Started) {
		s, _ := t.stats.Get(name)
		s.Started = true
		report.Started = append(report.Started, classify(name, EventStart, day, s.EarlyStart, s.LateStart))
	}

	for _, s := range t.stats.All() {
		if !s.Scheduled() || s.Started {
			continue
		}
		if day == s.EarlyStart {
			report.Notices = append(report.Notices, Notice{Activity: s.Activity, Bound: BoundEarlyStart, Day: day})
		}
		if day == s.LateStart {
			report.Notices = append(report.Notices, Notice{Activity: s.Activity, Bound: BoundLateStart, Day: day})
		}
	}
	for _, s := range t.stats.All() {
		if !s.Scheduled() || s.Finished {
			continue
		}
		if day == s.EarlyFinish {
			report.Notices = append(report.Notices, Notice{Activity: s.Activity, Bound: BoundEarlyFinish, Day: day})
		}
		if day == s.LateFinish {
			report.Notices = append(report.Notices, Notice{Activity: s.Activity, Bound: BoundLateFinish, Day: day})
		}
	}

	t.lastDay = day
	t.logger.Debug("replayed day",
		zap.Int("day", day),
		zap.Int("finished", len(report.Finished)),
		zap.Int("started", len(report.Started)),
		zap.Int("in_progress", len(report.InProgress)),
		zap.Int("notices", len(report.Notices)))
	return report, nil
}

// classify places an actual day against an early and a late bound. The
// checks run in a fixed order: on the early bound, on the late bound,
// ahead of the early bound, ahead of the late bound, past the late bound.
func classify(name string, kind EventKind, day, early, late int) Deviation {
	d := Deviation{Activity: name, Event: kind, Day: day}
	deltaEarly := day - early
	deltaLate := day - late
	switch {
	case deltaEarly == 0:
		d.Class, d.Bound = OnEarly, early
	case deltaLate == 0:
		d.Class, d.Bound = OnLate, late
	case deltaEarly < 0:
		d.Class, d.Bound, d.Days = BeforeEarly, early, -deltaEarly
	case deltaLate < 0:
		d.Class, d.Bound, d.Days = BeforeLate, late, -deltaLate
	default:
		d.Class, d.Bound, d.Days = AfterLate, late, deltaLate
	}
	return d
}

// dedupeNames collapses repeated names, keeping first-seen order.
func dedupeNames(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
