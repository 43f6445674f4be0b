package tracker

import "fmt"

// DayEvent records which activities actually started and finished on a day.
type DayEvent struct {
	Day      int      `json:"day" yaml:"day"`
	Started  []string `json:"started,omitempty" yaml:"started,omitempty"`
	Finished []string `json:"finished,omitempty" yaml:"finished,omitempty"`
}

// EventKind tells whether a deviation concerns a start or a finish.
type EventKind string

const (
	EventStart  EventKind = "start"
	EventFinish EventKind = "finish"
)

// Class is the timing category of an actual start or finish relative to the
// activity's early and late bounds. Exactly one class applies per event.
type Class string

const (
	OnEarly     Class = "on_early"     // on the early bound
	OnLate      Class = "on_late"      // on the late bound
	BeforeEarly Class = "before_early" // ahead of the early bound
	BeforeLate  Class = "before_late"  // between the bounds
	AfterLate   Class = "after_late"   // past the late bound
)

// Deviation is the classification of one actual start or finish.
type Deviation struct {
	Activity string    `json:"activity"`
	Event    EventKind `json:"event"`
	Class    Class     `json:"class"`
	Day      int       `json:"day"`
	Bound    int       `json:"bound"` // the early or late bound compared against
	Days     int       `json:"days"`  // distance to Bound, 0 when on it
}

func (d Deviation) String() string {
	verb, early, late := "started", "early start", "late start"
	if d.Event == EventFinish {
		verb, early, late = "finished", "early finish", "late finish"
	}
	switch d.Class {
	case OnEarly:
		return fmt.Sprintf("%s %s exactly on its %s (day %d)", d.Activity, verb, early, d.Bound)
	case OnLate:
		return fmt.Sprintf("%s %s exactly on its %s (day %d)", d.Activity, verb, late, d.Bound)
	case BeforeEarly:
		return fmt.Sprintf("%s %s %s before its %s (day %d)", d.Activity, verb, days(d.Days), early, d.Bound)
	case BeforeLate:
		return fmt.Sprintf("%s %s %s before its %s (day %d)", d.Activity, verb, days(d.Days), late, d.Bound)
	default:
		return fmt.Sprintf("%s %s %s after its %s (day %d)", d.Activity, verb, days(d.Days), late, d.Bound)
	}
}

func days(n int) string {
	return Plural(n, "day")
}

// Plural renders a count with its unit, adding an s unless n is 1.
func Plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Bound names one of an activity's four schedule bounds.
type Bound string

const (
	BoundEarlyStart  Bound = "early_start"
	BoundLateStart   Bound = "late_start"
	BoundEarlyFinish Bound = "early_finish"
	BoundLateFinish  Bound = "late_finish"
)

// Notice flags an activity whose bound falls on the current day while the
// matching event has not happened yet.
type Notice struct {
	Activity string `json:"activity"`
	Bound    Bound  `json:"bound"`
	Day      int    `json:"day"`
}

func (n Notice) String() string {
	var what string
	switch n.Bound {
	case BoundEarlyStart:
		what = "early start"
	case BoundLateStart:
		what = "late start"
	case BoundEarlyFinish:
		what = "early finish"
	default:
		what = "late finish"
	}
	return fmt.Sprintf("today (day %d) is the %s of %s", n.Day, what, n.Activity)
}

// DayReport is everything observed on one replayed day, in report order.
type DayReport struct {
	Day        int         `json:"day"`
	Finished   []Deviation `json:"finished"`
	Started    []Deviation `json:"started"`
	InProgress []string    `json:"in_progress"`
	Notices    []Notice    `json:"notices"`
}
