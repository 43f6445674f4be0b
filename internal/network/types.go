package network

// Extreme is the duration that marks a network's Start or End activity.
const Extreme = -1

// Activity is a single task of the project network.
type Activity struct {
	Name     string `json:"name" yaml:"name"`
	Duration int    `json:"duration" yaml:"duration"` // days; Extreme for Start/End
}

// IsExtreme reports whether the activity is a Start/End sentinel.
func (a Activity) IsExtreme() bool {
	return a.Duration == Extreme
}

// Weight is the activity's contribution to a path's length.
// Extremes and non-positive durations count as zero.
func (a Activity) Weight() int {
	if a.Duration > 0 {
		return a.Duration
	}
	return 0
}

// Edge is a precedence pair: From must occur before To.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Network is an activity table plus its precedence set, with the
// Start and End extremes resolved in declaration order.
type Network struct {
	Table      *ActivityTable
	Precedence *PrecedenceSet
	Start      string // empty when no extreme was declared
	End        string // empty when fewer than two extremes were declared
}
