package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/tracker"
	"github.com/joshharrison/pathloom/internal/ui"
)

// Reporter renders a schedule and, optionally, a replayed execution log.
type Reporter struct {
	RunID    string
	Schedule *cpm.Schedule
	Reports  []tracker.DayReport
}

// New creates a Reporter with a fresh run id. reports may be nil.
func New(schedule *cpm.Schedule, reports []tracker.DayReport) *Reporter {
	return &Reporter{
		RunID:    uuid.NewString(),
		Schedule: schedule,
		Reports:  reports,
	}
}

// PrintPaths writes every enumerated path, critical ones marked.
func (r *Reporter) PrintPaths(w io.Writer) {
	ps := r.Schedule.PathSet
	fmt.Fprintf(w, "%s %s\n", ui.BoldCyan("🛤  Paths"), ui.Dim(fmt.Sprintf("(%d)", len(ps.Paths))))
	if ps.Degenerate() {
		fmt.Fprintf(w, "  %s\n", ui.Yellow("network has no start or no end activity"))
		return
	}
	for i, p := range ps.Paths {
		fmt.Fprintf(w, "  %s [%d] %s %s\n",
			ui.CriticalMark(r.Schedule.IsCriticalPath(i)), i, p.String(),
			ui.Dim(fmt.Sprintf("(%d)", ps.Weight(i))))
	}
}

// PrintPlan writes the critical paths, the statistics table and the waves.
func (r *Reporter) PrintPlan(w io.Writer) {
	s := r.Schedule
	fmt.Fprintf(w, "%s duration(%s)\n", ui.BoldCyan("⚡ Critical path(s):"), ui.Bold(s.CriticalDuration))
	for _, i := range s.CriticalPaths {
		fmt.Fprintf(w, "    [%d]: %s\n", i, r.weightedPath(s.PathSet.Paths[i]))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %4s %4s %4s %4s %4s %5s\n", ui.BoldWhite(fmt.Sprintf("%-20s", "ACTIVITY")), "DUR", "ES", "EF", "LS", "LF", "SLACK")
	for _, st := range s.Stats.All() {
		if !st.Scheduled() {
			fmt.Fprintf(w, "  %-20s %4d %s\n", st.Activity, st.Duration, ui.Dim("not on any path"))
			continue
		}
		fmt.Fprintf(w, "%s %-20s %4d %4d %4d %4d %4d %5s\n",
			ui.CriticalMark(st.IsCritical), st.Activity, st.Duration,
			st.EarlyStart, st.EarlyFinish, st.LateStart, st.LateFinish, ui.Slack(st.Slack))
	}
	fmt.Fprintln(w)

	for _, wave := range s.Waves {
		critical := ""
		if wave.IsCritical {
			critical = ui.BoldYellow(" ⚡")
		}
		names := make([]string, len(wave.Activities))
		for i, n := range wave.Activities {
			names[i] = ui.ActivityName(n)
		}
		fmt.Fprintf(w, "  🌊 %s %d %s%s  %s\n", ui.BoldWhite("WAVE"), wave.Index+1,
			ui.Dim(fmt.Sprintf("(day %d)", wave.Day)), critical, strings.Join(names, ", "))
	}
}

// weightedPath renders p as Start(-1) - A(3) - End(-1).
func (r *Reporter) weightedPath(p cpm.Path) string {
	table := r.Schedule.PathSet.Network.Table
	parts := make([]string, len(p))
	for i, name := range p {
		a, _ := table.Lookup(name)
		parts[i] = fmt.Sprintf("%s(%d)", name, a.Duration)
	}
	return strings.Join(parts, " - ")
}

// PrintDay writes one replayed day: finishes, starts, the in-progress
// list, then bound notices.
func PrintDay(w io.Writer, d tracker.DayReport) {
	fmt.Fprintf(w, "📅 %s %d\n", ui.BoldWhite("DAY"), d.Day)
	for _, dev := range d.Finished {
		fmt.Fprintf(w, "    %s %s\n", ui.ClassIcon(string(dev.Class)), dev.String())
	}
	for _, dev := range d.Started {
		fmt.Fprintf(w, "    %s %s\n", ui.ClassIcon(string(dev.Class)), dev.String())
	}
	if len(d.InProgress) > 0 {
		names := make([]string, len(d.InProgress))
		for i, n := range d.InProgress {
			names[i] = ui.ActivityName(n)
		}
		fmt.Fprintf(w, "    %s in progress: %s\n", ui.Cyan("●"), strings.Join(names, ", "))
	}
	for _, n := range d.Notices {
		fmt.Fprintf(w, "    %s %s\n", ui.Magenta("⏰"), n.String())
	}
}

// PrintTracking writes every replayed day followed by a tally per class.
func (r *Reporter) PrintTracking(w io.Writer) {
	for _, d := range r.Reports {
		PrintDay(w, d)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", r.Summary())
}

// Summary returns a one-line tally of the replayed events.
func (r *Reporter) Summary() string {
	counts := make(map[tracker.Class]int)
	events := 0
	for _, d := range r.Reports {
		for _, dev := range append(append([]tracker.Deviation{}, d.Finished...), d.Started...) {
			counts[dev.Class]++
			events++
		}
	}
	late := counts[tracker.AfterLate]
	status := ui.BoldGreen("on schedule")
	if late > 0 {
		status = ui.BoldRed(fmt.Sprintf("%d late", late))
	}
	return fmt.Sprintf("%s, %s: %s  %s  %s  %s  %s | %s",
		tracker.Plural(len(r.Reports), "day"), tracker.Plural(events, "event"),
		ui.Green(fmt.Sprintf("%d on early", counts[tracker.OnEarly])),
		ui.Green(fmt.Sprintf("%d ahead", counts[tracker.BeforeEarly])),
		ui.Yellow(fmt.Sprintf("%d within slack", counts[tracker.BeforeLate])),
		ui.Yellow(fmt.Sprintf("%d on late", counts[tracker.OnLate])),
		ui.Red(fmt.Sprintf("%d after late", late)),
		status)
}

// JSON returns the machine-readable schedule and tracking output.
func (r *Reporter) JSON() ([]byte, error) {
	type pathOut struct {
		Index      int      `json:"index"`
		Names      []string `json:"names"`
		Weight     int      `json:"weight"`
		IsCritical bool     `json:"is_critical"`
	}

	type output struct {
		RunID              string               `json:"run_id"`
		Start              string               `json:"start"`
		End                string               `json:"end"`
		CriticalDuration   int                  `json:"critical_duration"`
		CriticalPaths      []int                `json:"critical_paths"`
		CriticalActivities []string             `json:"critical_activities"`
		Paths              []pathOut            `json:"paths"`
		Statistics         *cpm.StatisticsTable `json:"statistics"`
		Waves              []cpm.Wave           `json:"waves"`
		Days               []tracker.DayReport  `json:"days,omitempty"`
	}

	s := r.Schedule
	o := output{
		RunID:              r.RunID,
		Start:              s.PathSet.Start(),
		End:                s.PathSet.End(),
		CriticalDuration:   s.CriticalDuration,
		CriticalPaths:      s.CriticalPaths,
		CriticalActivities: s.CriticalActivities,
		Statistics:         s.Stats,
		Waves:              s.Waves,
		Days:               r.Reports,
	}
	for i, p := range s.PathSet.Paths {
		o.Paths = append(o.Paths, pathOut{
			Index:      i,
			Names:      p,
			Weight:     s.PathSet.Weight(i),
			IsCritical: s.IsCriticalPath(i),
		})
	}

	return json.MarshalIndent(o, "", "  ")
}
