package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/claude"
	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/reporter"
	"github.com/joshharrison/pathloom/internal/tracker"
	"github.com/joshharrison/pathloom/internal/ui"
)

func pathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths FILE",
		Short: "List every path from Start to End",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sched, err := loadSchedule(args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				type pathOut struct {
					Index  int      `json:"index"`
					Names  []string `json:"names"`
					Weight int      `json:"weight"`
				}
				out := make([]pathOut, 0, len(sched.PathSet.Paths))
				for i, p := range sched.PathSet.Paths {
					out = append(out, pathOut{Index: i, Names: p, Weight: sched.PathSet.Weight(i)})
				}
				return outputJSON(out)
			}

			reporter.New(sched, nil).PrintPaths(os.Stdout)
			return nil
		},
	}
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan FILE",
		Short: "Compute critical paths, activity bounds and waves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sched, err := loadSchedule(args[0])
			if err != nil {
				return err
			}
			rpt := reporter.New(sched, nil)

			if flagJSON || flagOutput != "" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				return writeOrPrint(data)
			}

			fmt.Printf("🎯 %s\n", ui.BoldCyan("Pathloom Schedule"))
			fmt.Println(ui.Cyan("═════════════════════"))
			fmt.Println()
			rpt.PrintPaths(os.Stdout)
			fmt.Println()
			rpt.PrintPlan(os.Stdout)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagOutput, "output", "", "Save JSON schedule to file")

	return cmd
}

func trackCmd() *cobra.Command {
	var (
		flagStep    bool
		flagUntil   int
		flagNarrate bool
		flagModel   string
	)

	cmd := &cobra.Command{
		Use:   "track FILE",
		Short: "Replay the execution log day by day against the schedule",
		Long: `Replays the execution section of FILE. Every actual start and finish is
classified against the activity's early and late bounds, activities in
progress are listed, and bounds falling on the day are announced.

With --step, the replay pauses after each day until Enter is pressed
(q then Enter stops).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, sched, err := loadSchedule(args[0])
			if err != nil {
				return err
			}

			events := def.Events
			if flagUntil > 0 {
				events = eventsUntil(events, flagUntil)
			}
			if len(events) == 0 {
				return fmt.Errorf("%s has no execution log to replay", args[0])
			}

			stats := sched.Stats.Clone()
			var reports []tracker.DayReport
			if flagStep {
				reports, err = stepThrough(stats, events, cmd.InOrStdin(), cmd.OutOrStdout())
			} else {
				reports, err = tracker.Track(stats, events, tracker.WithLogger(logger))
			}
			if err != nil {
				return fmt.Errorf("track: %w", err)
			}

			rpt := reporter.New(sched, reports)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if !flagStep {
				rpt.PrintTracking(os.Stdout)
			} else {
				fmt.Println(rpt.Summary())
			}

			if flagNarrate {
				return narrate(cmd.Context(), rpt, flagModel)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagStep, "step", false, "Pause after each day")
	cmd.Flags().IntVar(&flagUntil, "until", 0, "Replay only days up to and including DAY")
	cmd.Flags().BoolVar(&flagNarrate, "narrate", false, "Ask Claude for a narrative of the replay")
	cmd.Flags().StringVar(&flagModel, "model", "", "Claude model for --narrate")

	return cmd
}

func eventsUntil(events []tracker.DayEvent, day int) []tracker.DayEvent {
	var out []tracker.DayEvent
	for _, ev := range events {
		if ev.Day <= day {
			out = append(out, ev)
		}
	}
	return out
}

// stepThrough validates the whole log, then applies one day per Enter.
func stepThrough(stats *cpm.StatisticsTable, events []tracker.DayEvent, in io.Reader, out io.Writer) ([]tracker.DayReport, error) {
	tr := tracker.New(stats, tracker.WithLogger(logger))
	if err := tr.Validate(events); err != nil {
		return nil, err
	}

	prompt := bufio.NewReader(in)
	pausing := true
	reports := make([]tracker.DayReport, 0, len(events))
	for i, ev := range events {
		r, err := tr.Step(ev)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
		reporter.PrintDay(out, r)

		if !pausing || i == len(events)-1 {
			continue
		}
		fmt.Fprintf(out, "%s ", ui.Dim("[Enter] next day, [q] stop"))
		line, err := prompt.ReadString('\n')
		switch {
		case strings.TrimSpace(line) == "q":
			return reports, nil
		case err == io.EOF:
			// Input closed: replay the rest without pausing.
			pausing = false
		case err != nil:
			return nil, fmt.Errorf("read prompt: %w", err)
		}
	}
	fmt.Fprintln(out)
	return reports, nil
}

// narrate renders the plan and replay without color and asks Claude to
// summarise them.
func narrate(ctx context.Context, rpt *reporter.Reporter, model string) error {
	client, err := claude.NewClient("", model)
	if err != nil {
		return err
	}

	ui.SetColor(false)
	var plan, tracking bytes.Buffer
	rpt.PrintPlan(&plan)
	rpt.PrintTracking(&tracking)
	ui.SetColor(cfg.Output.Color)

	fmt.Printf("\n🔍 Asking Claude for a narrative...\n")
	text, err := client.SummariseTracking(ctx, plan.String(), tracking.String())
	if err != nil {
		return fmt.Errorf("narrate: %w", err)
	}
	logger.Debug("narrative received", zap.Int("chars", len(text)))
	fmt.Printf("\n💡 %s\n%s\n", ui.BoldWhite("Narrative:"), text)
	return nil
}
