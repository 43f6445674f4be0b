package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/tracker"
	"github.com/joshharrison/pathloom/internal/ui"
	"github.com/joshharrison/pathloom/internal/viewer"
)

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz FILE",
		Short: "Print the precedence graph as ASCII or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sched, err := loadSchedule(args[0])
			if err != nil {
				return err
			}

			switch flagFormat {
			case "dot":
				printDOT(os.Stdout, sched)
			case "ascii":
				printASCIIDAG(os.Stdout, sched)
			default:
				return fmt.Errorf("unknown format %q (ascii, dot)", flagFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")

	return cmd
}

func viewCmd() *cobra.Command {
	var (
		flagPort   int
		flagNoOpen bool
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Serve the schedule as JSON for a browser visualiser",
		Long: `Computes the schedule of FILE, replays its execution log if present, and
serves /graph, /schedule and /report on --port. If a viewer is already
listening there, the network is POSTed to it instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, sched, err := loadSchedule(args[0])
			if err != nil {
				return err
			}

			addr := fmt.Sprintf("localhost:%d", flagPort)
			if viewer.IsPortOpen(addr) {
				if err := viewer.PostNetwork("http://"+addr, def); err != nil {
					return err
				}
				fmt.Printf("✅ Network sent to viewer on port %d\n", flagPort)
				return nil
			}

			var reports []tracker.DayReport
			if len(def.Events) > 0 {
				reports, err = tracker.Track(sched.Stats, def.Events, tracker.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("track: %w", err)
				}
			}

			h := viewer.New(sched, reports,
				viewer.WithLogger(logger),
				viewer.WithEngineOptions(engineOptions()...))
			url, err := viewer.Start(h, flagPort)
			if err != nil {
				return err
			}
			logger.Info("viewer listening", zap.String("url", url))
			fmt.Printf("🖥️  Serving %s on %s %s\n", args[0], ui.Bold(url), ui.Dim("(Ctrl-C to stop)"))

			if !flagNoOpen {
				openBrowser(url + "/graph")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().IntVar(&flagPort, "port", 7171, "Viewer port")
	cmd.Flags().BoolVar(&flagNoOpen, "no-open", false, "Skip opening browser")

	return cmd
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Debug("open browser", zap.Error(err))
	}
}

func printASCIIDAG(w io.Writer, s *cpm.Schedule) {
	n := s.PathSet.Network
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Precedence Graph"))
	fmt.Fprintln(w, ui.Cyan("════════════════"))
	fmt.Fprintln(w)

	printNode := func(name string, critical bool) {
		a, _ := n.Table.Lookup(name)
		fmt.Fprintf(w, "  %s [%s] %s\n", ui.CriticalMark(critical), ui.ActivityName(name), ui.Dim(fmt.Sprintf("%dd", a.Weight())))
		for _, next := range n.Precedence.Successors(name) {
			fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(next))
		}
	}

	if n.Start != "" {
		fmt.Fprintf(w, "%s %s %s\n", ui.Cyan("──"), "Start", ui.Cyan("──────────────────────────────"))
		printNode(n.Start, false)
		fmt.Fprintln(w)
	}
	for _, wave := range s.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d, day %d %s\n", ui.Cyan("──"), wave.Index+1, wave.Day, ui.Cyan("──────────────────────"))
		for _, name := range wave.Activities {
			st, _ := s.Stats.Get(name)
			printNode(name, st.IsCritical)
		}
		fmt.Fprintln(w)
	}

	var off []string
	for _, st := range s.Stats.All() {
		if !st.Scheduled() {
			off = append(off, st.Activity)
		}
	}
	if len(off) > 0 {
		fmt.Fprintf(w, "%s %s %s\n", ui.Cyan("──"), "Not on any path", ui.Cyan("───────────────────"))
		for _, name := range off {
			printNode(name, false)
		}
		fmt.Fprintln(w)
	}
}

func printDOT(w io.Writer, s *cpm.Schedule) {
	n := s.PathSet.Network
	fmt.Fprintln(w, "digraph pathloom {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	critical := func(name string) bool {
		if name == n.Start || name == n.End {
			return len(s.CriticalPaths) > 0
		}
		st, ok := s.Stats.Get(name)
		return ok && st.IsCritical
	}

	for _, a := range n.Table.Activities() {
		var label string
		if a.IsExtreme() {
			label = a.Name
		} else if st, ok := s.Stats.Get(a.Name); ok && st.Scheduled() {
			label = fmt.Sprintf("%s\\n%dd  ES %d  LS %d", a.Name, a.Duration, st.EarlyStart, st.LateStart)
		} else {
			label = fmt.Sprintf("%s\\n%dd", a.Name, a.Duration)
		}
		attrs := fmt.Sprintf(`label="%s"`, label)
		if a.IsExtreme() {
			attrs += ", shape=circle"
		}
		if critical(a.Name) {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", a.Name, attrs)
	}

	fmt.Fprintln(w)

	onCriticalPath := make(map[[2]string]bool)
	for _, i := range s.CriticalPaths {
		p := s.PathSet.Paths[i]
		for j := 0; j+1 < len(p); j++ {
			onCriticalPath[[2]string{p[j], p[j+1]}] = true
		}
	}
	for _, e := range n.Precedence.Edges() {
		style := ""
		if onCriticalPath[[2]string{e.From, e.To}] {
			style = ` [color=red, penwidth=2]`
		}
		fmt.Fprintf(w, "  %q -> %q%s;\n", e.From, e.To, style)
	}

	fmt.Fprintln(w, "}")
}
