package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/config"
	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/logging"
	"github.com/joshharrison/pathloom/internal/netfile"
	"github.com/joshharrison/pathloom/internal/ui"
)

var (
	flagConfig   string
	flagMaxPaths int
	flagMaxSteps int
	flagVerbose  bool
	flagNoColor  bool
	flagJSON     bool
	flagOutput   string
	flagFormat   string

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathloom",
		Short: "Critical path scheduling for project networks",
		Long: `Pathloom reads a project network (activities with durations and the
precedence pairs between them), enumerates every path from Start to End,
finds the critical path(s) and each activity's early and late bounds, and
replays an execution log day by day against that schedule.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "pathloom.yaml", "Config file path")
	root.PersistentFlags().IntVar(&flagMaxPaths, "max-paths", 0, "Max enumerated paths (0 disables the ceiling)")
	root.PersistentFlags().IntVar(&flagMaxSteps, "max-steps", 0, "Max enumeration steps (0 disables the ceiling)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	root.AddCommand(pathsCmd())
	root.AddCommand(planCmd())
	root.AddCommand(trackCmd())
	root.AddCommand(vizCmd())
	root.AddCommand(viewCmd())
	root.AddCommand(inferDepsCmd())

	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("max-paths") {
		cfg.Limits.MaxPaths = flagMaxPaths
	}
	if flags.Changed("max-steps") {
		cfg.Limits.MaxSteps = flagMaxSteps
	}
	if flagNoColor {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ui.SetColor(cfg.Output.Color)

	logCfg := cfg.Logging
	if flagVerbose {
		logCfg = logging.Verbose(logCfg)
	}
	logger, err = logging.New(logCfg)
	if err != nil {
		return err
	}
	logger.Debug("config loaded",
		zap.String("path", flagConfig),
		zap.Int("max_paths", cfg.Limits.MaxPaths),
		zap.Int("max_steps", cfg.Limits.MaxSteps))
	return nil
}

func engineOptions() []cpm.Option {
	return []cpm.Option{
		cpm.WithLimits(cfg.CPMLimits()),
		cpm.WithLogger(logger),
	}
}

// loadSchedule is shared logic for every command that needs a schedule.
func loadSchedule(path string) (*netfile.Definition, *cpm.Schedule, error) {
	def, err := netfile.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: %w", err)
	}

	ps, err := cpm.BuildNetwork(def.Activities, def.Edges, engineOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("build network: %w", err)
	}

	sched, err := cpm.ComputeSchedule(ps, engineOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("CPM analysis: %w", err)
	}
	return def, sched, nil
}

// --- Output helpers ---

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func writeOrPrint(data []byte) error {
	if flagOutput != "" {
		if err := os.WriteFile(flagOutput, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", flagOutput)
		return nil
	}
	fmt.Println(string(data))
	return nil
}
