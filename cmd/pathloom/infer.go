package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshharrison/pathloom/internal/claude"
	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/netfile"
	"github.com/joshharrison/pathloom/internal/ui"
)

func inferDepsCmd() *cobra.Command {
	var (
		flagModel    string
		flagApplyTo  string
		flagFromFile string
	)

	cmd := &cobra.Command{
		Use:   "infer-deps FILE",
		Short: "Use Claude to infer precedence pairs from activity names",
		Long: `Sends the interior activities of FILE to Claude and infers which must
finish before others start. Inferred pairs are merged with the pairs already
in FILE; activities left without a predecessor are linked from Start and
those without a successor to End. A merge that creates a cycle is rejected.

By default runs in dry-run mode. Use --apply-to OUT to write the merged
network as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := netfile.Load(args[0])
			if err != nil {
				return fmt.Errorf("load network: %w", err)
			}

			summaries := claude.Summarise(def.Activities)
			if len(summaries) == 0 {
				return fmt.Errorf("no interior activities in %s", args[0])
			}

			var result *claude.InferResult
			if flagFromFile != "" {
				data, err := os.ReadFile(flagFromFile)
				if err != nil {
					return fmt.Errorf("read from-file: %w", err)
				}
				result = &claude.InferResult{}
				if err := json.Unmarshal(data, result); err != nil {
					return fmt.Errorf("parse from-file: %w", err)
				}
				fmt.Printf("📂 Loaded %s edges from %s\n", ui.Bold(len(result.Edges)), ui.Dim(flagFromFile))
			} else {
				fmt.Printf("🔍 Sending %s activities to Claude for precedence inference...\n", ui.Bold(len(summaries)))

				client, err := claude.NewClient("", flagModel)
				if err != nil {
					return err
				}

				result, err = client.InferPrecedence(cmd.Context(), summaries)
				if err != nil {
					return fmt.Errorf("infer precedence: %w", err)
				}
			}

			edges, err := result.Apply(def.Activities, def.Edges)
			if err != nil {
				return fmt.Errorf("apply inferred edges: %w", err)
			}
			merged := &netfile.Definition{Activities: def.Activities, Edges: edges, Events: def.Events}

			ps, err := cpm.BuildNetwork(merged.Activities, merged.Edges, engineOptions()...)
			if err != nil {
				return fmt.Errorf("build merged network: %w", err)
			}
			sched, err := cpm.ComputeSchedule(ps, engineOptions()...)
			if err != nil {
				return fmt.Errorf("CPM analysis: %w", err)
			}

			if flagJSON {
				out := struct {
					Edges            []claude.PrecedenceEdge `json:"inferred"`
					Summary          string                  `json:"summary"`
					Network          *netfile.Definition     `json:"network"`
					CriticalDuration int                     `json:"critical_duration"`
				}{
					Edges:            result.Edges,
					Summary:          result.Summary,
					Network:          merged,
					CriticalDuration: sched.CriticalDuration,
				}
				if err := outputJSON(out); err != nil {
					return err
				}
			} else {
				fmt.Printf("\n🔗 Inferred %s precedences, %d pairs after merging:\n\n",
					ui.Bold(len(result.Edges)), len(edges))
				for _, e := range result.Edges {
					fmt.Printf("  %s %s before %s  %s\n", ui.Cyan("→"), ui.BoldMagenta(e.From), ui.BoldMagenta(e.To), ui.Dim(e.Reason))
				}
				if result.Summary != "" {
					fmt.Printf("\n💡 %s %s\n", ui.BoldWhite("Summary:"), result.Summary)
				}
				fmt.Printf("⚡ Critical duration of the merged network: %s days across %d path(s)\n",
					ui.BoldYellow(sched.CriticalDuration), len(sched.CriticalPaths))
			}

			if flagApplyTo == "" {
				if !flagJSON {
					fmt.Printf("\n🎯 %s\n", ui.Yellow("Dry run: use --apply-to OUT to write the merged network."))
				}
				return nil
			}

			f, err := os.Create(flagApplyTo)
			if err != nil {
				return fmt.Errorf("create %s: %w", flagApplyTo, err)
			}
			defer f.Close()
			if err := netfile.WriteYAML(f, merged); err != nil {
				return err
			}
			if !flagJSON {
				fmt.Printf("\n🏁 Wrote %s\n", ui.BoldGreen(flagApplyTo))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagModel, "model", "", "Claude model (default: Sonnet)")
	cmd.Flags().StringVar(&flagApplyTo, "apply-to", "", "Write the merged network as YAML to this path")
	cmd.Flags().StringVar(&flagFromFile, "from-file", "", "Read inferred edges from a JSON file instead of calling Claude")

	return cmd
}
