package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/scenario"
)

var (
	// CLI flags for the run
	seed         int64   // Seed for all stochastic draws
	horizon      float64 // Total simulation horizon (simulated time units)
	logLevel     string  // Log verbosity level
	scenarioPath string  // YAML scenario file; empty runs the built-in default
	eventsPath   string  // Optional JSON dump of the event log
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for manufacturing production systems",
}

// runCmd executes one simulation run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a production-system simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultConfig()
		if scenarioPath != "" {
			spec, err := scenario.Load(scenarioPath)
			if err != nil {
				logrus.Fatalf("unable to load scenario: %v", err)
			}
			cfg = spec.Config
			// Flags win over scenario values only when set explicitly.
			if spec.Seed != 0 && !cmd.Flags().Changed("seed") {
				seed = spec.Seed
			}
			if spec.Horizon != 0 && !cmd.Flags().Changed("horizon") {
				horizon = spec.Horizon
			}
		}

		logrus.Infof("Starting simulation with seed=%d, horizon=%v", seed, horizon)
		startTime := time.Now()

		log, metrics, err := sim.Run(cfg, seed, horizon)
		if err != nil {
			logrus.Fatalf("simulation aborted: %v", err)
		}

		metrics.Print(ids(cfg.Resources, func(r sim.ResourceConfig) string { return r.ID }),
			ids(cfg.Sources, func(s sim.SourceConfig) string { return s.ID }),
			ids(cfg.Sinks, func(s sim.SinkConfig) string { return s.ID }))

		if eventsPath != "" {
			data, err := json.MarshalIndent(log.Records(), "", "  ")
			if err != nil {
				logrus.Fatalf("unable to encode event log: %v", err)
			}
			if err := os.WriteFile(eventsPath, data, 0o644); err != nil {
				logrus.Fatalf("unable to write event log: %v", err)
			}
			logrus.Infof("wrote %d event records to %s", log.Len(), eventsPath)
		}

		logrus.Infof("Simulation complete in %v (wall clock).", time.Since(startTime))
	},
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for all stochastic draws")
	runCmd.Flags().Float64Var(&horizon, "horizon", 1000, "Total simulation horizon (simulated time units)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (empty runs the built-in default)")
	runCmd.Flags().StringVar(&eventsPath, "events", "", "Write the event log as JSON to this path")

	rootCmd.AddCommand(runCmd)
}
