package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/w0fv1/GamblerSimulation/sim"
	"github.com/w0fv1/GamblerSimulation/sim/report"
)

var (
	runFlags     configFlags
	runLogLevel  string // Log verbosity level
	outputFormat string // table, csv, json or events
	outputPath   string // File to write results to; stdout when empty
)

// Output formats accepted by --format.
const (
	formatTable  = "table"
	formatCSV    = "csv"
	formatJSON   = "json"
	formatEvents = "events"
)

// runCmd executes one simulation in-process using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gambler's-ruin simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(runLogLevel)

		cfg, err := runFlags.resolve(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if !validFormat(outputFormat) {
			logrus.Fatalf("Unknown output format %q (want table, csv, json or events)", outputFormat)
		}

		out := io.Writer(os.Stdout)
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("Failed to create output file: %v", err)
			}
			defer f.Close()
			out = f
		}

		// Ctrl-C cancels the run; partial results are still written.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logrus.WithField("run_id", uuid.NewString())
		log.Infof("Starting run: %d levels in [%.2f, %.2f]", cfg.NumBalanceLevels, cfg.LowerLimit, cfg.UpperLimit)

		state, metrics, err := runSimulation(ctx, cfg, outputFormat, out)
		metrics.Print(os.Stderr)
		if err != nil {
			log.Fatalf("Simulation %s: %v", state, err)
		}
		if outputPath != "" {
			log.Infof("Results written to %s", outputPath)
		}
		log.Infof("Simulation %s.", state)
	},
}

func validFormat(f string) bool {
	switch f {
	case formatTable, formatCSV, formatJSON, formatEvents:
		return true
	}
	return false
}

// runSimulation drives one Simulator to its terminal event and writes the
// results to w in the given format. In events format every event is written
// as one JSON line as it arrives; the other formats are written at the end,
// so an aborted run still produces the rows it completed.
func runSimulation(ctx context.Context, cfg sim.Config, format string, w io.Writer) (sim.State, sim.Metrics, error) {
	s := sim.NewSimulator(cfg, nil)
	events, err := s.Start(ctx)
	if err != nil {
		return s.State(), sim.Metrics{}, err
	}

	table := report.NewTable()
	enc := json.NewEncoder(w)
	var failure string
	var writeErr error
	for ev := range events {
		if format == formatEvents && writeErr == nil {
			writeErr = enc.Encode(ev)
		}
		switch ev.Kind {
		case sim.EventProgress:
			logrus.Infof("Progress %d%%", ev.Progress)
		case sim.EventResult:
			table.Observe(ev)
		case sim.EventError:
			failure = ev.Message
		}
	}
	state := s.Wait()
	metrics := s.Metrics()

	if writeErr != nil {
		return state, metrics, fmt.Errorf("writing events: %w", writeErr)
	}
	switch format {
	case formatTable:
		writeErr = table.WriteText(w)
	case formatCSV:
		writeErr = table.WriteCSV(w)
	case formatJSON:
		writeErr = table.WriteJSON(w, cfg)
	}
	if writeErr != nil {
		return state, metrics, writeErr
	}
	if state == sim.StateFailed {
		return state, metrics, errors.New(failure)
	}
	return state, metrics, nil
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVar(&runLogLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&outputFormat, "format", formatTable, "Output format: table, csv, json or events")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write results to this file instead of stdout")

	rootCmd.AddCommand(runCmd)
}
