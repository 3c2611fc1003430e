package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/w0fv1/GamblerSimulation/sim"
)

// configCmd prints a configuration file template
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultConfig(os.Stdout); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
	},
}

// writeDefaultConfig writes DefaultConfig with the step guard spelled out,
// in the format accepted by run --config.
func writeDefaultConfig(w io.Writer) error {
	cfg := sim.DefaultConfig()
	cfg.MaxSteps = sim.DefaultMaxSteps
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
