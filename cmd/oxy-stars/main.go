package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-stars/engine/config"
	"github.com/spf13/cobra"
)

// GLFW requires all window calls on the main thread.
func init() {
	runtime.LockOSThread()
}

// newRootCmd builds the command tree. run is called with the effective configuration when the
// root command is invoked without a subcommand.
func newRootCmd(run func(config.Config) error) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "oxy-stars",
		Short: "Interactive star field viewer",
		Long: `oxy-stars renders a procedurally generated star field with a bloom glow.
Drag with the left mouse button to pan, scroll to zoom toward the cursor and hover
a star to highlight it. R resets the camera, S saves the parameter file and P toggles
the profiler.`,
		Args:          cobra.NoArgs,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long:  "Print the configuration after applying the config file and flags. Redirect it to a file to get a starting point for --config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a TOML configuration file")
	flags.Int("width", 0, "window width in pixels")
	flags.Int("height", 0, "window height in pixels")
	flags.Int("stars", 0, "number of stars to generate")
	flags.Int64("seed", 0, "star field random seed")
	flags.Float32("zoom-power", 0, "wheel zoom sensitivity")
	flags.Float32("translate-power", 0, "drag pan sensitivity")
	flags.String("params", "", "parameter file bound to the bloom and camera controls")
	flags.Bool("profile", false, "log frame statistics every second")
	flags.Bool("vsync", true, "synchronise presentation with the display")

	rootCmd.AddCommand(configCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd(runViewer).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
