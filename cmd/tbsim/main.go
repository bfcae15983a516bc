// Command tbsim runs and controls the Touch Bar simulator window.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	log.SetFlags(0)
	mustRun(newRootCommand().Execute())
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tbsim",
		Short:         "Dockable, auto-hiding Touch Bar simulator window",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/tbsim/config.yaml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "daemon",
		Short: "Start the tbsim daemon (foreground)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runDaemon(configPath) },
	})

	rootCmd.AddCommand(newWindowCommands()...)
	rootCmd.AddCommand(newStatusCommand(), newMonitorsCommand(), newSettingsCommand())
	rootCmd.AddCommand(newConfigCommand(), newDebugCommand(), newMCPCommand())
	return rootCmd
}
