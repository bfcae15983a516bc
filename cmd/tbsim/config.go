package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tbsim/internal/config"
)

func loadConfigWithSources() (*config.LoadResult, error) {
	if configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(configPath)
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the daemon configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfigWithSources()
			if err != nil {
				return err
			}
			if !res.Exists {
				fmt.Fprintf(cmd.OutOrStdout(), "config: ok (no file at %s, using defaults)\n", res.Path)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
			return nil
		},
	})

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
				res, err := loadConfigWithSources()
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			if path, err := cfg.SettingsPath(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "# settings_file: %s\n", path)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	printCmd.Flags().Bool("defaults", false, "Print built-in defaults (no files)")
	configCmd.AddCommand(printCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "explain <yaml.path>",
		Short: "Show a config value and where it was set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfigWithSources()
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "path: %s\n", args[0])
			fmt.Fprintf(w, "source: %s\n", src)
			fmt.Fprintf(w, "value:\n%s", string(out))
			return nil
		},
	})
	return configCmd
}
