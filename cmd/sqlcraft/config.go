package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	var showSource bool
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, environment variables and flags.`,
		Example: `  # Show effective configuration
  sqlcraft config show

  # Show configuration with source file path
  sqlcraft config show --source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showSource {
				if a.configPath != "" {
					fmt.Fprintf(out, "Config file: %s\n\n", a.configPath)
				} else {
					fmt.Fprintln(out, "Config file: (none, using defaults)")
					fmt.Fprintln(out)
				}
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	showCmd.Flags().BoolVar(&showSource, "source", false, "show config file source")
	configCmd.AddCommand(showCmd)
	return configCmd
}
