package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/shabd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration with every default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "shabd.toml"
		if len(args) == 1 {
			path = args[0]
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return err
		}
		if err := config.CreateSample(expanded); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample config written: %s\n", expanded)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
