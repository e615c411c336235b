package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and change configuration values.

Values are read from the config file and can be overridden by environment
variables: every key a.b maps to PRDSTORE_A_B.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print configuration values",
	Long:  `Print one value, or every key with its effective value when no key is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(configFile)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		value, ok := settingsService.Value(args[0])
		if !ok {
			return fmt.Errorf("unknown config key: %s", args[0])
		}
		cmd.Println(value)
		return nil
	}

	for _, key := range settingsService.Keys() {
		value, _ := settingsService.Value(key)
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
