package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect and scaffold mockforge configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "load the configuration file and report whether it parses",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid (name=%q version=%q)\n", configPath, loaded.Name, loaded.Version)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}

		encoded, err := yaml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", configPath, err)
		}
		fmt.Printf("wrote default configuration to %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd, configInitCmd)
}
