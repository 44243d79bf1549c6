// Package cmd wires the CLI surface: cobra for the command tree,
// viper for config binding, godotenv for local .env loading.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "turnagent",
	Short: "Run a multi-turn, action-driven coding agent against a task",
}

func init() {
	_ = godotenv.Load()
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	viper.SetEnvPrefix("TURNAGENT")
	viper.AutomaticEnv()
	viper.SetConfigName("turnagent")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.turnagent")
	_ = viper.ReadInConfig()
}

// Execute is the module's CLI entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
