// Package main provides storefrontctl, the operator CLI for the storefront API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"storefront/internal/config"
)

var (
	// envFile is set by the --env flag.
	envFile string

	// cfg is loaded before every command runs.
	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storefrontctl",
	Short: "Operator commands for the storefront API",
	Long: `storefrontctl runs one-off maintenance against the storefront database:
migrations, the first admin account and password hashes.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(dumpConfigCmd)
}

// loadConfig reads the dotenv file when it exists, then the environment.
func loadConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}
