package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/andreimonforte/malocozz/database/migrations"
	_ "github.com/andreimonforte/malocozz/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "malocozz",
	Short: "Ma Locozz — shop operations CLI",
	Long:  "Operations CLI for the Ma Locozz shop backend: migrations, seeding, accounts, catalogue export and queue workers.",
}

func init() {
	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbCheckCmd)

	// Accounts
	rootCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(userPromoteCmd)

	// Catalogue
	rootCmd.AddCommand(productsExportCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
}
