package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreimonforte/malocozz/app/services"
)

var exportFileFlag string

// malocozz products:export [-o file]
var productsExportCmd = &cobra.Command{
	Use:   "products:export",
	Short: "Export the product catalogue as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		name := exportFileFlag
		if name == "" {
			name = fmt.Sprintf("products-%s.csv", time.Now().Format("2006-01-02"))
		}

		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := services.NewProductService().ExportCSV(f); err != nil {
			return err
		}

		fmt.Println("Exported to", name)
		return nil
	},
}

func init() {
	productsExportCmd.Flags().StringVarP(&exportFileFlag, "output", "o", "", "output file (default products-<date>.csv)")
}
