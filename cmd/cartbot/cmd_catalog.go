package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/cartbot/internal/router"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// catalogCmd prints the catalog with derived ids, handy for composing
// add-cart-/del-cart- postback tokens by hand.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the catalog items and their postback tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		for _, item := range cat.List() {
			fmt.Printf("%s\t%s%s\t%s\n", item.Title, router.AddItemPrefix, item.ID, item.MediaURL)
		}
		return nil
	},
}
