package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twp-acessorios/garimpo-cli/internal/catalog"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Ensure a smart collection exists per category",
	Long:  "Creates a tag-equals smart collection for every configured category that does not have one yet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		created, err := catalog.EnsureCollections(cmd.Context(), initShopify(), cfg.Scrape.Categories)
		if err != nil {
			return err
		}

		if len(created) == 0 {
			fmt.Println("All categories already covered")
			return nil
		}
		for _, title := range created {
			fmt.Printf("Created collection %s\n", title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
