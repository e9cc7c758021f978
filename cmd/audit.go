package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/twp-acessorios/garimpo-cli/internal/audit"
	"github.com/twp-acessorios/garimpo-cli/internal/report"
)

var auditOut string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit the live catalog for merchandising defects",
	Long:  "Checks every storefront product for missing images, descriptions and category tags, prices below the floor, and categories without a smart collection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		api := initShopify()

		shop, err := api.GetShop(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "audit: store unreachable")
		}
		total, err := api.CountProducts(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "audit: count products")
		}
		fmt.Printf("Auditing %s (%d products in catalog)\n", shop.Name, total)

		auditor := audit.NewAuditor(api, cfg.Shopify.Vendor, cfg.Pricing.PriceFloor)
		rep, err := auditor.Run(cmd.Context())
		if err != nil {
			return err
		}

		if auditOut != "" {
			if err := report.WriteAudit(auditOut, rep); err != nil {
				return err
			}
			fmt.Printf("Audit report written to %s\n", auditOut)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditOut, "out", "", "write audit report XLSX to this path")
	rootCmd.AddCommand(auditCmd)
}
