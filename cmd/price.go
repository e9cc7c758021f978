package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/twp-acessorios/garimpo-cli/internal/pricing"
)

var (
	priceFreight  float64
	priceCategory string
)

var priceCmd = &cobra.Command{
	Use:   "price <unit-cost>",
	Short: "Compute the full price breakdown for a source cost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitCost, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "parse unit cost %q", args[0])
		}

		engine := pricing.NewEngine(cfg.Pricing)

		freight := priceFreight
		if freight < 0 {
			freight = engine.FreightFor(priceCategory)
		}

		pb, err := engine.Compute(unitCost, freight, priceCategory)
		if err != nil {
			return err
		}

		fmt.Printf("Custo:          %10.2f\n", pb.UnitCost)
		fmt.Printf("Frete:          %10.2f\n", pb.Freight)
		fmt.Printf("Imposto import: %10.2f\n", pb.ImportDuty)
		fmt.Printf("ICMS (gross-up):%10.2f\n", pb.ConsumptionTax)
		fmt.Printf("Custo total:    %10.2f\n", pb.LandedCost)
		fmt.Printf("Preço final:    %10.2f\n", pb.FinalPrice)
		fmt.Printf("Preço de:       %10.2f\n", pb.CompareAt)
		fmt.Printf("Margem:         %9.1f%%\n", pb.MarginPct)
		fmt.Println()
		for _, inst := range pb.Installments {
			juros := "sem juros"
			if inst.Interest > 0 {
				juros = fmt.Sprintf("total %.2f", inst.Total)
			}
			fmt.Printf("%2dx de %8.2f  (%s)\n", inst.Count, inst.Amount, juros)
		}

		return nil
	},
}

func init() {
	priceCmd.Flags().Float64Var(&priceFreight, "freight", -1, "freight cost (default from category config)")
	priceCmd.Flags().StringVar(&priceCategory, "category", "", "category for per-category overrides")
	rootCmd.AddCommand(priceCmd)
}
