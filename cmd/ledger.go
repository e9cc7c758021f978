package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/twp-acessorios/garimpo-cli/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the processed-products ledger",
}

var ledgerCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of processed products",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Open(cmd.Context(), cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		n, err := led.Len(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d products processed\n", n)
		return nil
	},
}

var ledgerCheckCmd = &cobra.Command{
	Use:   "check <external-id>",
	Short: "Check whether a product has been processed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Open(cmd.Context(), cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		ok, err := led.Contains(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("%s: processed\n", args[0])
		} else {
			fmt.Printf("%s: not processed\n", args[0])
		}
		return nil
	},
}

var ledgerRemoveCmd = &cobra.Command{
	Use:   "remove <external-id>",
	Short: "Remove a product from the ledger, forcing its next reconcile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Open(cmd.Context(), cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		if err := led.Remove(cmd.Context(), args[0]); err != nil {
			return eris.Wrapf(err, "remove %s", args[0])
		}
		fmt.Printf("%s removed from ledger\n", args[0])
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerCountCmd, ledgerCheckCmd, ledgerRemoveCmd)
	rootCmd.AddCommand(ledgerCmd)
}
