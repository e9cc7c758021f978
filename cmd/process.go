package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twp-acessorios/garimpo-cli/internal/report"
)

var (
	processInput string
	processOut   string
	processForce bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full batch pipeline over a candidate file",
	Long:  "Filters, scores, prices and reconciles every candidate in the input file against the storefront. Already processed products are skipped unless --force.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		candidates, err := loadCandidates(processInput)
		if err != nil {
			return err
		}

		env, err := initBatch(ctx, processForce)
		if err != nil {
			return err
		}
		defer env.Close()

		rep := env.Runner.Run(ctx, candidates)

		fmt.Printf("Run %s: %d candidates, %d accepted, %d rejected, %d applied, %d failed, %d skipped\n",
			rep.RunID, len(rep.Items), rep.Accepted, rep.Rejected, rep.Applied, rep.Failed, rep.Skipped)

		if processOut != "" {
			if err := report.WriteBatch(processOut, rep); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", processOut)
		}

		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processInput, "input", "candidates.json", "candidate batch file (JSON)")
	processCmd.Flags().StringVar(&processOut, "out", "", "write batch report XLSX to this path")
	processCmd.Flags().BoolVar(&processForce, "force", false, "reprocess products already in the ledger")
	rootCmd.AddCommand(processCmd)
}
