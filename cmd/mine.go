package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/filter"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
	"github.com/twp-acessorios/garimpo-cli/internal/report"
	"github.com/twp-acessorios/garimpo-cli/internal/scrape"
)

var (
	mineInput    string
	mineCategory string
	mineBaseURL  string
	mineOut      string
	mineSubmit   bool
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine marketplace listings for product candidates",
	Long:  "Parses a saved listing page (or fetches configured categories live), applies the acceptance filter and the scorer, and writes the mining report. With --submit, approved listings are queued on the supplier-sync bridge.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var candidates []model.Candidate
		switch {
		case mineInput != "":
			f, err := os.Open(mineInput)
			if err != nil {
				return eris.Wrapf(err, "open listing %s", mineInput)
			}
			defer f.Close()

			candidates, err = scrape.ParseListing(f, mineCategory)
			if err != nil {
				return err
			}
		case mineBaseURL != "":
			fetcher := scrape.NewFetcher(mineBaseURL, cfg.Scrape)
			for _, category := range cfg.Scrape.Categories {
				batch, err := fetcher.FetchCategory(ctx, category)
				if err != nil {
					zap.L().Warn("category fetch failed",
						zap.String("category", category),
						zap.Error(err),
					)
					continue
				}
				candidates = append(candidates, batch...)
			}
		default:
			return eris.New("either --input or --base-url is required")
		}

		scorer := initScorer()
		bridge := initDsers()

		var scored []model.ScoredCandidate
		approved, queued := 0, 0
		for _, c := range candidates {
			if dec := filter.Evaluate(c, cfg.Criteria); !dec.Accepted {
				zap.L().Debug("candidate rejected",
					zap.String("external_id", c.ExternalID),
					zap.Strings("reasons", dec.Reasons),
				)
				continue
			}

			sc := scorer.Score(ctx, c)
			scored = append(scored, sc)

			if gate := filter.ScoreGate(sc, cfg.Scoring.MinScore); !gate.Accepted {
				continue
			}
			approved++

			if mineSubmit && bridge != nil && c.ListingURL != "" {
				ok, err := bridge.Submit(ctx, c.ListingURL)
				if err != nil {
					zap.L().Warn("bridge submit failed",
						zap.String("external_id", c.ExternalID),
						zap.Error(err),
					)
				} else if ok {
					queued++
					zap.L().Info("listing queued for import",
						zap.String("external_id", c.ExternalID))
				}
			}
		}

		if queued > 0 {
			if ok, err := bridge.PushPending(ctx); err != nil {
				zap.L().Warn("bridge push failed", zap.Error(err))
			} else if ok {
				zap.L().Info("pending imports pushed to the store", zap.Int("queued", queued))
			}
		}

		fmt.Printf("Mined %d candidates: %d passed the filter, %d approved\n",
			len(candidates), len(scored), approved)

		if mineOut != "" {
			if err := report.WriteMining(mineOut, scored); err != nil {
				return err
			}
			fmt.Printf("Mining report written to %s\n", mineOut)
		}

		return nil
	},
}

func init() {
	mineCmd.Flags().StringVar(&mineInput, "input", "", "saved listing HTML file")
	mineCmd.Flags().StringVar(&mineCategory, "category", "acessorios", "category for --input candidates")
	mineCmd.Flags().StringVar(&mineBaseURL, "base-url", "", "marketplace search base URL for live mining")
	mineCmd.Flags().StringVar(&mineOut, "out", "", "write mining report XLSX to this path")
	mineCmd.Flags().BoolVar(&mineSubmit, "submit", false, "queue approved listings on the supplier-sync bridge")
	rootCmd.AddCommand(mineCmd)
}
