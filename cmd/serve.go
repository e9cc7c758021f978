package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status server with an async batch trigger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initBatch(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		var mu sync.Mutex
		var lastReport *model.BatchReport
		running := false

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()

			n, err := env.Ledger.Len(r.Context())
			if err != nil {
				http.Error(w, `{"error":"ledger unavailable"}`, http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"running":     running,
				"processed":   n,
				"last_report": lastReport,
			})
		})

		mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Candidates []model.Candidate `json:"candidates"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if len(req.Candidates) == 0 {
				http.Error(w, `{"error":"candidates are required"}`, http.StatusBadRequest)
				return
			}

			mu.Lock()
			if running {
				mu.Unlock()
				http.Error(w, `{"error":"a batch is already running"}`, http.StatusConflict)
				return
			}
			running = true
			mu.Unlock()

			// Run the batch asynchronously; progress lands in /status.
			go func() {
				rep := env.Runner.Run(ctx, req.Candidates)

				mu.Lock()
				lastReport = &rep
				running = false
				mu.Unlock()

				zap.L().Info("async batch complete",
					zap.String("run_id", rep.RunID),
					zap.Int("applied", rep.Applied),
					zap.Int("failed", rep.Failed),
				)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]any{
				"status":     "accepted",
				"candidates": len(req.Candidates),
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
