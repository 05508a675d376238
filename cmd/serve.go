package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/analyst"
	"github.com/sells-group/viability-cli/internal/model"
)

var servePort int

// analysisRunner is the slice of the Analyst the HTTP handlers need.
type analysisRunner interface {
	Run(ctx context.Context, product, country string) (*analyst.Result, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for viability analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := initAnalyst("serve")
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(a),
		}

		go shutdownOnSignal(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownTimeout bounds how long in-flight requests get to drain.
const shutdownTimeout = 10 * time.Second

// shutdownOnSignal waits for ctx to cancel, then drains the server under a
// fresh deadline; the signal context itself is already dead by then.
func shutdownOnSignal(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(drainCtx)
}

// buildRouter assembles the HTTP API. Split out so handler tests can run
// against a fake runner.
func buildRouter(a analysisRunner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/countries", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, model.Countries())
	})

	r.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Product string `json:"product"`
			Country string `json:"country"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if body.Product == "" {
			http.Error(w, `{"error":"product is required"}`, http.StatusBadRequest)
			return
		}
		if body.Country == "" {
			body.Country = "INDIA"
		}
		if _, err := model.CountryByKey(body.Country); err != nil {
			http.Error(w, `{"error":"unsupported country"}`, http.StatusBadRequest)
			return
		}

		result, err := a.Run(req.Context(), body.Product, body.Country)
		if err != nil {
			zap.L().Error("analysis request failed",
				zap.String("product", body.Product),
				zap.Error(err),
			)
			http.Error(w, `{"error":"analysis failed"}`, http.StatusUnprocessableEntity)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
