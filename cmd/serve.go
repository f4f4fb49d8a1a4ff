package main

import (
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

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/classify"
	"github.com/veridian-group/esia-cli/internal/loader"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/router"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for classification and routing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		cat, idx, _, err := buildCatalog()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newAPIHandler(cat, idx, routerConfig(), cfg.Router.TopN, cfg.Classifier.ChunkWindow),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newAPIHandler builds the chi router serving classification and routing
// over the loaded catalog.
func newAPIHandler(cat *catalog.Catalog, idx *catalog.Index, routeCfg router.Config, topN, chunkWindow int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/domains", func(w http.ResponseWriter, req *http.Request) {
		domains := cat.Domains()
		if pt := req.URL.Query().Get("type"); pt != "" {
			domains = loader.ForType(pt, cat).Domains()
		}
		writeJSON(w, http.StatusOK, domains)
	})

	r.Post("/api/classify", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Chunks []model.Chunk `json:"chunks"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Chunks) == 0 {
			writeJSONError(w, http.StatusBadRequest, "chunks is required")
			return
		}

		writeJSON(w, http.StatusOK, classify.ClassifyWindow(body.Chunks, chunkWindow))
	})

	r.Post("/api/route", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Heading     string `json:"heading"`
			ProjectType string `json:"project_type"`
			TopN        int    `json:"top_n"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Heading == "" {
			writeJSONError(w, http.StatusBadRequest, "heading is required")
			return
		}

		projectType := body.ProjectType
		if projectType == "" {
			projectType = model.GeneralProjectType
		}
		n := body.TopN
		if n <= 0 {
			n = topN
		}

		applicable := loader.ForType(projectType, cat)
		candidates := router.RouteWithConfig(body.Heading, idx, applicable, n, routeCfg)
		if candidates == nil {
			candidates = []model.SectionCandidate{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"heading":      body.Heading,
			"project_type": projectType,
			"candidates":   candidates,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
