// ABOUTME: Gateway assembling the store, auth subsystem, and GraphQL endpoint
// ABOUTME: Owns the HTTP server lifecycle including graceful shutdown

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/graphql-go/handler"

	"github.com/libris-app/libris/internal/auth"
	"github.com/libris-app/libris/internal/config"
	"github.com/libris-app/libris/internal/graph"
	"github.com/libris-app/libris/internal/store"
)

// Gateway is the top-level server for libris.
type Gateway struct {
	config     *config.Config
	logger     *slog.Logger
	store      *store.SQLiteStore
	httpServer *http.Server
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	gw := &Gateway{
		config: cfg,
		logger: logger,
		store:  s,
	}

	mux, err := gw.buildRoutes()
	if err != nil {
		s.Close()
		return nil, err
	}

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// buildRoutes wires the GraphQL endpoint and health check onto a mux.
// The auth context middleware runs on every GraphQL request, before
// execution; it never rejects, it only resolves identity.
func (g *Gateway) buildRoutes() (*http.ServeMux, error) {
	codec := auth.NewJWTCodec([]byte(g.config.Auth.JWTSecret))
	authSvc := auth.NewService(g.store, codec, g.logger)

	resolver := graph.NewResolver(authSvc, g.store, g.logger)
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}

	graphqlHandler := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: g.config.GraphiQL.Enabled,
	})

	contextMiddleware := auth.ContextMiddleware(g.store, codec, g.logger)

	mux := http.NewServeMux()
	mux.Handle("/graphql", contextMiddleware(graphqlHandler))
	mux.HandleFunc("/healthz", g.handleHealth)

	if g.config.GraphiQL.Enabled {
		g.logger.Info("GraphiQL enabled", "path", "/graphql")
	}

	return mux, nil
}

// handleHealth reports server liveness.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	g.logger.Info("gateway listening", "http_addr", g.config.Server.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		g.store.Close()
		return fmt.Errorf("HTTP server: %w", err)
	case <-ctx.Done():
	}

	g.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := g.httpServer.Shutdown(shutdownCtx); err != nil {
		g.logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := g.store.Close(); err != nil {
		g.logger.Error("store close failed", "error", err)
	}

	return nil
}

// Handler exposes the root handler for tests.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}
