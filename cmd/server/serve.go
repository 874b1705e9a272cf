package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/budgetwiser/internal/auth"
	"github.com/mmynk/budgetwiser/internal/cache"
	"github.com/mmynk/budgetwiser/internal/clock"
	"github.com/mmynk/budgetwiser/internal/config"
	"github.com/mmynk/budgetwiser/internal/middleware"
	"github.com/mmynk/budgetwiser/internal/service"
	"github.com/mmynk/budgetwiser/internal/storage"
	"github.com/mmynk/budgetwiser/pkg/api/apiconnect"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// caches picks the summary cache and token revocation list. Without redis,
// or when redis cannot be reached, summaries are not cached and revocations
// live in process memory.
func caches(ctx context.Context) (cache.SummaryCache, auth.Revoker, func()) {
	memory := cache.NewMemory(cfg.Cache.TTL)
	if cfg.Cache.RedisURL == "" {
		slog.Info("Using in-process cache")
		return memory, memory, func() {}
	}

	client, err := cache.ConnectRedis(ctx, cfg.Cache.RedisURL, cache.DefaultBackOff(cfg.Cache.ConnectMaxRetries))
	if err != nil {
		slog.Warn("Redis unavailable, running without summary cache", "error", err)
		return cache.Nop{}, memory, func() {}
	}

	slog.Info("Connected to redis", "url", cfg.Cache.RedisURL)
	r := cache.NewRedis(client, cfg.Cache.TTL)
	return r, r, func() { r.Close() }
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("Using the default JWT secret; set JWT_SECRET in production")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, revoker, closeCache := caches(ctx)
	defer closeCache()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, revoker)
	authenticator := auth.NewPasswordAuthenticator(store)
	calendar := clock.NewCalendar(clock.System{}, loc)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewRPCMetrics(registry)

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...),
		middleware.LoggingInterceptor(slog.Default()),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, slog.Default()), interceptors))
	mux.Handle(apiconnect.NewTransactionServiceHandler(
		service.NewTransactionService(store, summaries), interceptors))
	mux.Handle(apiconnect.NewBudgetServiceHandler(
		service.NewBudgetService(store, summaries, calendar), interceptors))
	mux.Handle(apiconnect.NewSavingsServiceHandler(
		service.NewSavingsService(store, summaries, calendar), interceptors))
	mux.Handle(apiconnect.NewBackupServiceHandler(
		service.NewBackupService(store, summaries), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", healthHandler(store))

	if err := mountStatic(mux, cfg.Server.StaticDir); err != nil {
		return err
	}

	// Add logging and CORS middleware, then h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Server.Addr, "timezone", loc.String())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}

// mountStatic serves the front end from dir, falling back to index.html for
// unknown paths. A missing dir is not an error.
func mountStatic(mux *http.ServeMux, dir string) error {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(staticDir); err != nil {
		slog.Warn("Static directory not found, serving API only", "path", staticDir)
		return nil
	}
	slog.Info("Serving static files", "path", staticDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Unknown Connect procedures should 404, not get the index page
		if strings.HasPrefix(r.URL.Path, "/budgetwiser.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
