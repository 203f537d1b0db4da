package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"graphql-pagequery/internal/config"
	"graphql-pagequery/internal/dbexec"
	"graphql-pagequery/internal/logging"
	"graphql-pagequery/internal/metamodel"
	"graphql-pagequery/internal/middleware"
	"graphql-pagequery/internal/observability"
	"graphql-pagequery/internal/resolver"

	"github.com/XSAM/otelsql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	pflag.Bool("version", false, "Print version and exit")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if showVersion, _ := pflag.CommandLine.GetBool("version"); showVersion {
		fmt.Printf("graphql-pagequery %s (%s)\n", Version, Commit)
		return nil
	}

	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = Version
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})

	var meterProvider *observability.MeterProvider
	var metrics *observability.QueryMetrics
	if cfg.Observability.MetricsEnabled {
		meterProvider, err = observability.InitMeterProvider(observability.Config{
			ServiceName:    cfg.Observability.ServiceName,
			ServiceVersion: cfg.Observability.ServiceVersion,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		metrics, err = observability.InitQueryMetrics()
		if err != nil {
			return fmt.Errorf("failed to initialize query metrics: %w", err)
		}
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	executor := dbexec.NewStandardExecutor(db)

	model, err := metamodel.Load(ctx, executor, cfg.Database.Database)
	if err != nil {
		return fmt.Errorf("failed to load schema metadata: %w", err)
	}
	logger.Info("schema metadata loaded",
		slog.String("database", cfg.Database.Database),
		slog.Int("entities", len(model.Entities)),
	)

	names := cfg.Query.ReservedNames()
	r := resolver.NewResolver(executor, model, resolver.Options{
		Names:           &names,
		DefaultDistinct: cfg.Query.DefaultDistinct,
		Metrics:         metrics,
	})
	schema, err := r.BuildGraphQLSchema()
	if err != nil {
		return fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      buildHandler(cfg, logger, db, &schema, metrics),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", srv.Addr),
			slog.Bool("graphiql", cfg.Server.GraphiQLEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case runErr = <-serverErrors:
	case sig := <-stop:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	if meterProvider != nil {
		_ = meterProvider.Shutdown(shutdownCtx, logger.Logger)
	}

	if runErr != nil {
		return runErr
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// openDatabase opens an instrumented MySQL connection pool.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := otelsql.Open("mysql", cfg.Database.DSN(),
		otelsql.WithAttributes(semconv.DBSystemMySQL),
	)
	if err != nil {
		return nil, err
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(semconv.DBSystemMySQL)); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	return db, nil
}

func buildHandler(cfg *config.Config, logger *logging.Logger, db *sql.DB, schema *graphql.Schema, metrics *observability.QueryMetrics) http.Handler {
	graphqlHandler := handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: cfg.Server.GraphiQLEnabled,
	})

	var gql http.Handler = graphqlHandler
	if metrics != nil {
		gql = middleware.MetricsMiddleware(metrics)(gql)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", gql)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Observability.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	wrapped := middleware.LoggingMiddleware(logger)(mux)
	return otelhttp.NewHandler(wrapped, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
