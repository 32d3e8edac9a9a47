// Package main is the entry point for the library API server.
// It wires together configuration, the database connection, and the HTTP router.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/aoideee/library-service/internal/data"
	"github.com/aoideee/library-service/internal/metrics"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, shown in logs.
const appVersion = "1.1.0"

// serverConfig holds every setting that can be tweaked at startup. Values
// come from the environment (optionally via a .env file) and can be
// overridden by command-line flags.
type serverConfig struct {
	Addr        string `env:"SERVER_HOSTNAME_PORT,default=:4000"` // host:port the HTTP server binds to
	Environment string `env:"ENVIRONMENT,default=development"`    // development, staging, or production
	Probe       string `env:"PROBE_MESSAGE,default=Probe test ok...."`
	DB          struct {
		DSN          string        `env:"DATABASE_URL"` // PostgreSQL connection string (postgres:// URL)
		MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS,default=20"`
		MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS,default=20"`
		MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME,default=30s"`
		Migrate      bool          `env:"DB_MIGRATE,default=true"` // apply schema migrations at startup
	}
	Limiter struct {
		Enabled bool    `env:"LIMITER_ENABLED,default=true"`
		RPS     float64 `env:"LIMITER_RPS,default=2"`
		Burst   int     `env:"LIMITER_BURST,default=4"`
	}
	CORS struct {
		TrustedOrigins string `env:"CORS_TRUSTED_ORIGINS,default=http://localhost:3000"` // space-separated
	}
}

// trustedOrigins splits the configured CORS origins.
func (c serverConfig) trustedOrigins() []string {
	return strings.Fields(c.CORS.TrustedOrigins)
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// It is built once in main and never mutated afterwards.
type applicationDependencies struct {
	config serverConfig // Server configuration loaded from env and flags
	logger *slog.Logger // Structured logger that writes to stdout
	models data.Models  // Database model layer for all tables

	done chan struct{} // closed on shutdown to stop background goroutines
}

// main is the application entry point.
// It loads configuration, opens the database, wires up dependencies, and starts the HTTP server.
func main() {
	// Create a structured logger that writes human-readable text to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	settings, err := loadConfig(os.Args[1:])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if settings.DB.Migrate {
		if err := data.Migrate(settings.DB.DSN); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	// Open and verify the database connection pool.
	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close() // shutdown closes it too; this covers early returns.

	logger.Info("database connection pool established",
		"max_open_conns", settings.DB.MaxOpenConns,
		"max_idle_time", settings.DB.MaxIdleTime.String(),
	)

	if err := metrics.RegisterDB(db.DB, "library"); err != nil {
		logger.Warn("connection pool metrics unavailable", "error", err)
	}

	// Bundle all shared dependencies into a single struct.
	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		models: data.NewModels(db),
		done:   make(chan struct{}),
	}

	logger.Info("library service", "version", appVersion)

	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfig decodes the environment into a serverConfig and then applies
// any command-line overrides from args.
func loadConfig(args []string) (serverConfig, error) {
	var settings serverConfig

	err := envdecode.Decode(&settings)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return settings, err
	}

	// Register command-line flags so operators can override defaults at runtime.
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.StringVar(&settings.Addr, "addr", settings.Addr, "Server bind address (host:port)")
	fs.StringVar(&settings.Environment, "env", settings.Environment, "Environment(development|staging|production)")
	fs.StringVar(&settings.Probe, "probe", settings.Probe, "Message returned by GET /probe")

	fs.StringVar(&settings.DB.DSN, "db-dsn", settings.DB.DSN, "PostgreSQL DSN")
	fs.IntVar(&settings.DB.MaxOpenConns, "db-max-open-conns", settings.DB.MaxOpenConns, "PostgreSQL max open connections")
	fs.IntVar(&settings.DB.MaxIdleConns, "db-max-idle-conns", settings.DB.MaxIdleConns, "PostgreSQL max idle connections")
	fs.DurationVar(&settings.DB.MaxIdleTime, "db-max-idle-time", settings.DB.MaxIdleTime, "PostgreSQL max connection idle time")
	fs.BoolVar(&settings.DB.Migrate, "db-migrate", settings.DB.Migrate, "Apply schema migrations at startup")

	fs.BoolVar(&settings.Limiter.Enabled, "limiter-enabled", settings.Limiter.Enabled, "Enable rate limiter")
	fs.Float64Var(&settings.Limiter.RPS, "limiter-rps", settings.Limiter.RPS, "Rate limiter maximum requests per second")
	fs.IntVar(&settings.Limiter.Burst, "limiter-burst", settings.Limiter.Burst, "Rate limiter maximum burst")

	fs.StringVar(&settings.CORS.TrustedOrigins, "cors-trusted-origins", settings.CORS.TrustedOrigins, "Trusted CORS origins (space separated)")

	if err := fs.Parse(args); err != nil {
		return settings, err
	}

	if settings.DB.DSN == "" {
		return settings, errors.New("database DSN must be set with DATABASE_URL or -db-dsn")
	}
	if settings.DB.MaxOpenConns < 1 {
		return settings, errors.New("db-max-open-conns must be at least 1")
	}

	return settings, nil
}

// openDB opens a PostgreSQL connection pool using the DSN stored in settings,
// applies the pool limits, then pings the database with a 5-second timeout to
// confirm it is reachable.
func openDB(settings serverConfig) (*sqlx.DB, error) {
	// sqlx.Open only validates the DSN format; it does not actually connect yet.
	db, err := sqlx.Open("postgres", settings.DB.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(settings.DB.MaxOpenConns)
	db.SetMaxIdleConns(settings.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(settings.DB.MaxIdleTime)

	// Create a context that cancels automatically after 5 seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// PingContext performs a real round-trip to verify the database is reachable.
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
