package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/eligibility"
	"github.com/danielhkuo/quickly-elect/fixtures"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/router"
	"github.com/danielhkuo/quickly-elect/scheduler"
)

func main() {
	var err error

	cliparse.LoadDotEnv()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, err := cliparse.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("Error parsing log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.PrintAuthorityKey {
		fmt.Println(auth.GenerateAdminKey(auth.AuthorityScope, cfg.AdminKeySalt))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "database_type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchemaContext(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "database_type", cfg.DatabaseType)

	if cfg.SeedFile != "" {
		if err := seed(ctx, dbConn, cfg.SeedFile); err != nil {
			slog.Error("seeding failed", "error", err, "seed_file", cfg.SeedFile)
			os.Exit(1)
		}
	}

	if cfg.ScheduleInterval > 0 {
		go scheduler.New(catalog.New(dbConn), cfg.ScheduleInterval).Run(ctx)
		slog.Info("Election scheduler started", "interval", cfg.ScheduleInterval)
	}

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(router.NewRouter(dbConn, cfg)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

func seed(ctx context.Context, conn db.Querier, path string) error {
	fx, err := fixtures.LoadFile(path)
	if err != nil {
		return err
	}

	summary, err := fx.Apply(ctx, catalog.New(conn), eligibility.New(conn))
	if err != nil {
		return err
	}
	slog.Info("Seed data loaded",
		"parties", summary.Parties,
		"voters", summary.Voters,
		"elections", summary.Elections,
		"candidates", summary.Candidates,
		"allowed_voters", summary.AllowedVoters,
		"skipped", summary.Skipped,
	)
	return nil
}
