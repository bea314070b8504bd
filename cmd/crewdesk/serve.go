package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidhull/crewdesk/internal/api"
	"github.com/davidhull/crewdesk/internal/config"
	"github.com/davidhull/crewdesk/internal/department"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/leave"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/davidhull/crewdesk/internal/ratelimit"
	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/davidhull/crewdesk/internal/team"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Crewdesk API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	userStore := directory.NewStore(pool)
	teamStore := team.NewStore(pool)
	shiftStore := shift.NewStore(pool)
	departmentStore := department.NewStore(pool)
	leaveStore := leave.NewStore(pool)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	loginLimiter := ratelimit.New(cfg.Login.MaxAttempts, cfg.Login.Window)

	// Sweep expired sessions in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := userStore.CleanExpiredSessions(ctx); err != nil {
					slog.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("cleaned expired sessions", "count", n)
				}
			}
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		Users:          userStore,
		Teams:          teamStore,
		Shifts:         shiftStore,
		Departments:    departmentStore,
		Leave:          leaveStore,
		Sessions:       api.NewSessionLookup(userStore),
		LoginLimiter:   loginLimiter,
		Metrics:        m,
		DBPing:         pool.Ping,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
