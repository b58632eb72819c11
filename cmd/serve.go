package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/config"
	"github.com/kozaktomas/attendance-gate/internal/ledger"
	"github.com/kozaktomas/attendance-gate/internal/logging"
	"github.com/kozaktomas/attendance-gate/internal/report"
	"github.com/kozaktomas/attendance-gate/internal/store/postgres"
	"github.com/kozaktomas/attendance-gate/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Attendance Gate API server.
The server exposes enrollment, identification, check-in and reporting
endpoints, and runs a nightly sweep that trims the live attendance table
to the configured retention window.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().String("purge-at", "02:30", "Local time of day for the nightly live-table sweep")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer log.Sync()

	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	students := postgres.NewStudentRepository(pool)
	attendance := postgres.NewAttendanceRepository(pool)
	reports := postgres.NewReportRepository(pool)
	groups := postgres.NewGroupRepository(pool)

	attendanceLedger := ledger.New(attendance, cfg.Ledger.DebounceWindow, cfg.Ledger.DailyRetention, log)
	reporter := report.New(reports, cfg.Statuses)

	server := web.NewServer(cfg, log, web.Stores{
		Gallery:    students,
		Attendance: attendanceLedger,
		Reporter:   reporter,
		Groups:     groups,
	})

	scheduler := gocron.NewScheduler(time.Local)
	_, err = scheduler.Every(1).Day().At(mustGetString(cmd, "purge-at")).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := attendanceLedger.PurgeStale(ctx); err != nil {
			log.Error("live-table sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling live-table sweep: %w", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", zap.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
