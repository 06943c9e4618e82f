package newsgraph

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newsgraph/newsgraph/pkg/config"
	"github.com/newsgraph/newsgraph/pkg/logger"
	"github.com/newsgraph/newsgraph/pkg/server"
	"github.com/newsgraph/newsgraph/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Serve starts the HTTP server exposing POST /search and GET /health.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log.Level, cfg.Log.Format)

		if cfg.Telemetry.ParquetPath != "" {
			handler, err := telemetry.NewParquetHandler(log.Handler(), cfg.Telemetry.ParquetPath)
			if err != nil {
				log.Warn("telemetry disabled", "error", err)
			} else {
				log = slog.New(handler)
				defer handler.Flush()
			}
		}

		eng, cleanup, err := buildEngine(cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()
		defer eng.Close(context.WithoutCancel(cmd.Context()))

		srv := server.New(cfg, eng, log)
		srv.Setup()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Info("shutting down", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "Host to bind")
	serveCmd.Flags().Int("port", 8000, "Port to listen on")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
