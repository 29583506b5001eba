package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Desarso/flightai"
	"github.com/Desarso/flightai/sessions"
	"github.com/Desarso/flightai/stores"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP and websocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	if err := viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(fmt.Sprintf("failed to bind flag addr: %v", err))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agent, err := flightai.NewAgent(cfg, logger)
	if err != nil {
		return err
	}
	session, err := flightai.NewSession(ctx, "", agent, cfg, logger)
	if err != nil {
		return err
	}
	if session.Traces != nil {
		defer session.Traces.Close()
		retention := &stores.Retention{
			Store:    session.Traces,
			MaxAge:   cfg.TraceRetention,
			Schedule: cfg.RetentionSchedule,
			Logger:   logger,
		}
		if err := retention.Start(); err != nil {
			return err
		}
		defer retention.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           sessions.NewRouter(session),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("FlightAI listening on %s (session %s)", cfg.Addr, session.ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	session.WaitSpeech()
	return nil
}
