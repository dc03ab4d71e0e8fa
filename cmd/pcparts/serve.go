package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacksmith/pcparts/internal/devserver"
	"github.com/jacksmith/pcparts/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// shutdownGrace bounds how long in-flight requests get on shutdown.
const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local in-memory parts service",
	Long: `Run an in-memory parts service on --listen that speaks the same HTTP
contract as the remote one. Data is lost when the process exits.

--seed loads an initial list of parts from a JSON array file.

Examples:
  pcparts serve
  pcparts serve --listen :9000 --seed parts.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveListen      string
	serveSeed        string
	serveAllowOrigin string
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default from config, :8000)")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "JSON file with initial parts")
	serveCmd.Flags().StringVar(&serveAllowOrigin, "allow-origin", "", "browser origin allowed by CORS")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveAllowOrigin != "" {
		cfg.AllowOrigin = serveAllowOrigin
	}
	if flagLogLevel == "" && os.Getenv("PCPARTS_LOG_LEVEL") == "" {
		logger.SetLevel(logrus.InfoLevel)
	}
	logger.SetFormatter(&logrus.JSONFormatter{})

	parts, err := loadSeed(serveSeed)
	if err != nil {
		return err
	}
	store := devserver.NewStore(parts...)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           devserver.New(store, logger, cfg.AllowOrigin).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": cfg.Listen, "parts": len(parts)}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("server stopped")
	return nil
}

// loadSeed reads a JSON array of parts. An empty path yields no parts.
func loadSeed(path string) ([]model.Part, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read seed file %s", path)
	}
	var parts []model.Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, errors.Wrapf(err, "failed to parse seed file %s", path)
	}
	for i := range parts {
		if errs := model.DraftFromPart(parts[i]).Validate(); len(errs) > 0 {
			return nil, errors.Errorf("seed part %d: %s", i+1, errs[0].Message)
		}
	}
	return parts, nil
}
