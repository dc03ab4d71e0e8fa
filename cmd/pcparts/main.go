// Package main is the entry point for the pcparts CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jacksmith/pcparts/internal/api"
	"github.com/jacksmith/pcparts/internal/catalog"
	"github.com/jacksmith/pcparts/internal/cli"
	"github.com/jacksmith/pcparts/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// logger is shared by every command. Output goes to stderr so tables on
// stdout stay clean.
var logger = logrus.New()

var (
	flagBaseURL  string
	flagTimeout  string
	flagLogLevel string
	flagNoColor  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pcparts",
	Short: "pcparts - manage a catalog of PC parts",
	Long: `pcparts lists, adds, edits and removes PC parts stored in a remote
parts service. Prices are shown with the 15% tax and the resulting total.

The service location comes from .pcparts.yaml, PCPARTS_BASE_URL or --base-url.
Run 'pcparts serve' for a local in-memory service.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("pcparts version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "parts service base URL")
	pf.StringVar(&flagTimeout, "timeout", "", "request timeout, e.g. 5s (0 disables)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// loadConfig merges .pcparts.yaml, the environment and the root flags, and
// applies the logging and color settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return nil, &cli.ValidationError{Field: "timeout", Message: err.Error()}
		}
		cfg.Timeout = d
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagNoColor {
		cfg.Color = config.ColorNever
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lvl, _ := cfg.Level()
	logger.SetLevel(lvl)
	if err := cli.SetColorMode(cfg.Color, os.Stdout); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is what a remote command works with.
type session struct {
	cfg     *config.Config
	client  *api.Client
	catalog *catalog.Catalog
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.BaseURL, nil, logger)
	if err != nil {
		return nil, &cli.ValidationError{Field: "base_url", Message: err.Error()}
	}

	logger.WithFields(logrus.Fields{
		"base_url": client.BaseURL(),
		"timeout":  cfg.Timeout,
	}).Debug("session opened")

	return &session{
		cfg:     cfg,
		client:  client,
		catalog: catalog.New(client, logger),
	}, nil
}

// context returns a context bounded by the configured timeout.
func (s *session) context() (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.cfg.Timeout)
	}
	return context.WithCancel(context.Background())
}

// warnLastError reports a catalog error left behind by an operation that
// itself succeeded, such as a failed reload after a create.
func (s *session) warnLastError() {
	if e := s.catalog.LastError(); e != nil {
		fmt.Fprintln(os.Stderr, cli.Yellow("warning: "+e.Error()))
	}
}
