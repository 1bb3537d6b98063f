package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/config"
	"github.com/ayusman/bodyscan/internal/store"
)

var (
	configPath string
	debug      bool
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "bodyscan",
	Short: "Estimate body measurements from pose landmarks and depth captures",
	Long: `bodyscan estimates clothing measurements (height, girths, limb lengths)
either from 2D pose landmarks of a front and optional side photo, or from a
rotation capture of 3D skeleton frames with depth. Every measurement carries a
confidence grade and the result is checked against plausible adult ranges.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging at debug level")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "scan database (default <data_dir>/bodyscan.db)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig returns the defaults overlaid with --config when given.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newLogger() (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return logger.Sugar(), nil
}

// openApp builds the scan service. With record set the scan history under
// the data directory (or --db) is opened.
func openApp(cfg config.Config, logger *zap.SugaredLogger, record bool) (*app.App, error) {
	appCfg := app.Config{
		Planar:     cfg.Planar,
		Volumetric: cfg.Volumetric,
		Logger:     logger,
	}
	if record {
		path := dbPath
		if path == "" {
			path = cfg.DBPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create data directory")
		}
		st, err := store.New(path)
		if err != nil {
			return nil, errors.Wrap(err, "open scan history")
		}
		appCfg.Store = st
	}
	return app.New(appCfg), nil
}
