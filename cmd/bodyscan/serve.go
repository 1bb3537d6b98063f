package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/bodyscan/internal/server"
)

var (
	serveAddr   string
	staticDir   string
	noRecording bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket scan API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&staticDir, "static", "", "directory served at /")
	serveCmd.Flags().BoolVar(&noRecording, "no-history", false, "estimate without recording scans")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := openApp(cfg, logger, !noRecording)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Errorw("close", "error", err)
		}
	}()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	dir := cfg.Server.StaticDir
	if staticDir != "" {
		dir = staticDir
	}

	srv := server.New(server.Config{
		App:          a,
		StaticDir:    dir,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		MaxFrames:    cfg.Server.MaxFrames,
		Logger:       logger.Named("server"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr)
}
