package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridian-labs/docqa/internal/adapters/driving/httpapi"
	"github.com/veridian-labs/docqa/internal/config"
	"github.com/veridian-labs/docqa/internal/logger"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question answering HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}
	if flagListenAddr != "" {
		cfg.ListenAddr = flagListenAddr
	}

	pipeline, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(httpapi.Config{
		Addr:           cfg.ListenAddr,
		AuthToken:      cfg.AuthToken,
		MaxQuestions:   cfg.MaxQuestions,
		RequestTimeout: cfg.RequestTimeout,
	}, pipeline)

	if err := server.Start(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
