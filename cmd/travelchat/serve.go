package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"travelchat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP API",
	Long: `Starts the HTTP server exposing POST /api/chat (alias /travel-chat),
GET /api/chat/health, GET /api/documents and GET /healthz.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	srv := server.New(application)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
