package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/spacetraveling"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog from the content API",
	Long: `The serve command renders every page on request from the configured content
API. Preview links from the CMS open posts from unpublished refs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := spacetraveling.New(appConfig.Site, spacetraveling.DefaultViews())
		app.Echo.HideBanner = true
		app.Echo.Logger = logger
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			errc <- app.Start()
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errc
	},
}

func init() {
	serveCmd.Flags().String("addr", ":3000", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}
