package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/eringen/spacetraveling/contentapi"
)

var contentWatch bool

var contentAPICmd = &cobra.Command{
	Use:   "contentapi",
	Short: "Run the local development content API",
	Long: `The contentapi command serves documents from a SQLite database over the same
search API the site reads from a hosted CMS. Markdown files in the content
directory are imported on start and, with --watch, whenever they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := appConfig.Content
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := contentapi.NewStore(cc.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		im := contentapi.NewImporter(store, appConfig.Site.DocumentType)
		im.SetLogger(logger)
		if _, err := os.Stat(cc.Dir); err == nil {
			n, err := im.ImportDir(ctx, cc.Dir)
			if err != nil {
				return err
			}
			logger.Infof("imported %d documents from %s", n, cc.Dir)
			if contentWatch {
				go func() {
					if err := im.Watch(ctx, cc.Dir); err != nil {
						logger.Errorf("watch stopped: %v", err)
					}
				}()
			}
		} else {
			logger.Warnf("content directory %s not found, serving %s as is", cc.Dir, cc.Database)
		}

		e := echo.New()
		e.HideBanner = true
		e.Logger = logger
		e.Use(middleware.Recover())
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:  true,
			LogURI:     true,
			LogMethod:  true,
			LogLatency: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
				return nil
			},
		}))
		contentapi.NewHandler(store).RegisterRoutes(e)

		errc := make(chan error, 1)
		go func() {
			logger.Infof("content API on %s/api/v2", cc.Addr)
			if err := e.Start(cc.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
				return
			}
			errc <- nil
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	contentAPICmd.Flags().String("api-addr", ":4000", "address to listen on")
	contentAPICmd.Flags().String("content", "content", "markdown content directory")
	contentAPICmd.Flags().String("database", "data/content.db", "SQLite database path")
	contentAPICmd.Flags().BoolVar(&contentWatch, "watch", true, "re-import content on change")
	rootCmd.AddCommand(contentAPICmd)
}
