package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/spacetraveling"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Pre-render the blog as a static site",
	Long: `The build command fetches every listing page and post from the content API
and writes them, with the sitemap, the feed and the static assets, into the
configured output directory (default './dist/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		app := spacetraveling.New(appConfig.Site, spacetraveling.DefaultViews())
		app.Echo.Logger = logger
		defer app.Close()

		out := app.Config.OutputDir
		logger.Infof("building %s into %s", app.Config.Name, out)
		stats, err := app.Generate(cmd.Context(), out)
		if err != nil {
			return err
		}
		logger.Infof("built %d pages, %d posts and %d banners in %s",
			stats.Pages, stats.Posts, stats.Banners, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	buildCmd.Flags().String("out", "dist", "output directory")
	rootCmd.AddCommand(buildCmd)
}
