package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/spacetraveling/contentapi"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import markdown posts into the local content database",
	Long: `The import command parses markdown files with YAML front matter from the
content directory and upserts them as documents. With --watch it keeps running
and re-imports files as they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := appConfig.Content
		store, err := contentapi.NewStore(cc.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		im := contentapi.NewImporter(store, appConfig.Site.DocumentType)
		im.SetLogger(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		n, err := im.ImportDir(ctx, cc.Dir)
		if err != nil {
			return err
		}
		logger.Infof("imported %d documents into %s", n, cc.Database)
		if !importWatch {
			return nil
		}
		return im.Watch(ctx, cc.Dir)
	},
}

func init() {
	importCmd.Flags().String("content", "content", "markdown content directory")
	importCmd.Flags().String("database", "data/content.db", "SQLite database path")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "keep running and re-import on change")
	rootCmd.AddCommand(importCmd)
}
