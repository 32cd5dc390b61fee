package spacetraveling

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains static assets shipped with the site:
// loadmore.js, styles.css, logo.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

func embeddedAssetNames() []string {
	entries, err := fs.ReadDir(EmbeddedAssets, "embedded")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
