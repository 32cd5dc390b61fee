package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
)

// BuildStats summarizes a Generate run.
type BuildStats struct {
	Pages   int // listing pages, including the home page
	Posts   int // pre-rendered post pages
	Banners int // banners re-hosted
}

// Generate pre-renders the site into outDir: the home page, every listing
// continuation as both a full page and a fragment, post pages up to
// PrerenderLimit, the not-found page, the sitemap, the feed and the static
// assets. The full collection is fetched once and reused for adjacency.
func (a *App) Generate(ctx context.Context, outDir string) (BuildStats, error) {
	var stats BuildStats
	if err := a.ensureContent(); err != nil {
		return stats, err
	}
	log := a.Echo.Logger
	site := a.baseSite()

	col, page, err := a.firstPage(ctx, "")
	if err != nil {
		return stats, fmt.Errorf("spacetraveling: fetch first page: %w", err)
	}
	if err := RenderFile(ctx, filepath.Join(outDir, "index.html"), a.Views.Home(listing(site, col, page))); err != nil {
		return stats, err
	}
	stats.Pages++

	for posts.HasMore(page) {
		n, ok := prismic.PageNumber(page.NextPage)
		if !ok {
			return stats, fmt.Errorf("spacetraveling: continuation without page number: %q", page.NextPage)
		}
		if page, err = a.Content.FetchPage(ctx, page.NextPage); err != nil {
			return stats, fmt.Errorf("spacetraveling: fetch page %d: %w", n, err)
		}
		col = posts.Append(col, page)

		dir := filepath.Join(outDir, "page", fmt.Sprint(n))
		if err := RenderFile(ctx, filepath.Join(dir, "index.html"), a.Views.Home(listing(site, col, page))); err != nil {
			return stats, err
		}
		if err := RenderFile(ctx, filepath.Join(dir, "posts.html"), a.Views.PostList(listing(site, posts.Seed(page), page))); err != nil {
			return stats, err
		}
		stats.Pages++
	}
	log.Infof("rendered %d listing pages", stats.Pages)

	banners := &bannerOptimizer{client: &http.Client{Timeout: a.Config.RequestTimeout}, outDir: outDir}
	for i, s := range col.Summaries {
		if a.Config.PrerenderLimit > 0 && i >= a.Config.PrerenderLimit {
			break
		}
		if !pathSafeUID(s.UID) {
			log.Warnf("skipping post with unsafe uid %q", s.UID)
			continue
		}
		v, err := a.postView(ctx, site, "", s.UID, col.Summaries)
		if err != nil {
			return stats, fmt.Errorf("spacetraveling: post %s: %w", s.UID, err)
		}
		if a.Config.OptimizeBanners && v.Post.Banner.URL != "" {
			if err := banners.optimize(ctx, &v.Post); err != nil {
				log.Warnf("banner for %s left remote: %v", s.UID, err)
			} else {
				stats.Banners++
			}
		}
		if err := RenderFile(ctx, filepath.Join(outDir, "post", s.UID, "index.html"), a.Views.Post(v)); err != nil {
			return stats, err
		}
		stats.Posts++
	}
	log.Infof("rendered %d of %d posts", stats.Posts, col.Len())

	if err := RenderFile(ctx, filepath.Join(outDir, "404.html"), a.Views.NotFound(site)); err != nil {
		return stats, err
	}
	if err := a.writeXMLFile(filepath.Join(outDir, "sitemap.xml"), buildSitemap(a.Config.URL, col.Summaries)); err != nil {
		return stats, err
	}
	if err := a.writeXMLFile(filepath.Join(outDir, "feed.xml"), buildFeed(a.Config, col.Summaries)); err != nil {
		return stats, err
	}

	if err := a.copyAssets(filepath.Join(outDir, "public")); err != nil {
		return stats, err
	}
	return stats, nil
}

func (a *App) writeXMLFile(path string, v any) error {
	data, err := encodeXML(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, data)
}

// copyAssets writes the user's static dir, then the embedded assets, into
// dst. Embedded assets win on name clashes, as they do when serving.
func (a *App) copyAssets(dst string) error {
	if _, err := os.Stat(a.staticDir); err == nil {
		if err := copyTree(dst, os.DirFS(a.staticDir)); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat static dir: %w", err)
	}
	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	return copyTree(dst, embedded)
}

func copyTree(dst string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dst, filepath.FromSlash(path)), data)
	})
}
