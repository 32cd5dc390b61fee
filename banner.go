package spacetraveling

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/eringen/spacetraveling/posts"
)

const (
	maxBannerWidth = 800
	jpegQuality    = 80
	maxBannerSize  = 10 << 20 // 10MB
	uploadsSubdir  = "uploads"
)

// processImage decodes an image from src, scales it down to maxBannerWidth
// if wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, image.Point, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxBannerWidth {
		newH := h * maxBannerWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxBannerWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxBannerWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), image.Pt(w, h), nil
}

// bannerOptimizer downloads post banners and re-hosts them as resized JPEGs
// under the build output's uploads directory.
type bannerOptimizer struct {
	client *http.Client
	outDir string
}

// optimize rewrites post.Banner.URL to the local copy. The post is left
// untouched on error.
func (b *bannerOptimizer) optimize(ctx context.Context, post *posts.Post) error {
	if post.Banner.URL == "" {
		return nil
	}
	if !pathSafeUID(post.UID) {
		return fmt.Errorf("banner: unsafe uid %q", post.UID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, post.Banner.URL, nil)
	if err != nil {
		return fmt.Errorf("banner request: %w", err)
	}
	res, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch banner: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch banner: status %d", res.StatusCode)
	}

	data, _, err := processImage(io.LimitReader(res.Body, maxBannerSize))
	if err != nil {
		return err
	}
	filename := post.UID + ".jpg"
	if err := writeFile(filepath.Join(b.outDir, uploadsSubdir, filename), data); err != nil {
		return err
	}
	post.Banner.URL = "/" + uploadsSubdir + "/" + filename
	return nil
}
