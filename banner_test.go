package spacetraveling

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/eringen/spacetraveling/posts"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, G: 87, B: 178, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessImageScalesWideImages(t *testing.T) {
	data, size, err := processImage(bytes.NewReader(testPNG(t, 1600, 400)))
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if size.X != 800 || size.Y != 200 {
		t.Errorf("size = %v, want 800x200", size)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	if cfg.Width != 800 {
		t.Errorf("jpeg width = %d", cfg.Width)
	}
}

func TestProcessImageKeepsNarrowImages(t *testing.T) {
	_, size, err := processImage(bytes.NewReader(testPNG(t, 320, 100)))
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if size.X != 320 || size.Y != 100 {
		t.Errorf("size = %v, want 320x100", size)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBannerOptimizer(t *testing.T) {
	img := testPNG(t, 1200, 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/banner.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	out := t.TempDir()
	b := &bannerOptimizer{client: srv.Client(), outDir: out}

	post := posts.Post{UID: "hooks", Banner: posts.Banner{URL: srv.URL + "/banner.png"}}
	if err := b.optimize(context.Background(), &post); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if post.Banner.URL != "/uploads/hooks.jpg" {
		t.Errorf("Banner.URL = %q", post.Banner.URL)
	}
	if _, err := os.Stat(filepath.Join(out, "uploads", "hooks.jpg")); err != nil {
		t.Errorf("banner not written: %v", err)
	}

	missing := posts.Post{UID: "gone", Banner: posts.Banner{URL: srv.URL + "/missing.png"}}
	if err := b.optimize(context.Background(), &missing); err == nil {
		t.Error("expected error for missing banner")
	}
	if missing.Banner.URL != srv.URL+"/missing.png" {
		t.Error("failed optimization must leave the URL untouched")
	}

	escape := posts.Post{UID: "../escape", Banner: posts.Banner{URL: srv.URL + "/banner.png"}}
	if err := b.optimize(context.Background(), &escape); err == nil {
		t.Error("expected error for uid with a path separator")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(out), "escape.jpg")); !os.IsNotExist(err) {
		t.Error("banner written outside the output directory")
	}
}

func TestPathSafeUID(t *testing.T) {
	tests := []struct {
		uid  string
		want bool
	}{
		{"como-utilizar-hooks", true},
		{"a..b", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../etc", false},
		{`a\b`, false},
		{"a/b", false},
	}
	for _, tt := range tests {
		if got := pathSafeUID(tt.uid); got != tt.want {
			t.Errorf("pathSafeUID(%q) = %v, want %v", tt.uid, got, tt.want)
		}
	}
}
