package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitializeConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`name: "Space Notes"
api_endpoint: "https://space.cdn.prismic.io/api/v2"
page_size: 5
request_timeout: "3s"
content:
  dir: "posts"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SPACETRAVELING_SESSION_SECRET=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPACETRAVELING_PAGE_SIZE", "7")
	t.Cleanup(func() { os.Unsetenv("SPACETRAVELING_SESSION_SECRET") })

	cfgFile = ""
	appConfig = config{}
	if err := initializeConfig(buildCmd); err != nil {
		t.Fatalf("initializeConfig failed: %v", err)
	}

	site := appConfig.Site
	if site.Name != "Space Notes" {
		t.Errorf("Name = %q", site.Name)
	}
	if site.PageSize != 7 {
		t.Errorf("PageSize = %d, want env override 7", site.PageSize)
	}
	if site.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v", site.RequestTimeout)
	}
	if site.SessionSecret != "from-dotenv" {
		t.Errorf("SessionSecret = %q, want value from .env", site.SessionSecret)
	}
	if site.OutputDir != "dist" || site.Locale != "pt-BR" {
		t.Errorf("defaults not applied: %+v", site)
	}
	if appConfig.Content.Dir != "posts" || appConfig.Content.Database != "data/content.db" {
		t.Errorf("Content = %+v", appConfig.Content)
	}
}

func TestInitializeConfigMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgFile = "nope.yaml"
	t.Cleanup(func() { cfgFile = "" })
	if err := initializeConfig(buildCmd); err == nil {
		t.Fatal("expected error for missing --config file")
	}
}
