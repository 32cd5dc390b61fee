package contentapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const samplePost = `---
title: Como utilizar Hooks
subtitle: Pensando em sincronização em vez de ciclos de vida
author: Joseph Oliveira
banner: https://images.prismic.io/spacetraveling/hooks.png
banner_alt: Hooks
published: 2021-03-15
updated: 2021-03-25 19:27
---

Intro paragraph before any heading.

## Proin et varius

Nullam dolor sapien, **vulputate** eu diam at, *condimentum* [docs](https://reactjs.org).

- first item
- second item

1. one

` + "```go\nfmt.Println(\"hi\")\n```" + `

## Cras laoreet mi

### Deep heading

![A rocket](https://images.prismic.io/spacetraveling/rocket.png)
`

func TestParseMarkdownDocument(t *testing.T) {
	im := NewImporter(setupTestStore(t), "posts")
	rec, err := im.Parse([]byte(samplePost), "2021-hooks.md", time.Now())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rec.UID != "2021-hooks" {
		t.Errorf("UID = %q, want %q", rec.UID, "2021-hooks")
	}
	if rec.Type != "posts" || rec.ID == "" {
		t.Errorf("Type = %q, ID = %q", rec.Type, rec.ID)
	}
	if rec.Data.Title != "Como utilizar Hooks" || rec.Data.Author != "Joseph Oliveira" {
		t.Errorf("Data = %+v", rec.Data)
	}
	if rec.Data.Banner.Alt == nil || *rec.Data.Banner.Alt != "Hooks" {
		t.Errorf("Banner = %+v", rec.Data.Banner)
	}
	if !rec.FirstPublication.Equal(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FirstPublication = %v", rec.FirstPublication)
	}
	if !rec.LastPublication.Equal(time.Date(2021, 3, 25, 19, 27, 0, 0, time.UTC)) {
		t.Errorf("LastPublication = %v", rec.LastPublication)
	}

	groups := rec.Data.Content
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %+v", len(groups), groups)
	}
	if groups[0].Heading != "" || groups[0].Body[0].Text != "Intro paragraph before any heading." {
		t.Errorf("group 0 = %+v", groups[0])
	}

	second := groups[1]
	if second.Heading != "Proin et varius" {
		t.Errorf("Heading = %q", second.Heading)
	}
	if len(second.Body) != 5 {
		t.Fatalf("got %d blocks, want 5: %+v", len(second.Body), second.Body)
	}
	para := second.Body[0]
	if para.Text != "Nullam dolor sapien, vulputate eu diam at, condimentum docs." {
		t.Errorf("Text = %q", para.Text)
	}
	if len(para.Spans) != 3 {
		t.Fatalf("Spans = %+v", para.Spans)
	}
	if s := para.Spans[0]; s.Type != "strong" || s.Start != 21 || s.End != 30 {
		t.Errorf("strong span = %+v", s)
	}
	if s := para.Spans[1]; s.Type != "em" || s.Start != 43 || s.End != 54 {
		t.Errorf("em span = %+v", s)
	}
	if s := para.Spans[2]; s.Type != "hyperlink" || s.Data == nil || s.Data.URL != "https://reactjs.org" {
		t.Errorf("link span = %+v", s)
	}
	if second.Body[1].Type != "list-item" || second.Body[1].Text != "first item" || second.Body[2].Type != "list-item" {
		t.Errorf("list blocks = %+v", second.Body[1:3])
	}
	if second.Body[3].Type != "o-list-item" || second.Body[3].Text != "one" {
		t.Errorf("ordered block = %+v", second.Body[3])
	}
	if second.Body[4].Type != "preformatted" || second.Body[4].Text != `fmt.Println("hi")` {
		t.Errorf("code block = %+v", second.Body[4])
	}

	third := groups[2]
	if len(third.Body) != 2 || third.Body[0].Type != "heading3" || third.Body[1].Type != "image" {
		t.Fatalf("third group = %+v", third.Body)
	}
	if img := third.Body[1]; img.URL != "https://images.prismic.io/spacetraveling/rocket.png" || img.Alt == nil || *img.Alt != "A rocket" {
		t.Errorf("image = %+v", img)
	}
}

func TestParseUsesFrontMatterUIDAndModTime(t *testing.T) {
	im := NewImporter(setupTestStore(t), "posts")
	mod := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	rec, err := im.Parse([]byte("---\nuid: custom\n---\n# Heading Title\n\ntext\n"), "ignored.md", mod)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if rec.UID != "custom" {
		t.Errorf("UID = %q, want custom", rec.UID)
	}
	if rec.Data.Title != "Heading Title" {
		t.Errorf("Title = %q, want h1 text", rec.Data.Title)
	}
	if !rec.FirstPublication.Equal(mod) || !rec.LastPublication.Equal(mod) {
		t.Errorf("dates = %v / %v, want %v", rec.FirstPublication, rec.LastPublication, mod)
	}
}

func TestParseRejectsBadDate(t *testing.T) {
	im := NewImporter(setupTestStore(t), "posts")
	if _, err := im.Parse([]byte("---\npublished: yesterday\n---\nx\n"), "x.md", time.Now()); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestImportDir(t *testing.T) {
	s := setupTestStore(t)
	im := NewImporter(s, "posts")
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "hooks.md"), []byte(samplePost), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644)
	os.MkdirAll(filepath.Join(dir, "drafts"), 0o755)
	os.WriteFile(filepath.Join(dir, "drafts", "cra.md"), []byte("---\ntitle: Criando um app CRA do zero\n---\nbody\n"), 0o644)

	n, err := im.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}
	if _, err := s.GetByUID(context.Background(), "posts", "cra"); err != nil {
		t.Errorf("GetByUID(cra) failed: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatchImportsAndRemoves(t *testing.T) {
	s := setupTestStore(t)
	im := NewImporter(s, "posts")
	im.debounce = 20 * time.Millisecond
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- im.Watch(ctx, dir) }()
	defer func() {
		cancel()
		<-done
	}()
	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "live.md")
	if err := os.WriteFile(path, []byte("---\ntitle: Live\n---\nhello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, func() bool {
		_, err := s.GetByUID(context.Background(), "posts", "live")
		return err == nil
	})

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	waitFor(t, func() bool {
		_, err := s.GetByUID(context.Background(), "posts", "live")
		return IsNotFound(err)
	})
}
