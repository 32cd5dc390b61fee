package contentapi

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/eringen/spacetraveling/prismic"
)

// dateLayouts are the accepted front matter date formats.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// frontMatter is the YAML header of an imported markdown file.
type frontMatter struct {
	UID       string `yaml:"uid"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Author    string `yaml:"author"`
	Banner    string `yaml:"banner"`
	BannerAlt string `yaml:"banner_alt"`
	Published string `yaml:"published"`
	Updated   string `yaml:"updated"`
}

// Importer turns markdown files into API documents. Level-2 headings start
// a new content group; everything else becomes body blocks of the current
// group.
type Importer struct {
	store    *Store
	docType  string
	md       goldmark.Markdown
	logger   *log.Logger
	debounce time.Duration

	mu    sync.Mutex
	paths map[string]string // file path -> uid
}

// NewImporter creates an Importer writing documents of docType into store.
func NewImporter(store *Store, docType string) *Importer {
	return &Importer{
		store:    store,
		docType:  docType,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   log.New("import"),
		debounce: 500 * time.Millisecond,
		paths:    make(map[string]string),
	}
}

// SetLogger replaces the importer's logger.
func (im *Importer) SetLogger(l *log.Logger) {
	im.logger = l
}

// ImportDir imports every .md file under dir and returns how many were
// stored.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}
		if _, err := im.ImportFile(ctx, path); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}

// ImportFile parses and stores one markdown file.
func (im *Importer) ImportFile(ctx context.Context, path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Record{}, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	rec, err := im.Parse(source, filepath.Base(path), info.ModTime())
	if err != nil {
		return Record{}, err
	}
	if err := im.store.SaveDocument(ctx, rec); err != nil {
		return Record{}, err
	}
	im.mu.Lock()
	im.paths[path] = rec.UID
	im.mu.Unlock()
	im.logger.Infof("imported %s as %s", path, rec.UID)
	return rec, nil
}

// Parse converts markdown source into a document record. name is used for
// the uid when the front matter has none; modTime fills missing dates.
func (im *Importer) Parse(source []byte, name string, modTime time.Time) (Record, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return Record{}, fmt.Errorf("front matter: %w", err)
	}

	uid := fm.UID
	if uid == "" {
		uid = Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	}
	if uid == "" {
		return Record{}, fmt.Errorf("cannot derive uid from %q", name)
	}

	published, err := parseDate(fm.Published, modTime)
	if err != nil {
		return Record{}, fmt.Errorf("published: %w", err)
	}
	updated, err := parseDate(fm.Updated, modTime)
	if err != nil {
		return Record{}, fmt.Errorf("updated: %w", err)
	}
	if updated.Before(published) {
		updated = published
	}

	title, groups := im.convert(body)
	if fm.Title != "" {
		title = fm.Title
	}

	data := prismic.DocumentData{
		Title:    title,
		Subtitle: fm.Subtitle,
		Author:   fm.Author,
		Banner:   prismic.BannerField{URL: fm.Banner},
		Content:  groups,
	}
	if fm.BannerAlt != "" {
		alt := fm.BannerAlt
		data.Banner.Alt = &alt
	}

	return Record{
		ID:               uuid.NewSHA1(uuid.NameSpaceURL, []byte(im.docType+"/"+uid)).String(),
		UID:              uid,
		Type:             im.docType,
		FirstPublication: published,
		LastPublication:  updated,
		Data:             data,
	}, nil
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback.UTC().Truncate(time.Second), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// convert walks the markdown AST and returns the first level-1 heading
// (if any) and the content groups.
func (im *Importer) convert(source []byte) (string, []prismic.ContentGroup) {
	doc := im.md.Parser().Parse(text.NewReader(source))

	var title string
	var groups []prismic.ContentGroup
	current := -1
	add := func(blocks ...prismic.TextBlock) {
		if len(blocks) == 0 {
			return
		}
		if current < 0 {
			groups = append(groups, prismic.ContentGroup{})
			current = 0
		}
		groups[current].Body = append(groups[current].Body, blocks...)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			ib := inlineText(node, source)
			switch {
			case node.Level == 1 && title == "":
				title = ib.text()
			case node.Level <= 2:
				groups = append(groups, prismic.ContentGroup{Heading: ib.text(), Body: []prismic.TextBlock{}})
				current = len(groups) - 1
			default:
				add(ib.block(fmt.Sprintf("heading%d", node.Level)))
			}
		case *ast.Paragraph:
			if img, ok := node.FirstChild().(*ast.Image); ok && node.ChildCount() == 1 {
				alt := inlineText(img, source).text()
				add(prismic.TextBlock{Type: "image", URL: string(img.Destination), Alt: &alt, Spans: []prismic.TextSpan{}})
				continue
			}
			add(inlineText(node, source).block("paragraph"))
		case *ast.List:
			add(listBlocks(node, source)...)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			add(prismic.TextBlock{Type: "preformatted", Text: rawLines(node, source), Spans: []prismic.TextSpan{}})
		case *ast.Blockquote:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				add(inlineText(c, source).block("paragraph"))
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			if b := inlineText(node, source); b.sb.Len() > 0 {
				add(b.block("paragraph"))
			}
		}
	}
	return title, groups
}

func listBlocks(list *ast.List, source []byte) []prismic.TextBlock {
	typ := "list-item"
	if list.IsOrdered() {
		typ = "o-list-item"
	}
	var out []prismic.TextBlock
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		ib := &inlineBuilder{source: source}
		var nested []prismic.TextBlock
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, listBlocks(sub, source)...)
				continue
			}
			if ib.sb.Len() > 0 {
				ib.write(" ")
			}
			ib.walk(c)
		}
		out = append(out, ib.block(typ))
		out = append(out, nested...)
	}
	return out
}

func rawLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// inlineBuilder flattens inline nodes into text and rune-offset spans.
type inlineBuilder struct {
	source []byte
	sb     strings.Builder
	n      int
	spans  []prismic.TextSpan
}

func inlineText(n ast.Node, source []byte) *inlineBuilder {
	ib := &inlineBuilder{source: source}
	ib.walk(n)
	return ib
}

func (ib *inlineBuilder) write(s string) {
	ib.sb.WriteString(s)
	ib.n += utf8.RuneCountInString(s)
}

func (ib *inlineBuilder) text() string {
	return ib.sb.String()
}

func (ib *inlineBuilder) block(typ string) prismic.TextBlock {
	spans := ib.spans
	if spans == nil {
		spans = []prismic.TextSpan{}
	}
	return prismic.TextBlock{Type: typ, Text: ib.sb.String(), Spans: spans}
}

func (ib *inlineBuilder) span(start int, typ string, data *prismic.HyperlinkRef) {
	if ib.n > start {
		ib.spans = append(ib.spans, prismic.TextSpan{Start: start, End: ib.n, Type: typ, Data: data})
	}
}

func (ib *inlineBuilder) walk(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			ib.write(string(v.Segment.Value(ib.source)))
			if v.SoftLineBreak() || v.HardLineBreak() {
				ib.write(" ")
			}
		case *ast.String:
			ib.write(string(v.Value))
		case *ast.Emphasis:
			start := ib.n
			ib.walk(v)
			typ := "em"
			if v.Level >= 2 {
				typ = "strong"
			}
			ib.span(start, typ, nil)
		case *ast.Link:
			start := ib.n
			ib.walk(v)
			ib.span(start, "hyperlink", &prismic.HyperlinkRef{LinkType: "Web", URL: string(v.Destination)})
		case *ast.AutoLink:
			start := ib.n
			ib.write(string(v.Label(ib.source)))
			ib.span(start, "hyperlink", &prismic.HyperlinkRef{LinkType: "Web", URL: string(v.URL(ib.source))})
		case *ast.RawHTML, *ast.Image:
		default:
			ib.walk(c)
		}
	}
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}
