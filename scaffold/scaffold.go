// Package scaffold provides the embedded starter project written by
// `spacetraveling init`.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
	Today       string
}

// NewData derives template data from a project directory name.
func NewData(dir string) Data {
	name := filepath.Base(filepath.Clean(dir))
	return Data{
		ProjectName: name,
		SiteName:    ToTitle(name),
		Today:       time.Now().Format("2006-01-02"),
	}
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func ToTitle(s string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(s, "-", " "))
}

// Write renders the templates into dir, which must not exist yet. created
// is called with each written path.
func Write(dir string, data Data, created func(path string)) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	return fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		if filepath.Ext(outPath) == ".yaml" {
			if err := ValidateConfig(buf.Bytes()); err != nil {
				return fmt.Errorf("%s: %w", outPath, err)
			}
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		if created != nil {
			created(outPath)
		}
		return nil
	})
}

// starterConfig is the subset of config.yaml a new project must set.
type starterConfig struct {
	Name        string `yaml:"name"`
	APIEndpoint string `yaml:"api_endpoint"`
	PageSize    int    `yaml:"page_size"`
}

// ValidateConfig checks that a rendered config.yaml parses and names a site
// and a content API.
func ValidateConfig(data []byte) error {
	var cfg starterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if cfg.APIEndpoint == "" {
		return fmt.Errorf("api_endpoint is required")
	}
	if cfg.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative")
	}
	return nil
}
