package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"my-blog", "My Blog"},
		{"myblog", "Myblog"},
		{"space-traveling-notes", "Space Traveling Notes"},
	}
	for _, tt := range tests {
		if got := ToTitle(tt.input); got != tt.expected {
			t.Errorf("ToTitle(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	var created []string
	if err := Write(dir, NewData(dir), func(p string) { created = append(created, p) }); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(created) != 3 {
		t.Errorf("expected 3 files, got %v", created)
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config.yaml not written: %v", err)
	}
	if !strings.Contains(string(cfg), `name: "My Blog"`) {
		t.Errorf("config.yaml not rendered: %s", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, ".env.example")); err != nil {
		t.Errorf(".env.example not written: %v", err)
	}
	post, err := os.ReadFile(filepath.Join(dir, "content", "hello-world.md"))
	if err != nil {
		t.Fatalf("starter post not written: %v", err)
	}
	if strings.Contains(string(post), "{{") {
		t.Errorf("starter post has unrendered template actions: %s", post)
	}
}

func TestWriteRefusesExistingDir(t *testing.T) {
	if err := Write(t.TempDir(), Data{SiteName: "x"}, nil); err == nil {
		t.Fatal("expected error for existing directory")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", "name: Blog\napi_endpoint: http://localhost:4000/api/v2\npage_size: 2\n", false},
		{"missing name", "api_endpoint: http://localhost:4000/api/v2\n", true},
		{"missing endpoint", "name: Blog\n", true},
		{"negative page size", "name: Blog\napi_endpoint: x\npage_size: -1\n", true},
		{"not yaml", "name: [unclosed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
