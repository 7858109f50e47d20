package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "pageview.yaml", `
views:
  - views/
  - extra/login.yaml
driver: html
page: pages/login.html
browser: firefox
headless: false
timeout: 3s
output: report.json
logFile: run.log
verbose: true
env:
  USER: test
  PASS: secret
`)

	cfg, err := Load(fs, "pageview.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Views) != 2 || cfg.Views[0] != "views/" {
		t.Errorf("expected views [views/ extra/login.yaml], got %v", cfg.Views)
	}
	if cfg.Driver != "html" || cfg.Page != "pages/login.html" || cfg.Browser != "firefox" {
		t.Errorf("unexpected page source %q %q %q", cfg.Driver, cfg.Page, cfg.Browser)
	}
	if cfg.IsHeadless() {
		t.Error("expected headless false")
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.Timeout)
	}
	if cfg.Output != "report.json" || cfg.LogFile != "run.log" || !cfg.Verbose {
		t.Errorf("unexpected output settings %q %q %v", cfg.Output, cfg.LogFile, cfg.Verbose)
	}
	if cfg.Env["USER"] != "test" || cfg.Env["PASS"] != "secret" {
		t.Errorf("expected env {USER:test, PASS:secret}, got %v", cfg.Env)
	}
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "bad.yaml", `views: [invalid yaml`)

	if _, err := Load(fs, "missing.yaml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if _, err := Load(fs, "bad.yaml"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "pageview.yaml", ``)

	cfg, err := Load(fs, "pageview.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Views) != 0 || !cfg.IsHeadless() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromDir(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		driver string
	}{
		{"yaml", map[string]string{"ws/pageview.yaml": "driver: mock"}, "mock"},
		{"yml", map[string]string{"ws/pageview.yml": "driver: html"}, "html"},
		{"prefers yaml", map[string]string{"ws/pageview.yaml": "driver: mock", "ws/pageview.yml": "driver: html"}, "mock"},
		{"none", map[string]string{"ws/other.yaml": "driver: html"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for path, content := range tt.files {
				writeFile(t, fs, path, content)
			}
			cfg, err := LoadFromDir(fs, "ws")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Driver != tt.driver {
				t.Errorf("expected driver %q, got %q", tt.driver, cfg.Driver)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, ".env", "# credentials\nUSER=alice\nexport TOKEN=\"s3cr3t\"\nHOST=example.test\n")

	vars, err := LoadEnv(fs, ".env")
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if vars["USER"] != "alice" || vars["TOKEN"] != "s3cr3t" {
		t.Errorf("unexpected vars %v", vars)
	}

	cfg := &Config{Env: map[string]string{"USER": "bob"}}
	cfg.MergeEnv(vars)
	if cfg.Env["USER"] != "bob" {
		t.Errorf("config env should win, got USER=%q", cfg.Env["USER"])
	}
	if cfg.Env["HOST"] != "example.test" {
		t.Errorf("expected HOST from .env, got %q", cfg.Env["HOST"])
	}

	empty := &Config{}
	empty.MergeEnv(vars)
	if len(empty.Env) != 3 {
		t.Errorf("expected 3 merged vars, got %v", empty.Env)
	}

	if _, err := LoadEnv(fs, "missing.env"); err == nil {
		t.Error("expected error for missing .env")
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("PAGEVIEW_TEST_BASE", "https://process.test")
	cfg := &Config{
		URL:   "${PAGEVIEW_TEST_BASE}/login",
		Page:  "pages/${SCREEN}.html",
		Views: []string{"views/${SCREEN}"},
		Env:   map[string]string{"SCREEN": "checkout"},
	}
	cfg.Expand()

	if cfg.URL != "https://process.test/login" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Page != "pages/checkout.html" || cfg.Views[0] != "views/checkout" {
		t.Errorf("Page = %q, Views = %v", cfg.Page, cfg.Views)
	}
}

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"explicit", Config{Driver: "browser"}, DriverBrowser, false},
		{"fixture", Config{Fixture: "page.yaml"}, DriverMock, false},
		{"page", Config{Page: "page.html"}, DriverHTML, false},
		{"hierarchy", Config{Hierarchy: "window.xml"}, DriverHierarchy, false},
		{"explicit hierarchy", Config{Driver: "hierarchy", Page: "page.html"}, DriverHierarchy, false},
		{"url", Config{URL: "https://example.test"}, DriverBrowser, false},
		{"unknown", Config{Driver: "appium"}, "", true},
		{"no source", Config{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolveDriver()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDriver() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDriver() = %q, want %q", got, tt.want)
			}
		})
	}
}
