// Package config handles configuration for pageview.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Driver names.
const (
	DriverMock      = "mock"
	DriverHTML      = "html"
	DriverHierarchy = "hierarchy"
	DriverBrowser   = "browser"
)

// Config represents the workspace configuration (pageview.yaml).
type Config struct {
	// Views to check: definition files or directories
	Views []string `yaml:"views"`

	// Page source
	Driver    string        `yaml:"driver"`    // mock, html, hierarchy or browser; inferred when empty
	Fixture   string        `yaml:"fixture"`   // YAML tree for the mock driver
	Page      string        `yaml:"page"`      // HTML snapshot for the html driver
	Hierarchy string        `yaml:"hierarchy"` // UIAutomator or XCUITest dump for the hierarchy driver
	URL       string        `yaml:"url"`       // address opened by the browser driver
	Browser   string        `yaml:"browser"`   // chromium, firefox or webkit
	Headless  *bool         `yaml:"headless"`  // default true
	Timeout   time.Duration `yaml:"timeout"`   // per driver call, e.g. 2s

	// Output
	Output  string `yaml:"output"` // JSON report path
	LogFile string `yaml:"logFile"`
	Verbose bool   `yaml:"verbose"`

	// Variables available to conditions and locator templates as ${NAME}
	Env map[string]string `yaml:"env"`
}

// Load loads configuration from a file.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromDir looks for pageview.yaml or pageview.yml in the directory.
func LoadFromDir(fs afero.Fs, dir string) (*Config, error) {
	for _, name := range []string{"pageview.yaml", "pageview.yml"} {
		path := filepath.Join(dir, name)
		if ok, _ := afero.Exists(fs, path); ok {
			return Load(fs, path)
		}
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// LoadEnv reads a .env file.
func LoadEnv(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// MergeEnv adds vars to Env. Variables already set in the config win.
func (c *Config) MergeEnv(vars map[string]string) {
	if c.Env == nil {
		c.Env = make(map[string]string, len(vars))
	}
	for k, v := range vars {
		if _, ok := c.Env[k]; !ok {
			c.Env[k] = v
		}
	}
}

// Expand replaces ${NAME} in the page source settings with Env values,
// falling back to the process environment.
func (c *Config) Expand() {
	lookup := func(name string) string {
		if v, ok := c.Env[name]; ok {
			return v
		}
		return os.Getenv(name)
	}
	c.Fixture = os.Expand(c.Fixture, lookup)
	c.Page = os.Expand(c.Page, lookup)
	c.Hierarchy = os.Expand(c.Hierarchy, lookup)
	c.URL = os.Expand(c.URL, lookup)
	for i, v := range c.Views {
		c.Views[i] = os.Expand(v, lookup)
	}
}

// ResolveDriver returns the configured driver, inferring it from the page source
// when none is set.
func (c *Config) ResolveDriver() (string, error) {
	switch c.Driver {
	case DriverMock, DriverHTML, DriverHierarchy, DriverBrowser:
		return c.Driver, nil
	case "":
	default:
		return "", fmt.Errorf("unknown driver %q (want %s, %s, %s or %s)", c.Driver, DriverMock, DriverHTML, DriverHierarchy, DriverBrowser)
	}

	switch {
	case c.Fixture != "":
		return DriverMock, nil
	case c.Page != "":
		return DriverHTML, nil
	case c.Hierarchy != "":
		return DriverHierarchy, nil
	case c.URL != "":
		return DriverBrowser, nil
	}
	return "", fmt.Errorf("no page source: set --fixture, --page, --hierarchy or --url")
}

// IsHeadless reports whether the browser should run headless.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}
