package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pageview/pkg/config"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/driver/hierarchy"
	"github.com/devicelab-dev/pageview/pkg/driver/htmldoc"
	"github.com/devicelab-dev/pageview/pkg/driver/mock"
	"github.com/devicelab-dev/pageview/pkg/driver/playwright"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/report"
)

// loadConfig reads the workspace config and applies flags, variables and .env files.
// Precedence for variables: --env, then pageview.yaml, then --env-file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(appFs, path)
	} else {
		cfg, err = config.LoadFromDir(appFs, ".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(c, cfg)

	if cfg.Env == nil {
		cfg.Env = make(map[string]string)
	}
	for k, v := range parseEnvVars(c.StringSlice("env")) {
		cfg.Env[k] = v
	}
	if path := c.String("env-file"); path != "" {
		vars, err := config.LoadEnv(appFs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
		cfg.MergeEnv(vars)
	}

	cfg.Expand()
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setString("driver", &cfg.Driver)
	setString("fixture", &cfg.Fixture)
	setString("page", &cfg.Page)
	setString("hierarchy", &cfg.Hierarchy)
	setString("url", &cfg.URL)
	setString("browser", &cfg.Browser)
	setString("json", &cfg.Output)
	setString("log-file", &cfg.LogFile)

	if c.IsSet("headless") {
		headless := c.Bool("headless")
		cfg.Headless = &headless
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
}

func parseEnvVars(envs []string) map[string]string {
	result := make(map[string]string)
	for _, e := range envs {
		if k, v, ok := strings.Cut(e, "="); ok {
			result[k] = v
		}
	}
	return result
}

// setupLogging directs the logger to stderr in verbose mode and to the log file otherwise.
func setupLogging(cfg *config.Config) error {
	if cfg.Verbose {
		logger.SetOutput(os.Stderr)
		return logger.SetLevel("debug")
	}

	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(config.GetLogsDir(), "pageview.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}
	return logger.Init(path)
}

// page is the context every command evaluates against.
type page struct {
	ctx    core.Context
	source string
	close  func() error
}

func openPage(c *cli.Context, cfg *config.Config, driver string) (*page, error) {
	noop := func() error { return nil }

	switch driver {
	case config.DriverMock:
		if cfg.Fixture == "" {
			return nil, fmt.Errorf("the mock driver needs --fixture")
		}
		d, err := mock.LoadFile(appFs, cfg.Fixture)
		if err != nil {
			return nil, err
		}
		return &page{ctx: d, source: cfg.Fixture, close: noop}, nil

	case config.DriverHTML:
		if cfg.Page == "" {
			return nil, fmt.Errorf("the html driver needs --page")
		}
		doc, err := htmldoc.LoadFile(appFs, cfg.Page)
		if err != nil {
			return nil, err
		}
		return &page{ctx: doc, source: cfg.Page, close: noop}, nil

	case config.DriverHierarchy:
		if cfg.Hierarchy == "" {
			return nil, fmt.Errorf("the hierarchy driver needs --hierarchy")
		}
		snap, err := hierarchy.LoadFile(appFs, cfg.Hierarchy)
		if err != nil {
			return nil, err
		}
		return &page{ctx: snap, source: cfg.Hierarchy, close: noop}, nil

	case config.DriverBrowser:
		if cfg.URL == "" {
			return nil, fmt.Errorf("the browser driver needs --url")
		}
		logger.Info("Launching %s for %s", cfg.Browser, cfg.URL)
		s, err := playwright.Launch(cfg.URL, playwright.Options{
			Browser:  cfg.Browser,
			Headless: cfg.IsHeadless(),
			Timeout:  cfg.Timeout,
			Install:  c.Bool("install"),
		})
		if err != nil {
			return nil, err
		}
		return &page{ctx: s.Page(), source: cfg.URL, close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown driver %q", driver)
}

// start resolves the driver, sets up logging and opens the page.
func start(c *cli.Context, cfg *config.Config) (*page, string, error) {
	driver, err := cfg.ResolveDriver()
	if err != nil {
		return nil, "", err
	}
	if err := setupLogging(cfg); err != nil {
		return nil, "", err
	}

	p, err := openPage(c, cfg, driver)
	if err != nil {
		logger.Close()
		return nil, "", err
	}
	logger.Info("Opened %s with the %s driver", p.source, driver)
	return p, driver, nil
}

// finish prints r, writes the JSON report if requested and fails when a check did not pass.
func finish(c *cli.Context, cfg *config.Config, r *report.Report) error {
	w := c.App.Writer

	switch cfg.Output {
	case "-":
		if err := report.EncodeJSON(w, r); err != nil {
			return err
		}
	case "":
		report.NewPrinter(w, cfg.Verbose).Print(r)
	default:
		report.NewPrinter(w, cfg.Verbose).Print(r)
		if err := report.WriteJSON(appFs, cfg.Output, r); err != nil {
			return err
		}
		logger.Info("Report written to %s", cfg.Output)
	}

	if bad := r.Summary.Failed + r.Summary.Errors; bad > 0 {
		return fmt.Errorf("%d of %d checks did not pass", bad, r.Summary.Total)
	}
	return nil
}
