// Package cli provides the command-line interface for pageview.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pageview/pkg/report"
)

// Version is set at build time.
var Version = "dev"

// appFs is where config, .env files, view definitions and page snapshots are read from.
var appFs = afero.NewOsFs()

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (mock, html, hierarchy, browser); inferred from the page source when omitted",
		EnvVars: []string{"PAGEVIEW_DRIVER"},
	},
	&cli.StringFlag{
		Name:  "fixture",
		Usage: "YAML element tree for the mock driver",
	},
	&cli.StringFlag{
		Name:  "page",
		Usage: "HTML snapshot for the html driver",
	},
	&cli.StringFlag{
		Name:  "hierarchy",
		Usage: "Android (uiautomator dump) or iOS (WebDriverAgent source) UI hierarchy for the hierarchy driver",
	},
	&cli.StringFlag{
		Name:    "url",
		Usage:   "Address opened by the browser driver",
		EnvVars: []string{"PAGEVIEW_URL"},
	},
	&cli.StringFlag{
		Name:  "browser",
		Usage: "Browser engine for the browser driver (chromium, firefox, webkit)",
	},
	&cli.BoolFlag{
		Name:  "headless",
		Usage: "Run the browser headless (default true)",
	},
	&cli.BoolFlag{
		Name:  "install",
		Usage: "Download the browser before launching it",
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "Per-call timeout of the browser driver",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to pageview.yaml (default: ./pageview.yaml if present)",
	},
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "Load variables from a .env file",
	},
	&cli.StringSliceFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "Variables (KEY=VALUE) for conditions and locator templates",
	},
	&cli.StringFlag{
		Name:  "json",
		Usage: "Write the JSON report to this file ('-' for stdout)",
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Log file (default: <home>/logs/pageview.log)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Print every field and log debug output to stderr",
		EnvVars: []string{"PAGEVIEW_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pageview",
		Usage:   "Check declarative page objects against a page",
		Version: Version,
		Description: `pageview evaluates page-object definitions (views made of located
elements, lists and nested views) against a page and reports whether each
view is loaded, displayed and present.

Examples:
  pageview --page login.html check views/login.yaml
  pageview --fixture page.yaml check views/
  pageview --hierarchy window_dump.xml check views/login.yaml
  pageview --url https://example.test/login locate id=user "css=form button"`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				report.DisableColor()
			}
			return nil
		},
		Commands: []*cli.Command{
			checkCommand,
			locateCommand,
		},
	}
}
