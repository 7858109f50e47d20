package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/report"
)

var locateCommand = &cli.Command{
	Name:      "locate",
	Usage:     "Resolve locators against a page",
	ArgsUsage: "<locator>...",
	Description: `Resolve each locator and print how many elements it matched, whether
the first match is displayed, and its text.

Locators use the kind=value form: id, name, xpath, css, text, partial, link.
A bare value starting with "/" is an XPath, anything else is partial text.

Examples:
  pageview --page login.html locate id=user "css=button[type=submit]"
  pageview --url https://example.test locate "xpath=//h1" "link=Sign in"`,
	Action: runLocate,
}

func runLocate(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one locator is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, driver, err := start(c, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer p.close()

	b := report.NewBuilder(driver, p.source)
	for _, raw := range c.Args().Slice() {
		r := report.Locate(p.ctx, raw)
		logger.Debug("locate %s: %s, %d match(es)", raw, r.Status, r.Count)
		b.AddLocate(r)
	}
	return finish(c, cfg, b.Finish())
}
