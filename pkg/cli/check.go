package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pageview/pkg/jsengine"
	"github.com/devicelab-dev/pageview/pkg/logger"
	"github.com/devicelab-dev/pageview/pkg/report"
	"github.com/devicelab-dev/pageview/pkg/viewdef"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Check whether declared views are loaded on a page",
	ArgsUsage: "<view-file-or-folder>...",
	Description: `Evaluate view definitions against the page and print, per view,
whether it is loaded, displayed and present, followed by the state of its fields.

Without arguments the views listed in pageview.yaml are checked.

Examples:
  pageview --page login.html check views/login.yaml
  pageview --fixture page.yaml -e USER=alice check views/
  pageview --url https://example.test --json report.json check views/`,
	Action: runCheck,
}

func runCheck(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = cfg.Views
	}
	if len(paths) == 0 {
		return fmt.Errorf("at least one view file or folder is required")
	}

	defs, err := loadDefinitions(paths)
	if err != nil {
		return err
	}

	engine := jsengine.New()
	engine.SetVariables(scriptVars(cfg.Env))

	views := make([]*viewdef.View, 0, len(defs))
	for _, def := range defs {
		v, err := viewdef.Build(def, engine)
		if err != nil {
			return fmt.Errorf("%s: %w", def.SourcePath, err)
		}
		views = append(views, v)
	}

	p, driver, err := start(c, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer p.close()

	b := report.NewBuilder(driver, p.source)
	for i, v := range views {
		v.SetContext(p.ctx)
		logger.WithField("view", v.Name()).Debug("checking")
		b.AddView(report.CheckView(v, defs[i].SourcePath))
	}
	return finish(c, cfg, b.Finish())
}

// loadDefinitions reads view definitions from files and directories.
func loadDefinitions(paths []string) ([]*viewdef.Definition, error) {
	var defs []*viewdef.Definition
	for _, path := range paths {
		info, err := appFs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("view definition not found: %s", path)
		}
		if info.IsDir() {
			found, err := viewdef.LoadDir(appFs, path)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, fmt.Errorf("no view definitions in %s", path)
			}
			defs = append(defs, found...)
			continue
		}
		def, err := viewdef.LoadFile(appFs, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func scriptVars(env map[string]string) map[string]interface{} {
	vars := make(map[string]interface{}, len(env))
	for k, v := range env {
		vars[k] = v
	}
	return vars
}
