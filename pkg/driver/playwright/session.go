package playwright

import (
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/pageview/pkg/logger"
)

// Options configures Launch.
type Options struct {
	Browser  string        // chromium (default), firefox or webkit
	Headless bool
	Timeout  time.Duration // per-call timeout, DefaultTimeout when zero
	Install  bool          // download browsers before starting
}

// Session owns a Playwright process, a browser and one page.
type Session struct {
	pw      *pw.Playwright
	browser pw.Browser
	page    *Page
}

// Launch starts a browser and opens url in a new page.
func Launch(url string, opts Options) (*Session, error) {
	if opts.Install {
		if err := pw.Install(&pw.RunOptions{Browsers: []string{browserName(opts.Browser)}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := selectBrowser(runner, opts.Browser)
	if err != nil {
		runner.Stop()
		return nil, err
	}

	logger.Info("launching %s (headless=%v)", browserName(opts.Browser), opts.Headless)
	browser, err := browserType.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
	})
	if err != nil {
		runner.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		runner.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if url != "" {
		logger.Info("navigating to %s", url)
		if _, err := page.Goto(url, pw.PageGotoOptions{
			WaitUntil: pw.WaitUntilStateDomcontentloaded,
			Timeout:   pw.Float(30000),
		}); err != nil {
			browser.Close()
			runner.Stop()
			return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
		}
	}

	p := New(page)
	if opts.Timeout > 0 {
		p.SetTimeout(opts.Timeout)
	}
	return &Session{pw: runner, browser: browser, page: p}, nil
}

// Page returns the session's page context.
func (s *Session) Page() *Page { return s.page }

// Close shuts the browser and the Playwright process down.
func (s *Session) Close() error {
	var firstErr error
	if err := s.browser.Close(); err != nil {
		firstErr = err
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func browserName(name string) string {
	if name == "" {
		return "chromium"
	}
	return name
}

func selectBrowser(runner *pw.Playwright, name string) (pw.BrowserType, error) {
	switch browserName(name) {
	case "chromium":
		return runner.Chromium, nil
	case "firefox":
		return runner.Firefox, nil
	case "webkit":
		return runner.WebKit, nil
	}
	return nil, fmt.Errorf("unknown browser %q (want chromium, firefox or webkit)", name)
}
