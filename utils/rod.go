package utils

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"catalog-scraper/internal/types"
)

// RodLauncher starts a browser through go-rod. With Config.Stealth set,
// pages are created with the stealth evasions preloaded.
type RodLauncher struct {
	config *types.Config
	logger types.Logger
}

// NewRodLauncher creates a new rod launcher
func NewRodLauncher(config *types.Config, logger types.Logger) *RodLauncher {
	return &RodLauncher{
		config: config,
		logger: logger,
	}
}

// Launch starts the browser process and connects to it
func (r *RodLauncher) Launch(ctx context.Context) (types.Browser, error) {
	l := launcher.New().Headless(r.config.Headless).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.logger.Debugf("Rod browser started at %s (stealth=%v)", u, r.config.Stealth)
	return &rodBrowser{
		browser:  browser,
		launcher: l,
		config:   r.config,
	}, nil
}

type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	config   *types.Config
}

// OpenPage creates a page with the configured user agent
func (b *rodBrowser) OpenPage(ctx context.Context) (types.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		p   *rod.Page
		err error
	)
	if b.config.Stealth {
		p, err = stealth.Page(b.browser)
	} else {
		p, err = b.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.config.UserAgent}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}

	return &rodPage{page: p, config: b.config}, nil
}

// Close closes the browser and removes its profile directory
func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}

type rodPage struct {
	page   *rod.Page
	config *types.Config
}

// Navigate loads url and waits for DOMContentLoaded
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx).Timeout(p.config.Timeout)
	defer page.CancelTimeout()

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	wait()
	if err := page.GetContext().Err(); err != nil {
		return fmt.Errorf("failed to navigate: DOMContentLoaded not fired: %w", err)
	}

	return nil
}

// ScrollToBottom scrolls the viewport to the end of the current document
func (p *rodPage) ScrollToBottom(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// Height returns the current scroll height of the document body
func (p *rodPage) Height(ctx context.Context) (int64, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return int64(res.Value.Int()), nil
}

// HTML returns the rendered document
func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close closes the page
func (p *rodPage) Close() error {
	return p.page.Close()
}
