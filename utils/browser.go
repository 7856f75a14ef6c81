package utils

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"catalog-scraper/internal/types"
)

// ChromeLauncher starts headless Chrome through chromedp
type ChromeLauncher struct {
	config *types.Config
	logger types.Logger
}

// NewChromeLauncher creates a new chromedp launcher
func NewChromeLauncher(config *types.Config, logger types.Logger) *ChromeLauncher {
	return &ChromeLauncher{
		config: config,
		logger: logger,
	}
}

// Launch starts a browser process. The process lives until Close is called
// or ctx is cancelled.
func (c *ChromeLauncher) Launch(ctx context.Context) (types.Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.config.Headless),
		chromedp.UserAgent(c.config.UserAgent),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Route chromedp chatter to debug instead of the standard logger
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(c.logger.Debugf),
		chromedp.WithErrorf(c.logger.Debugf),
	)

	// The first Run allocates the browser; it must not carry a timeout or
	// the whole process dies with it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	c.logger.Debugf("Chrome started (headless=%v)", c.config.Headless)
	return &chromeBrowser{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		config:        c.config,
	}, nil
}

type chromeBrowser struct {
	ctx            context.Context
	cancelBrowser  context.CancelFunc
	cancelAlloc    context.CancelFunc
	config         *types.Config
	initialTabUsed bool
}

// OpenPage returns a tab with the configured user agent. The first call
// takes over the tab Chrome started with; later calls open new ones.
func (b *chromeBrowser) OpenPage(ctx context.Context) (types.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := b.ctx, context.CancelFunc(func() {})
	if b.initialTabUsed {
		tabCtx, cancel = chromedp.NewContext(b.ctx)
	}
	if err := chromedp.Run(tabCtx, emulation.SetUserAgentOverride(b.config.UserAgent)); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	b.initialTabUsed = true

	return &chromePage{
		ctx:    tabCtx,
		cancel: cancel,
		config: b.config,
	}, nil
}

// Close shuts the browser down gracefully and releases the allocator
func (b *chromeBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancelBrowser()
	b.cancelAlloc()
	return err
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
	config *types.Config
}

// Navigate loads url and returns on DOMContentLoaded rather than the full
// load event, so slow third-party assets don't hold the scrape up.
func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(p.ctx, p.config.Timeout)
	defer cancel()

	domReady := make(chan struct{}, 1)
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			select {
			case domReady <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(navCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var res page.NavigateReturns
		if err := cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res); err != nil {
			return err
		}
		if res.ErrorText != "" {
			return fmt.Errorf("page load error %s", res.ErrorText)
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	select {
	case <-domReady:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-navCtx.Done():
		return fmt.Errorf("failed to navigate: DOMContentLoaded not fired: %w", navCtx.Err())
	}
}

// ScrollToBottom scrolls the viewport to the end of the current document
func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	return p.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

// Height returns the current scroll height of the document body
func (p *chromePage) Height(ctx context.Context) (int64, error) {
	var height int64
	if err := p.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, err
	}
	return height, nil
}

// HTML returns the rendered document
func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close closes the tab. The initial tab stays open until the browser closes.
func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, actions...)
}
