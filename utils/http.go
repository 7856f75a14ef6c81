package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog-scraper/internal/types"
)

// HTTPClient fetches pages without a browser. Content rendered by JavaScript
// or loaded on scroll is not visible to it.
type HTTPClient struct {
	client *http.Client
	config *types.Config
	logger types.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Get performs a single GET request with the configured user agent
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	h.logger.Debugf("Making request to %s", url)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
	return body, nil
}

// Launch implements types.BrowserLauncher. There is no process to start.
func (h *HTTPClient) Launch(ctx context.Context) (types.Browser, error) {
	return h, nil
}

// OpenPage implements types.Browser
func (h *HTTPClient) OpenPage(ctx context.Context) (types.Page, error) {
	return &httpPage{client: h}, nil
}

// Close releases idle connections
func (h *HTTPClient) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

// httpPage holds the document fetched by the last Navigate. Scrolling has
// no effect, so its height never changes.
type httpPage struct {
	client *HTTPClient
	html   string
}

func (p *httpPage) Navigate(ctx context.Context, url string) error {
	body, err := p.client.Get(ctx, url)
	if err != nil {
		return err
	}
	p.html = string(body)
	return nil
}

func (p *httpPage) ScrollToBottom(ctx context.Context) error {
	return ctx.Err()
}

func (p *httpPage) Height(ctx context.Context) (int64, error) {
	return int64(len(p.html)), ctx.Err()
}

func (p *httpPage) HTML(ctx context.Context) (string, error) {
	return p.html, ctx.Err()
}

func (p *httpPage) Close() error {
	return nil
}
