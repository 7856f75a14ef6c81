package utils

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-scraper/internal/types"
)

func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary on PATH")
}

func countPageTargets(t *testing.T, ctx context.Context) int {
	t.Helper()
	targets, err := chromedp.Targets(ctx)
	require.NoError(t, err)

	pages := 0
	for _, info := range targets {
		if info.Type == "page" {
			pages++
		}
	}
	return pages
}

func TestChromeBrowser_FirstPageReusesInitialTab(t *testing.T) {
	requireChrome(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	browser, err := NewChromeLauncher(types.DefaultConfig(), logrus.New()).Launch(ctx)
	require.NoError(t, err)
	defer browser.Close()

	first, err := browser.OpenPage(ctx)
	require.NoError(t, err)
	defer first.Close()

	firstCtx := first.(*chromePage).ctx
	assert.Equal(t, 1, countPageTargets(t, firstCtx), "no idle blank tab next to the working one")

	second, err := browser.OpenPage(ctx)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 2, countPageTargets(t, firstCtx))
}
