package adapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"catalog-scraper/internal/types"
)

// BaseAdapter provides the parsing primitives shared by listing extraction:
// HTML parsing, price matching and image URL resolution, all driven by a
// SiteConfig so the same code can serve any similarly-structured shop.
type BaseAdapter struct {
	site    *types.SiteConfig // Selectors, markers and labels for the target site
	logger  types.Logger      // Structured logging interface
	priceRe *regexp.Regexp    // Compiled SiteConfig.PriceRegex
}

// NewBaseAdapter creates a new base adapter, compiling the site's price pattern.
func NewBaseAdapter(site *types.SiteConfig, logger types.Logger) (*BaseAdapter, error) {
	re, err := regexp.Compile(site.PriceRegex)
	if err != nil {
		return nil, fmt.Errorf("failed to compile price regex: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("price regex %q has no capture group", site.PriceRegex)
	}

	return &BaseAdapter{
		site:    site,
		logger:  logger,
		priceRe: re,
	}, nil
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// ParsePrice looks for the first currency-prefixed amount in text.
//
// matched is false when the currency pattern does not occur at all. A bare
// symbol is skipped in favour of a later one that carries digits; only when
// none does, or the amount overflows, the site's fallback price is returned
// with fallback set.
func (b *BaseAdapter) ParsePrice(text string) (price float64, matched bool, fallback bool) {
	matches := b.priceRe.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return 0, false, false
	}

	for _, m := range matches {
		digits := strings.ReplaceAll(m[1], ",", "")
		if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			continue
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return b.site.FallbackPrice, true, true
		}
		return float64(n), true, false
	}

	return b.site.FallbackPrice, true, true
}

// ResolveImageURL picks the product photo URL of an image element.
// Placeholder sources (inline data, decorative icons) give way to the
// lazy-load attribute when the element carries one.
func (b *BaseAdapter) ResolveImageURL(img *goquery.Selection) string {
	src, _ := img.Attr("src")
	if src == "" || b.isPlaceholder(src) {
		if b.site.LazyImageAttr != "" {
			if lazy, ok := img.Attr(b.site.LazyImageAttr); ok {
				src = lazy
			}
		}
	}
	return NormalizeURL(src)
}

func (b *BaseAdapter) isPlaceholder(src string) bool {
	lower := strings.ToLower(src)
	for _, marker := range b.site.PlaceholderMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// NormalizeURL rewrites protocol-relative URLs to https. Anything else is
// returned unchanged.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// VisibleText returns the text of the selection with every text node
// trimmed and joined by a single space. Script and style contents are skipped.
func VisibleText(sel *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
