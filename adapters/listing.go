package adapters

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"catalog-scraper/internal/types"
)

// RejectReason tells why a candidate anchor did not become a product
type RejectReason string

const (
	ReasonMissingAlt   RejectReason = "missing_alt"
	ReasonMissingPrice RejectReason = "missing_price"
	ReasonShortName    RejectReason = "short_name"
	ReasonSkipKeyword  RejectReason = "skip_keyword"
	ReasonDuplicate    RejectReason = "duplicate"
)

// Outcome is the result of evaluating one candidate anchor. Product is set
// for accepted candidates, Reason for rejected ones.
type Outcome struct {
	Href    string
	Product *types.Product
	Reason  RejectReason
}

// Accepted reports whether the candidate produced a product
func (o Outcome) Accepted() bool {
	return o.Product != nil
}

// Collection accumulates the products of one category across snapshots.
// Names are unique and the number of products never exceeds the limit.
type Collection struct {
	limit          int
	products       []types.Product
	names          map[string]struct{}
	rejected       map[string]int
	priceFallbacks int
}

// NewCollection creates an empty collection capped at limit products
func NewCollection(limit int) *Collection {
	return &Collection{
		limit:    limit,
		names:    make(map[string]struct{}),
		rejected: make(map[string]int),
	}
}

// Len returns the number of collected products
func (c *Collection) Len() int {
	return len(c.products)
}

// Full reports whether the cap has been reached
func (c *Collection) Full() bool {
	return len(c.products) >= c.limit
}

// Has reports whether a product with exactly this name was collected
func (c *Collection) Has(name string) bool {
	_, ok := c.names[name]
	return ok
}

// Products returns the collected products in first-seen order
func (c *Collection) Products() []types.Product {
	out := make([]types.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Stats returns the accepted count, the price fallbacks among them, and the
// rejections of the most recent snapshot.
func (c *Collection) Stats() types.ExtractionStats {
	rejected := make(map[string]int, len(c.rejected))
	for k, v := range c.rejected {
		rejected[k] = v
	}
	return types.ExtractionStats{
		Accepted:       len(c.products),
		Rejected:       rejected,
		PriceFallbacks: c.priceFallbacks,
	}
}

func (c *Collection) add(p types.Product, fallback bool) {
	c.products = append(c.products, p)
	c.names[p.Name] = struct{}{}
	if fallback {
		c.priceFallbacks++
	}
}

// ListingAdapter extracts product records from category listing pages
type ListingAdapter struct {
	*BaseAdapter
}

// NewListingAdapter creates a new listing adapter for the given site
func NewListingAdapter(site *types.SiteConfig, logger types.Logger) (*ListingAdapter, error) {
	base, err := NewBaseAdapter(site, logger)
	if err != nil {
		return nil, err
	}
	return &ListingAdapter{BaseAdapter: base}, nil
}

// Extract evaluates every candidate anchor of an HTML snapshot and appends
// the accepted products to col. It stops as soon as col is full.
func (l *ListingAdapter) Extract(content string, category types.Category, col *Collection) ([]Outcome, error) {
	doc, err := l.ParseHTML(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	col.rejected = make(map[string]int)
	if col.Full() {
		return nil, nil
	}

	var outcomes []Outcome
	l.Candidates(doc).EachWithBreak(func(i int, anchor *goquery.Selection) bool {
		outcome := l.evaluate(anchor, category, col)
		outcomes = append(outcomes, outcome)

		if outcome.Accepted() {
			return !col.Full()
		}
		col.rejected[string(outcome.Reason)]++
		l.logger.Debugf("Skipping %s (%s)", outcome.Href, outcome.Reason)
		return true
	})

	return outcomes, nil
}

// Candidates returns the anchors whose link target contains the site's
// product marker, in document order.
func (l *ListingAdapter) Candidates(doc *goquery.Document) *goquery.Selection {
	return doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		return strings.Contains(href, l.site.ProductLinkMarker)
	})
}

func (l *ListingAdapter) evaluate(anchor *goquery.Selection, category types.Category, col *Collection) Outcome {
	href, _ := anchor.Attr("href")
	outcome := Outcome{Href: href}

	img := anchor.Find(l.site.ImageSelector).First()
	name, _ := img.Attr("alt")
	if name == "" {
		outcome.Reason = ReasonMissingAlt
		return outcome
	}

	// Prices usually live next to the link, inside the card container.
	container := anchor.Parent().Parent()
	if container.Length() == 0 {
		container = anchor
	}
	price, matched, fallback := l.ParsePrice(VisibleText(container))
	if !matched {
		outcome.Reason = ReasonMissingPrice
		return outcome
	}

	if utf8.RuneCountInString(name) < l.site.MinNameLength {
		outcome.Reason = ReasonShortName
		return outcome
	}
	for _, kw := range l.site.SkipKeywords {
		if kw != "" && strings.Contains(name, kw) {
			outcome.Reason = ReasonSkipKeyword
			return outcome
		}
	}
	if col.Has(name) {
		outcome.Reason = ReasonDuplicate
		return outcome
	}

	product := types.Product{
		Name:        name,
		Price:       price,
		Farmer:      l.site.SourceLabel,
		Image:       l.ResolveImageURL(img),
		Category:    category.Category,
		SubCategory: category.SubCategory,
		Stock:       l.site.StockLabel,
	}
	col.add(product, fallback)
	if fallback {
		l.logger.Warnf("Price for %q not parseable, using fallback %.0f", name, l.site.FallbackPrice)
	}

	outcome.Product = &product
	return outcome
}
