package adapters

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-scraper/internal/types"
)

func newTestBase(t *testing.T) *BaseAdapter {
	t.Helper()
	site := types.BigHaatSite()
	base, err := NewBaseAdapter(&site, logrus.New())
	require.NoError(t, err)
	return base
}

func TestParsePrice(t *testing.T) {
	base := newTestBase(t)

	tests := []struct {
		text     string
		price    float64
		matched  bool
		fallback bool
	}{
		{"₹ 1,250 only", 1250, true, false},
		{"₹99", 99, true, false},
		{"Sale price ₹ 450 Regular price ₹ 600", 450, true, false},
		{"₹ 12,34,567", 1234567, true, false},
		{"₹\u00a01,250", 1250, true, false},
		{"₹\u202f799 per kg", 799, true, false},
		{"Save ₹ on bulk orders ₹ 450", 450, true, false},
		{"₹ TBD", 500, true, true},
		{"₹ , coming soon", 500, true, true},
		{"₹ 99999999999999999999999", 500, true, true},
		{"Rs. 250", 0, false, false},
		{"", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			price, matched, fallback := base.ParsePrice(tt.text)

			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.fallback, fallback)
			assert.Equal(t, tt.price, price)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/img.png", NormalizeURL("//cdn.example.com/img.png"))
	assert.Equal(t, "https://cdn.example.com/img.png", NormalizeURL("https://cdn.example.com/img.png"))
	assert.Equal(t, "http://cdn.example.com/img.png", NormalizeURL("http://cdn.example.com/img.png"))
	assert.Equal(t, "", NormalizeURL(""))

	once := NormalizeURL("//cdn.example.com/img.png")
	assert.Equal(t, once, NormalizeURL(once))
}

func TestResolveImageURL(t *testing.T) {
	base := newTestBase(t)

	tests := []struct {
		name string
		img  string
		want string
	}{
		{"plain src", `<img src="https://cdn.example.com/p.jpg" data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/p.jpg"},
		{"missing src", `<img data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/lazy.jpg"},
		{"empty src", `<img src="" data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/lazy.jpg"},
		{"inline data", `<img src="data:image/gif;base64,R0lGOD" data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/lazy.jpg"},
		{"arrow icon", `<img src="//cdn.example.com/icons/arrow-right.svg" data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/lazy.jpg"},
		{"discount badge", `<img src="//cdn.example.com/Discount-tag.png" data-src="//cdn.example.com/lazy.jpg">`, "https://cdn.example.com/lazy.jpg"},
		{"placeholder without lazy source", `<img src="//cdn.example.com/arrow.svg">`, "https://cdn.example.com/arrow.svg"},
		{"nothing at all", `<img alt="x">`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := base.ParseHTML(tt.img)
			require.NoError(t, err)

			assert.Equal(t, tt.want, base.ResolveImageURL(doc.Find("img").First()))
		})
	}
}

func TestVisibleText(t *testing.T) {
	base := newTestBase(t)
	doc, err := base.ParseHTML(`<div id="c">
  <span> Tomato </span><span>₹
    1,250</span>
  <script>var price = "₹ 1";</script>
  <style>.x{}</style>
  <!-- ₹ 2 -->
</div>`)
	require.NoError(t, err)

	assert.Equal(t, "Tomato ₹\n    1,250", VisibleText(doc.Find("#c")))
}
