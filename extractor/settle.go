package extractor

import (
	"context"
	"time"

	"catalog-scraper/internal/types"
)

// waitForSettle blocks after a scroll until lazily loaded content has had a
// chance to render. Once the height has moved and then held still for
// Settle.StableFor it returns early; a page that never moves gets the full
// Settle.MaxWait before the caller concludes nothing more will load.
func (e *Extractor) waitForSettle(ctx context.Context, page types.Page) {
	s := e.config.Settle
	if s.MaxWait <= 0 {
		return
	}

	last, err := page.Height(ctx)
	if err != nil {
		return
	}

	deadline := time.NewTimer(s.MaxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	var changedAt time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-ticker.C:
			height, err := page.Height(ctx)
			if err != nil {
				return
			}
			if height != last {
				last = height
				changedAt = time.Now()
				continue
			}
			if !changedAt.IsZero() && time.Since(changedAt) >= s.StableFor {
				return
			}
		}
	}
}
