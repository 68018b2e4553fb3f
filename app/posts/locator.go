package posts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Locator finds the first page of a reverse-chronological listing that
// holds posts at or before the cutoff.
type Locator struct {
	source     ListingSource
	probeDelay time.Duration
	retries    int
	pause      func(ctx context.Context, d time.Duration) error
}

func NewLocator(source ListingSource, probeDelay time.Duration, retries int) *Locator {
	if retries < 0 {
		retries = 0
	}
	return &Locator{
		source:     source,
		probeDelay: probeDelay,
		retries:    retries,
		pause:      Pause,
	}
}

// Run binary searches pages 1..totalPages. A probe that yields no items is
// treated as too new, so a page lost to errors can only move the result later.
func (l *Locator) Run(ctx context.Context, totalPages int, cutoff time.Time) (int, bool, error) {
	low, high := 1, totalPages
	startPage := 0

	for low <= high {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}

		mid := low + (high-low)/2
		slog.Info("Probing page", "page", mid, "low", low, "high", high)

		oldest, ok := l.oldestOnPage(ctx, mid)

		if err := l.pause(ctx, l.probeDelay); err != nil {
			return 0, false, err
		}

		switch {
		case !ok:
			high = mid - 1
		case oldest.After(cutoff):
			slog.Debug("Page too recent, searching later pages", "page", mid, "oldest", oldest)
			low = mid + 1
		default:
			slog.Debug("Page holds old posts, searching earlier pages", "page", mid, "oldest", oldest)
			startPage = mid
			high = mid - 1
		}
	}

	if startPage == 0 {
		slog.Info("No page holds posts older than cutoff", "cutoff", cutoff, "total_pages", totalPages)
		return 0, false, nil
	}

	slog.Info("Boundary page located", "page", startPage, "total_pages", totalPages)
	return startPage, true, nil
}

func (l *Locator) oldestOnPage(ctx context.Context, page int) (time.Time, bool) {
	items, err := l.probe(ctx, page)
	if err != nil {
		if errors.Is(err, ErrEndOfListing) {
			slog.Debug("Probe past end of listing", "page", page)
		} else if ctx.Err() == nil {
			slog.Warn("Probe failed, treating page as too recent", "page", page, "error", err)
		}
		return time.Time{}, false
	}

	oldest, ok := OldestTimestamp(items)
	if !ok {
		slog.Warn("Probe returned no timestamps, treating page as too recent", "page", page)
	}
	return oldest, ok
}

func (l *Locator) probe(ctx context.Context, page int) ([]Item, error) {
	var items []Item

	operation := func() error {
		var err error
		items, err = l.source.Listing(ctx, page)
		if err != nil && !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.probeDelay), uint64(l.retries)), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		slog.Warn("Retrying probe", "page", page, "wait", wait, "error", err)
	})
	return items, err
}
