package posts

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Scanner collects the unprocessed old posts from the boundary page onwards.
type Scanner struct {
	source    ListingSource
	pageDelay time.Duration
	pause     func(ctx context.Context, d time.Duration) error
	visited   int
}

func NewScanner(source ListingSource, pageDelay time.Duration) *Scanner {
	return &Scanner{
		source:    source,
		pageDelay: pageDelay,
		pause:     Pause,
	}
}

// Run sweeps startPage..totalPages and returns the collected items in
// encounter order. Rows are filtered one by one: a boundary page mixes
// newer and older posts.
func (s *Scanner) Run(ctx context.Context, startPage, totalPages int, cutoff time.Time, processed ProcessedSet) ([]Item, error) {
	var queue []Item
	alreadyProcessed := 0
	s.visited = 0

	for page := startPage; page <= totalPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := s.source.Listing(ctx, page)
		if errors.Is(err, ErrEndOfListing) {
			slog.Info("Reached end of listing", "page", page)
			break
		}
		s.visited++
		if err != nil {
			slog.Error("Failed to scan page", "page", page, "error", err)
			if err := s.pause(ctx, s.pageDelay); err != nil {
				return nil, err
			}
			continue
		}

		for _, item := range items {
			if !item.Timestamp.Before(cutoff) {
				continue
			}
			if processed.Contains(item.URL) {
				slog.Debug("Skipping already processed post", "url", item.URL, "title", item.DisplayText)
				alreadyProcessed++
				continue
			}
			queue = append(queue, item)
			slog.Info("Queued post",
				"date", item.Timestamp.Format("2006-01-02"),
				"title", item.DisplayText,
				"url", item.URL)
		}

		if err := s.pause(ctx, s.pageDelay); err != nil {
			return nil, err
		}
	}

	slog.Info("Scan completed",
		"pages", s.visited,
		"queued", len(queue),
		"already_processed", alreadyProcessed)

	return queue, nil
}

// Visited returns the number of pages the last Run read before it stopped.
func (s *Scanner) Visited() int {
	return s.visited
}
