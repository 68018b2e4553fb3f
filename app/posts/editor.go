package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type EditorDelays struct {
	AfterEdit time.Duration
	AfterSkip time.Duration
}

// Editor overwrites the content of queued posts with the sentinel, one post
// at a time.
type Editor struct {
	source    EditSource
	processed ProcessedSet
	confirmer Confirmer
	delays    EditorDelays
	pause     func(ctx context.Context, d time.Duration) error
}

func NewEditor(source EditSource, processed ProcessedSet, confirmer Confirmer, delays EditorDelays) *Editor {
	return &Editor{
		source:    source,
		processed: processed,
		confirmer: confirmer,
		delays:    delays,
		pause:     Pause,
	}
}

// Run asks for confirmation once and then edits every item in order. A failed
// item is reported in its result and never stops the queue.
func (e *Editor) Run(ctx context.Context, items []Item) ([]EditResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	confirmed, err := e.confirmer.Confirm(len(items))
	if err != nil {
		return nil, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return nil, ErrAborted
	}

	results := make([]EditResult, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		slog.Info("Editing post", "position", i+1, "total", len(items), "url", item.URL)

		result := e.editItem(ctx, item)
		results = append(results, result)

		var delay time.Duration
		switch result.Status {
		case StatusEdited:
			slog.Info("Post edited", "url", item.URL)
			e.record(item)
			delay = e.delays.AfterEdit
		case StatusSkipped:
			slog.Info("Post already redacted, skipping", "url", item.URL)
			e.record(item)
			delay = e.delays.AfterSkip
		default:
			slog.Error("Failed to edit post", "url", item.URL, "error", result.Reason)
		}

		if delay <= 0 || i == len(items)-1 {
			continue
		}
		if err := e.pause(ctx, delay); err != nil {
			return results, err
		}
	}

	return results, nil
}

func (e *Editor) editItem(ctx context.Context, item Item) EditResult {
	editURL, err := e.source.EditLink(ctx, item.URL)
	if err != nil {
		return failed(item, fmt.Errorf("failed to locate edit link: %w", err))
	}

	form, err := e.source.EditForm(ctx, editURL)
	if err != nil {
		return failed(item, fmt.Errorf("failed to load edit form: %w", err))
	}

	if strings.TrimSpace(form.Content) == Sentinel {
		return EditResult{Item: item, Status: StatusSkipped}
	}

	if err := e.source.Submit(ctx, form, BuildPayload(form)); err != nil {
		return failed(item, fmt.Errorf("failed to submit edit: %w", err))
	}

	return EditResult{Item: item, Status: StatusEdited}
}

func (e *Editor) record(item Item) {
	if err := e.processed.Add(item.URL); err != nil {
		slog.Warn("Failed to record processed post", "url", item.URL, "error", err)
	}
}

func failed(item Item, reason error) EditResult {
	return EditResult{Item: item, Status: StatusFailed, Reason: reason}
}

type Tally struct {
	Edited  int
	Skipped int
	Failed  int
}

func Count(results []EditResult) Tally {
	var tally Tally
	for _, result := range results {
		switch result.Status {
		case StatusEdited:
			tally.Edited++
		case StatusSkipped:
			tally.Skipped++
		case StatusFailed:
			tally.Failed++
		}
	}
	return tally
}

// IsPermissionFailure reports whether a failed result was caused by a
// missing edit link.
func IsPermissionFailure(result EditResult) bool {
	return result.Status == StatusFailed && errors.Is(result.Reason, ErrPermission)
}
