package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/post-redactor/app/posts"
)

type Settings struct {
	Username     string
	Password     string
	Years        int
	DryRun       bool
	ProbeDelay   time.Duration
	PageDelay    time.Duration
	EditDelay    time.Duration
	SkipDelay    time.Duration
	ProbeRetries int
}

type Summary struct {
	Cutoff       time.Time
	TotalPages   int
	StartPage    int // zero when no page holds old posts
	PagesScanned int
	Queue        []posts.Item
	Results      []posts.EditResult
	Edited       int
	Skipped      int
	Failed       int
	Duration     time.Duration
}

type RedactTask struct {
	Task
	session   Session
	processed posts.ProcessedSet
	confirmer posts.Confirmer
	settings  Settings
	now       func() time.Time
}

func NewRedactTask(session Session, processed posts.ProcessedSet, confirmer posts.Confirmer, settings Settings) *RedactTask {
	taskType := TaskTypeRedact
	if settings.DryRun {
		taskType = TaskTypeDryRun
	}

	return &RedactTask{
		Task:      NewTask(taskType, settings.Username),
		session:   session,
		processed: processed,
		confirmer: confirmer,
		settings:  settings,
		now:       time.Now,
	}
}

// Execute logs in, finds the first page holding posts older than the cutoff,
// collects every unprocessed old post from there on and redacts them. A
// declined confirmation returns posts.ErrAborted.
func (t *RedactTask) Execute(ctx context.Context) (summary Summary, err error) {
	t.Start()

	summary.Cutoff = posts.Cutoff(t.now(), t.settings.Years)
	defer func() { summary.Duration = t.GetDuration() }()

	if err = t.session.Login(ctx, t.Username, t.settings.Password); err != nil {
		return summary, err
	}
	slog.Info("Logged in", "user", t.Username, "task", t.GetID(), "type", t.GetType())

	slog.Info("Processed posts loaded", "count", t.processed.Len())

	summary.TotalPages = t.session.TotalPages(ctx)
	slog.Info("Searching for old posts", "pages", summary.TotalPages, "cutoff", summary.Cutoff.Format(time.DateOnly))

	locator := posts.NewLocator(t.session, t.settings.ProbeDelay, t.settings.ProbeRetries)
	startPage, found, err := locator.Run(ctx, summary.TotalPages, summary.Cutoff)
	if err != nil {
		return summary, fmt.Errorf("failed to locate old posts: %w", err)
	}
	if !found {
		slog.Info("No posts match the cutoff", "cutoff", summary.Cutoff.Format(time.DateOnly))
		return summary, nil
	}
	summary.StartPage = startPage
	slog.Info("Old posts start", "page", startPage)

	scanner := posts.NewScanner(t.session, t.settings.PageDelay)
	summary.Queue, err = scanner.Run(ctx, startPage, summary.TotalPages, summary.Cutoff, t.processed)
	summary.PagesScanned = scanner.Visited()
	if err != nil {
		return summary, fmt.Errorf("failed to collect old posts: %w", err)
	}
	if len(summary.Queue) == 0 {
		slog.Info("No unprocessed old posts left")
		return summary, nil
	}
	slog.Info("Old posts collected", "count", len(summary.Queue))

	if t.settings.DryRun {
		for _, item := range summary.Queue {
			slog.Info("Would redact post", "url", item.URL, "date", item.Timestamp.Format(time.DateOnly), "title", item.DisplayText)
		}
		return summary, nil
	}

	editor := posts.NewEditor(t.session, t.processed, t.confirmer, posts.EditorDelays{
		AfterEdit: t.settings.EditDelay,
		AfterSkip: t.settings.SkipDelay,
	})
	summary.Results, err = editor.Run(ctx, summary.Queue)

	tally := posts.Count(summary.Results)
	summary.Edited, summary.Skipped, summary.Failed = tally.Edited, tally.Skipped, tally.Failed

	for _, result := range summary.Results {
		if posts.IsPermissionFailure(result) {
			slog.Warn("Post can no longer be edited", "url", result.Item.URL)
		}
	}

	if err != nil {
		return summary, err
	}

	slog.Info("Redaction finished",
		"edited", summary.Edited,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", t.GetDuration().Round(time.Millisecond))

	return summary, nil
}
