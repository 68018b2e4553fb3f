package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lysyi3m/post-redactor/app/cfg"
	"github.com/lysyi3m/post-redactor/app/forum"
	"github.com/lysyi3m/post-redactor/app/history"
	"github.com/lysyi3m/post-redactor/app/posts"
	"github.com/lysyi3m/post-redactor/app/prompt"
	"github.com/lysyi3m/post-redactor/app/site"
	"github.com/lysyi3m/post-redactor/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if appCfg == nil {
		return 0
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting post redactor", "version", appCfg.Version, "dry_run", appCfg.DryRun)

	profile, err := site.Load(appCfg.SiteFile)
	if err != nil {
		slog.Error("Failed to load site profile", "path", appCfg.SiteFile, "error", err)
		return 1
	}

	answers := &prompt.Answers{
		Username: appCfg.Username,
		Password: appCfg.Password,
		Years:    appCfg.Years,
	}
	if err := prompt.NewPrompter().Complete(answers); err != nil {
		if errors.Is(err, posts.ErrAborted) {
			slog.Info("Cancelled")
			return 0
		}
		slog.Error("Failed to read credentials", "error", err)
		return 1
	}

	client, err := forum.NewClient(profile, forum.Options{
		UserAgent:       appCfg.UserAgent,
		Timeout:         appCfg.GetTimeout(),
		RequestInterval: appCfg.GetRequestInterval(),
	})
	if err != nil {
		slog.Error("Failed to create forum client", "error", err)
		return 1
	}

	slog.Info("Forum session ready", "site", client.Profile().BaseURL, "request_interval", appCfg.GetRequestInterval())

	store := history.OpenFileStore(appCfg.HistoryFile)
	confirmer := posts.NewLineConfirmer(os.Stdin, os.Stdout, appCfg.ConfirmToken)

	task := tasks.NewRedactTask(client, store, confirmer, tasks.Settings{
		Username:     answers.Username,
		Password:     answers.Password,
		Years:        answers.Years,
		DryRun:       appCfg.DryRun,
		ProbeDelay:   appCfg.GetProbeDelay(),
		PageDelay:    appCfg.GetPageDelay(),
		EditDelay:    appCfg.GetEditDelay(),
		SkipDelay:    appCfg.GetSkipDelay(),
		ProbeRetries: appCfg.ProbeRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := task.Execute(ctx)
	if store.LoadFailed() {
		slog.Warn("Processed posts log could not be read, earlier runs were not taken into account", "path", store.Path())
	}
	if store.Degraded() {
		slog.Warn("Processed posts were not saved, the next run may revisit them", "path", store.Path())
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, posts.ErrAborted):
		slog.Info("Nothing was edited")
		return 0
	case errors.Is(err, posts.ErrAuth):
		slog.Error("Login failed", "user", answers.Username, "error", err)
		return 1
	case errors.Is(err, context.Canceled):
		slog.Warn("Interrupted",
			"edited", summary.Edited,
			"skipped", summary.Skipped,
			"failed", summary.Failed)
		return 0
	default:
		slog.Error("Redaction failed", "error", err)
		return 0
	}
}
