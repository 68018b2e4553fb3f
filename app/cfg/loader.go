package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Credentials
	Username string `long:"username" short:"u" env:"FORUM_USERNAME" description:"Forum user name (prompted when empty)"`
	Password string `long:"password" env:"FORUM_PASSWORD" description:"Forum password (prompted when empty)"`
	Years    int    `long:"years" short:"y" env:"REDACT_YEARS" default:"0" description:"Redact posts older than this many years (prompted when 0)"`

	// Files
	SiteFile    string `long:"site-file" env:"SITE_FILE" description:"YAML site profile (built-in Mediavida profile when empty)"`
	HistoryFile string `long:"history-file" env:"HISTORY_FILE" default:"edited_posts.txt" description:"File recording already redacted posts"`

	// HTTP session
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36" description:"User agent string for HTTP requests"`
	Timeout         int    `long:"timeout" env:"HTTP_TIMEOUT" default:"30" description:"Per request timeout in seconds"`
	RequestInterval int    `long:"request-interval" env:"REQUEST_INTERVAL" default:"500" description:"Minimum milliseconds between two requests"`

	// Pacing
	ProbeDelay int `long:"probe-delay" env:"PROBE_DELAY" default:"1000" description:"Milliseconds to wait after each binary search probe"`
	PageDelay  int `long:"page-delay" env:"PAGE_DELAY" default:"2000" description:"Milliseconds to wait after each scanned page"`
	EditDelay  int `long:"edit-delay" env:"EDIT_DELAY" default:"3000" description:"Milliseconds to wait after each edited post"`
	SkipDelay  int `long:"skip-delay" env:"SKIP_DELAY" default:"1000" description:"Milliseconds to wait after each skipped post"`

	ProbeRetries int    `long:"probe-retries" env:"PROBE_RETRIES" default:"2" description:"Retries for a binary search probe that fails with a network error"`
	ConfirmToken string `long:"confirm-token" env:"CONFIRM_TOKEN" default:"si" description:"Answer required to start editing"`
	DryRun       bool   `long:"dry-run" description:"Locate and list old posts without editing them"`
	Debug        bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	ShowVersion  bool   `long:"version" description:"Print version and exit"`
}

// Load reads .env, environment variables and command-line flags. It returns
// nil, nil when help or the version was requested.
func Load(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.ShowVersion {
		fmt.Printf("post-redactor %s\n", GetVersion())
		return nil, nil
	}

	cfg := &Cfg{
		Username:        raw.Username,
		Password:        raw.Password,
		Years:           raw.Years,
		SiteFile:        raw.SiteFile,
		HistoryFile:     raw.HistoryFile,
		UserAgent:       raw.UserAgent,
		Timeout:         raw.Timeout,
		RequestInterval: raw.RequestInterval,
		ProbeDelay:      raw.ProbeDelay,
		PageDelay:       raw.PageDelay,
		EditDelay:       raw.EditDelay,
		SkipDelay:       raw.SkipDelay,
		ProbeRetries:    raw.ProbeRetries,
		ConfirmToken:    raw.ConfirmToken,
		DryRun:          raw.DryRun,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.Years < 0 {
		return fmt.Errorf("years must be positive, got %d", cfg.Years)
	}
	if cfg.ProbeRetries < 0 {
		return fmt.Errorf("probe-retries must not be negative, got %d", cfg.ProbeRetries)
	}
	if cfg.HistoryFile == "" {
		return fmt.Errorf("history-file must not be empty")
	}
	return nil
}
