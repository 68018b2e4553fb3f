package cfg

import "time"

type Cfg struct {
	// Credentials and threshold, prompted for when empty
	Username string
	Password string
	Years    int

	// Files
	SiteFile    string
	HistoryFile string

	// HTTP session
	UserAgent       string
	Timeout         int // seconds
	RequestInterval int // milliseconds

	// Pacing between steps, milliseconds
	ProbeDelay int
	PageDelay  int
	EditDelay  int
	SkipDelay  int

	ProbeRetries int
	ConfirmToken string
	DryRun       bool
	Debug        bool
	Version      string
}

func millis(ms int, fallback time.Duration) time.Duration {
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Cfg) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c *Cfg) GetRequestInterval() time.Duration {
	return millis(c.RequestInterval, 500*time.Millisecond)
}

func (c *Cfg) GetProbeDelay() time.Duration {
	return millis(c.ProbeDelay, time.Second)
}

func (c *Cfg) GetPageDelay() time.Duration {
	return millis(c.PageDelay, 2*time.Second)
}

func (c *Cfg) GetEditDelay() time.Duration {
	return millis(c.EditDelay, 3*time.Second)
}

func (c *Cfg) GetSkipDelay() time.Duration {
	return millis(c.SkipDelay, time.Second)
}
