package forum

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/post-redactor/app/posts"
	"github.com/lysyi3m/post-redactor/app/site"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

type Options struct {
	UserAgent       string
	Timeout         time.Duration
	RequestInterval time.Duration // minimum gap between two requests
}

// Client is the authenticated session against the forum. It is not safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	profile    *site.Profile
	limiter    *rate.Limiter
	userAgent  string
	timeout    time.Duration
	username   string
}

type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s (%s)", e.Code, http.StatusText(e.Code), e.URL)
}

func (e *StatusError) Unwrap() error {
	return posts.ErrNetwork
}

func NewClient(profile *site.Profile, opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}

	return &Client{
		httpClient: &http.Client{Jar: jar},
		profile:    profile,
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
	}, nil
}

func (c *Client) Profile() *site.Profile {
	return c.profile
}

// Fetch GETs url and parses the response as HTML.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	doc, _, err := c.do(ctx, http.MethodGet, url, nil, "")
	return doc, err
}

// Post submits a form-encoded body and parses the response as HTML.
func (c *Client) Post(ctx context.Context, url string, body string, referer string) (*goquery.Document, error) {
	doc, _, err := c.do(ctx, http.MethodPost, url, strings.NewReader(body), referer)
	return doc, err
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, referer string) (*goquery.Document, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s %s: %w", posts.ErrNetwork, method, url, err)
	}
	defer resp.Body.Close()

	slog.Debug("Request completed", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{URL: url, Code: resp.StatusCode}
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode response body: %w", posts.ErrNetwork, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read response body: %w", posts.ErrNetwork, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to parse HTML: %w", posts.ErrParse, err)
	}

	return doc, string(data), nil
}

// resolve turns an href found on a page into an absolute URL.
func (c *Client) resolve(href string) (string, error) {
	base, err := url.Parse(c.profile.BaseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: invalid link %q: %w", posts.ErrParse, href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
