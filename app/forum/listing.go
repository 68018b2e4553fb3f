package forum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/post-redactor/app/posts"
)

// TotalPages reads the pagination of the first page of the user's post
// history. It never fails: an unreadable first page counts as one page.
func (c *Client) TotalPages(ctx context.Context) int {
	firstPage := c.profile.PostsURL(c.username, 1)

	doc, err := c.Fetch(ctx, firstPage)
	if err != nil {
		slog.Warn("Could not determine total pages, assuming 1", "url", firstPage, "error", err)
		return 1
	}

	prefix := strings.ToLower(c.postsPrefix())
	total := 1
	doc.Find(c.profile.Selectors.PaginationLink).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, err := url.Parse(href)
		if err != nil {
			return
		}
		path := strings.TrimRight(link.Path, "/")
		if !strings.Contains(strings.ToLower(path), prefix) {
			return
		}
		n, err := strconv.Atoi(path[strings.LastIndex(path, "/")+1:])
		if err == nil && n > total {
			total = n
		}
	})

	slog.Info("Post history size", "pages", total)
	return total
}

// postsPrefix is the path of the user's listing up to the page number.
func (c *Client) postsPrefix() string {
	path, _, _ := strings.Cut(c.profile.PostsPath, "{page}")
	return strings.ReplaceAll(path, "{user}", url.PathEscape(c.username))
}

// Listing returns the posts on one page of the user's history.
func (c *Client) Listing(ctx context.Context, page int) ([]posts.Item, error) {
	pageURL := c.profile.PostsURL(c.username, page)
	sel := c.profile.Selectors

	doc, err := c.Fetch(ctx, pageURL)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return nil, fmt.Errorf("page %d: %w", page, posts.ErrEndOfListing)
	}
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	container := doc.Find(sel.RowsContainer).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("page %d: %q not found: %w", page, sel.RowsContainer, posts.ErrParse)
	}

	rows := container.Find(sel.Row)
	if rows.Length() == 0 {
		return nil, fmt.Errorf("page %d: %w", page, posts.ErrEndOfListing)
	}

	items := make([]posts.Item, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		item, ok := c.parseRow(row)
		if !ok {
			return
		}
		items = append(items, item)
	})

	return items, nil
}

func (c *Client) parseRow(row *goquery.Selection) (posts.Item, bool) {
	sel := c.profile.Selectors

	raw, ok := row.Find(sel.RowTimestamp).First().Attr(sel.TimestampAttr)
	if !ok {
		return posts.Item{}, false
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		slog.Debug("Skipping row with invalid timestamp", "value", raw)
		return posts.Item{}, false
	}

	link := row.Find(sel.RowLink).First()
	href, ok := link.Attr("href")
	if !ok {
		return posts.Item{}, false
	}
	itemURL, err := c.resolve(href)
	if err != nil {
		slog.Debug("Skipping row with invalid link", "href", href, "error", err)
		return posts.Item{}, false
	}

	return posts.Item{
		URL:         itemURL,
		Timestamp:   time.Unix(seconds, 0),
		DisplayText: strings.TrimSpace(link.Text()),
	}, true
}
