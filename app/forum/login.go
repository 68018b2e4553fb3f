package forum

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lysyi3m/post-redactor/app/posts"
)

// Login authenticates the session. Any failure wraps posts.ErrAuth.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginURL := c.profile.LoginURL()
	slog.Info("Logging in", "url", loginURL, "user", username)

	doc, err := c.Fetch(ctx, loginURL)
	if err != nil {
		return fmt.Errorf("%w: failed to load login page: %w", posts.ErrAuth, err)
	}

	tokenInput := doc.Find(c.profile.Selectors.CSRFToken).First()
	token, ok := tokenInput.Attr("value")
	if !ok {
		return fmt.Errorf("%w: security token not found on login page", posts.ErrAuth)
	}
	tokenName, ok := tokenInput.Attr("name")
	if !ok || tokenName == "" {
		tokenName = "_token"
	}
	slog.Debug("Security token found", "field", tokenName)

	payload := posts.Payload{
		{Name: "name", Value: username},
		{Name: "password", Value: password},
		{Name: "cookie", Value: "1"},
		{Name: tokenName, Value: token},
		{Name: "return", Value: ""},
	}

	_, body, err := c.do(ctx, http.MethodPost, loginURL, strings.NewReader(payload.Encode()), loginURL)
	if err != nil {
		return fmt.Errorf("%w: %w", posts.ErrAuth, err)
	}

	if !strings.Contains(strings.ToLower(body), strings.ToLower(c.profile.LoggedInMarker)) {
		return fmt.Errorf("%w: check username and password", posts.ErrAuth)
	}

	c.username = username
	slog.Info("Logged in successfully", "user", username)
	return nil
}
