package forum

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/post-redactor/app/posts"
)

// EditLink opens the post and returns the absolute URL of its edit view.
func (c *Client) EditLink(ctx context.Context, itemURL string) (string, error) {
	doc, err := c.Fetch(ctx, itemURL)
	if err != nil {
		return "", err
	}

	href, ok := doc.Find(c.profile.Selectors.EditLink).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", fmt.Errorf("%s: %w", itemURL, posts.ErrPermission)
	}

	return c.resolve(href)
}

// EditForm opens the edit view and extracts the submission form.
func (c *Client) EditForm(ctx context.Context, editURL string) (posts.EditForm, error) {
	sel := c.profile.Selectors

	doc, err := c.Fetch(ctx, editURL)
	if err != nil {
		return posts.EditForm{}, err
	}

	form := doc.Find(sel.EditForm).First()
	if form.Length() == 0 {
		return posts.EditForm{}, fmt.Errorf("%s: edit form %q not found: %w", editURL, sel.EditForm, posts.ErrParse)
	}

	content := form.Find(sel.ContentField).First()
	if content.Length() == 0 {
		return posts.EditForm{}, fmt.Errorf("%s: content field %q not found: %w", editURL, sel.ContentField, posts.ErrParse)
	}

	contentName := attrOr(content, "name", attrOr(content, "id", ""))
	if contentName == "" {
		return posts.EditForm{}, fmt.Errorf("%s: content field has no name: %w", editURL, posts.ErrParse)
	}

	action := editURL
	if href := strings.TrimSpace(attrOr(form, "action", "")); href != "" {
		action, err = c.resolve(href)
		if err != nil {
			return posts.EditForm{}, err
		}
	}

	result := posts.EditForm{
		Action:       action,
		Referer:      editURL,
		ContentField: contentName,
		Content:      content.Text(),
	}

	form.Find(sel.HiddenInputs).Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		result.Hidden = append(result.Hidden, posts.Field{Name: name, Value: attrOr(input, "value", "")})
	})

	submit := form.Find(sel.SubmitButton).First()
	if name, ok := submit.Attr("name"); ok && name != "" {
		result.Submit = &posts.Field{Name: name, Value: attrOr(submit, "value", "")}
	}

	return result, nil
}

// Submit posts the payload to the form action.
func (c *Client) Submit(ctx context.Context, form posts.EditForm, payload posts.Payload) error {
	_, err := c.Post(ctx, form.Action, payload.Encode(), form.Referer)
	return err
}

func attrOr(s *goquery.Selection, name, fallback string) string {
	if value, ok := s.Attr(name); ok {
		return value
	}
	return fallback
}
