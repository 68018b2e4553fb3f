package site

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mediavida.yml
var defaultProfile []byte

// Default returns the built-in Mediavida profile.
func Default() *Profile {
	profile, err := parse(defaultProfile, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded site profile is invalid: %v", err))
	}
	return profile
}

// Load reads a profile from path. Keys missing from the file keep their
// built-in values. An empty path yields the built-in profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	profile, err := parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("invalid site profile %s: %w", path, err)
	}

	slog.Debug("Site profile loaded", "path", path, "base_url", profile.BaseURL)
	return profile, nil
}

func parse(data []byte, base *Profile) (*Profile, error) {
	profile := &Profile{}
	if base != nil {
		*profile = *base
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	profile.BaseURL = strings.TrimRight(profile.BaseURL, "/")

	if err := validate(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func validate(p *Profile) error {
	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", p.BaseURL)
	}

	if !strings.Contains(p.PostsPath, "{user}") || !strings.Contains(p.PostsPath, "{page}") {
		return fmt.Errorf("posts_path must contain {user} and {page}, got %q", p.PostsPath)
	}

	if p.LoginPath == "" {
		return fmt.Errorf("login_path is required")
	}

	required := map[string]string{
		"csrf_token":      p.Selectors.CSRFToken,
		"pagination_link": p.Selectors.PaginationLink,
		"rows_container":  p.Selectors.RowsContainer,
		"row":             p.Selectors.Row,
		"row_timestamp":   p.Selectors.RowTimestamp,
		"timestamp_attr":  p.Selectors.TimestampAttr,
		"row_link":        p.Selectors.RowLink,
		"edit_link":       p.Selectors.EditLink,
		"edit_form":       p.Selectors.EditForm,
		"content_field":   p.Selectors.ContentField,
		"hidden_inputs":   p.Selectors.HiddenInputs,
		"submit_button":   p.Selectors.SubmitButton,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("selector %s is required", name)
		}
	}

	return nil
}

func (p *Profile) LoginURL() string {
	return p.BaseURL + p.LoginPath
}

func (p *Profile) PostsURL(user string, page int) string {
	r := strings.NewReplacer(
		"{user}", url.PathEscape(user),
		"{page}", strconv.Itoa(page),
	)
	return p.BaseURL + r.Replace(p.PostsPath)
}

// WithBaseURL returns a copy of the profile pointing at another host.
func (p *Profile) WithBaseURL(baseURL string) *Profile {
	clone := *p
	clone.BaseURL = strings.TrimRight(baseURL, "/")
	return &clone
}
