package posts

import (
	"net/url"
	"strings"
	"time"
)

// Sentinel is the replacement content written over redacted posts.
const Sentinel = "."

type Item struct {
	URL         string
	Timestamp   time.Time
	DisplayText string
}

type Status string

const (
	StatusEdited  Status = "edited"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type EditResult struct {
	Item   Item
	Status Status
	Reason error // set only when Status is StatusFailed
}

// Field is a single name/value pair of a submitted form.
type Field struct {
	Name  string
	Value string
}

type EditForm struct {
	Action       string
	Referer      string
	ContentField string
	Content      string
	Hidden       []Field
	Submit       *Field
}

// Payload keeps form fields in the order they were added.
type Payload []Field

func (p *Payload) Set(name, value string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Field{Name: name, Value: value})
}

func (p Payload) Get(name string) (string, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (p Payload) Encode() string {
	var sb strings.Builder
	for i, f := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	return sb.String()
}

// BuildPayload sets the content field to the sentinel and carries every
// hidden field and the submit control through unchanged.
func BuildPayload(form EditForm) Payload {
	payload := make(Payload, 0, len(form.Hidden)+2)
	payload.Set(form.ContentField, Sentinel)
	for _, hidden := range form.Hidden {
		if hidden.Name == "" || hidden.Name == form.ContentField {
			continue
		}
		payload.Set(hidden.Name, hidden.Value)
	}
	if form.Submit != nil && form.Submit.Name != "" {
		payload.Set(form.Submit.Name, form.Submit.Value)
	}
	return payload
}

// Cutoff returns the instant before which posts are considered old.
func Cutoff(now time.Time, years int) time.Time {
	return now.AddDate(-years, 0, 0)
}

func OldestTimestamp(items []Item) (time.Time, bool) {
	if len(items) == 0 {
		return time.Time{}, false
	}
	oldest := items[0].Timestamp
	for _, item := range items[1:] {
		if item.Timestamp.Before(oldest) {
			oldest = item.Timestamp
		}
	}
	return oldest, true
}
