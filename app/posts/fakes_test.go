package posts

import (
	"context"
	"fmt"
	"time"
)

var baseTime = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type fakeListing struct {
	pages  map[int][]Item
	errs   map[int][]error // consumed one per call before pages is consulted
	probes []int
}

func (f *fakeListing) Listing(ctx context.Context, page int) ([]Item, error) {
	f.probes = append(f.probes, page)
	if queued := f.errs[page]; len(queued) > 0 {
		f.errs[page] = queued[1:]
		if queued[0] != nil {
			return nil, queued[0]
		}
	}
	items, ok := f.pages[page]
	if !ok {
		return nil, ErrEndOfListing
	}
	return items, nil
}

// monotoneListing builds pages of perPage items each, newest first, with one
// item per day going back from baseTime.
func monotoneListing(totalPages, perPage int) *fakeListing {
	pages := make(map[int][]Item, totalPages)
	n := 0
	for p := 1; p <= totalPages; p++ {
		for i := 0; i < perPage; i++ {
			pages[p] = append(pages[p], Item{
				URL:         fmt.Sprintf("https://forum.test/post/%d", n),
				Timestamp:   baseTime.AddDate(0, 0, -n),
				DisplayText: fmt.Sprintf("post %d", n),
			})
			n++
		}
	}
	return &fakeListing{pages: pages, errs: map[int][]error{}}
}

type fakeSet struct {
	urls   map[string]bool
	adds   int
	addErr error
}

func newFakeSet(urls ...string) *fakeSet {
	s := &fakeSet{urls: map[string]bool{}}
	for _, u := range urls {
		s.urls[u] = true
	}
	return s
}

func (s *fakeSet) Contains(url string) bool { return s.urls[url] }

func (s *fakeSet) Add(url string) error {
	s.adds++
	s.urls[url] = true
	return s.addErr
}

func (s *fakeSet) Len() int { return len(s.urls) }

type fakePost struct {
	content   string
	noEdit    bool
	noForm    bool
	submitErr error
}

type fakeEditSource struct {
	posts    map[string]*fakePost
	submits  []Payload
	requests int
}

func newFakeEditSource() *fakeEditSource {
	return &fakeEditSource{posts: map[string]*fakePost{}}
}

func (f *fakeEditSource) EditLink(ctx context.Context, itemURL string) (string, error) {
	f.requests++
	post, ok := f.posts[itemURL]
	if !ok {
		return "", fmt.Errorf("GET %s: %w", itemURL, ErrNetwork)
	}
	if post.noEdit {
		return "", ErrPermission
	}
	return itemURL + "/edit", nil
}

func (f *fakeEditSource) EditForm(ctx context.Context, editURL string) (EditForm, error) {
	f.requests++
	itemURL := editURL[:len(editURL)-len("/edit")]
	post := f.posts[itemURL]
	if post.noForm {
		return EditForm{}, ErrParse
	}
	return EditForm{
		Action:       itemURL + "/save",
		Referer:      editURL,
		ContentField: "cuerpo",
		Content:      post.content,
		Hidden:       []Field{{Name: "_token", Value: "csrf"}, {Name: "pid", Value: itemURL}},
		Submit:       &Field{Name: "Submit", Value: "Guardar"},
	}, nil
}

func (f *fakeEditSource) Submit(ctx context.Context, form EditForm, payload Payload) error {
	f.requests++
	f.submits = append(f.submits, payload)
	itemURL := form.Action[:len(form.Action)-len("/save")]
	post := f.posts[itemURL]
	if post.submitErr != nil {
		return post.submitErr
	}
	post.content, _ = payload.Get(form.ContentField)
	return nil
}

type fixedConfirmer struct {
	answer bool
	asked  int
}

func (c *fixedConfirmer) Confirm(count int) (bool, error) {
	c.asked++
	return c.answer, nil
}

// pauseRecorder stands in for Pause and keeps every requested wait.
type pauseRecorder struct {
	waits []time.Duration
}

func (r *pauseRecorder) pause(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}
