package posts

import "context"

// ListingSource returns the items of one page of the user's post history.
// It returns ErrEndOfListing when the page lies past the last one.
type ListingSource interface {
	Listing(ctx context.Context, page int) ([]Item, error)
}

// EditSource exposes the detail and edit views of a single post.
type EditSource interface {
	EditLink(ctx context.Context, itemURL string) (string, error)
	EditForm(ctx context.Context, editURL string) (EditForm, error)
	Submit(ctx context.Context, form EditForm, payload Payload) error
}

// ProcessedSet is the durable record of posts already handled.
type ProcessedSet interface {
	Contains(url string) bool
	Add(url string) error
	Len() int
}

// Confirmer gates the first mutation of a run.
type Confirmer interface {
	Confirm(count int) (bool, error)
}
