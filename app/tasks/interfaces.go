package tasks

import (
	"context"

	"github.com/lysyi3m/post-redactor/app/posts"
)

// Session is the authenticated forum connection a redaction run works
// through. forum.Client implements it.
type Session interface {
	posts.ListingSource
	posts.EditSource
	Login(ctx context.Context, username, password string) error
	TotalPages(ctx context.Context) int
}
