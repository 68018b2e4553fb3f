package posts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestLocator_FindsMinimalQualifyingPage(t *testing.T) {
	const perPage = 5
	for totalPages := 1; totalPages <= 17; totalPages++ {
		for boundary := 1; boundary <= totalPages+1; boundary++ {
			t.Run(fmt.Sprintf("pages=%d/boundary=%d", totalPages, boundary), func(t *testing.T) {
				listing := monotoneListing(totalPages, perPage)
				// Oldest item on page p is index p*perPage-1; pick a cutoff so
				// that page `boundary` is the first one reaching it.
				cutoff := baseTime.AddDate(0, 0, -(boundary*perPage - 1))

				page, found, err := NewLocator(listing, 0, 0).Run(context.Background(), totalPages, cutoff)
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}

				if boundary > totalPages {
					if found {
						t.Errorf("Expected not found, got page %d", page)
					}
					return
				}
				if !found || page != boundary {
					t.Errorf("Expected page %d, got %d (found=%v)", boundary, page, found)
				}

				limit := int(math.Ceil(math.Log2(float64(totalPages)))) + 1
				if len(listing.probes) > limit {
					t.Errorf("Expected at most %d probes, got %d: %v", limit, len(listing.probes), listing.probes)
				}
			})
		}
	}
}

func TestLocator_SinglePageSingleProbe(t *testing.T) {
	listing := monotoneListing(1, 3)

	page, found, err := NewLocator(listing, 0, 2).Run(context.Background(), 1, baseTime)
	if err != nil {
		t.Fatal(err)
	}
	if !found || page != 1 {
		t.Errorf("Expected page 1, got %d (found=%v)", page, found)
	}
	if len(listing.probes) != 1 {
		t.Errorf("Expected exactly 1 probe, got %d", len(listing.probes))
	}
}

func TestLocator_FivePagesBoundaryAtThree(t *testing.T) {
	listing := &fakeListing{pages: map[int][]Item{}, errs: map[int][]error{}}
	cutoff := baseTime.AddDate(-2, 0, 0)
	newer := cutoff.AddDate(0, 1, 0)
	older := cutoff.AddDate(0, -1, 0)
	for p := 1; p <= 5; p++ {
		ts := newer
		if p >= 3 {
			ts = older.AddDate(0, -p, 0)
		}
		listing.pages[p] = []Item{{URL: fmt.Sprintf("u%d", p), Timestamp: ts}}
	}

	page, found, err := NewLocator(listing, 0, 0).Run(context.Background(), 5, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if !found || page != 3 {
		t.Fatalf("Expected page 3, got %d (found=%v)", page, found)
	}
	if len(listing.probes) > 4 {
		t.Errorf("Expected at most 4 probes, got %v", listing.probes)
	}
	if listing.probes[0] != 3 {
		t.Errorf("Expected first probe at page 3, got %d", listing.probes[0])
	}
}

func TestLocator_NoOldPosts(t *testing.T) {
	listing := monotoneListing(4, 2)
	cutoff := baseTime.AddDate(-10, 0, 0)

	_, found, err := NewLocator(listing, 0, 0).Run(context.Background(), 4, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Expected no qualifying page")
	}
}

func TestLocator_ZeroPages(t *testing.T) {
	listing := monotoneListing(1, 1)

	_, found, err := NewLocator(listing, 0, 0).Run(context.Background(), 0, baseTime)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Expected not found for zero pages")
	}
	if len(listing.probes) != 0 {
		t.Errorf("Expected no probes, got %v", listing.probes)
	}
}

func TestLocator_RetriesTransientNetworkError(t *testing.T) {
	listing := monotoneListing(5, 1)
	// Page 3 is the first probe and the true boundary.
	listing.errs[3] = []error{fmt.Errorf("GET page 3: %w", ErrNetwork)}
	cutoff := baseTime.AddDate(0, 0, -2)

	page, found, err := NewLocator(listing, 0, 1).Run(context.Background(), 5, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if !found || page != 3 {
		t.Errorf("Expected page 3 after retry, got %d (found=%v)", page, found)
	}
}

func TestLocator_FailedProbeBiasesLater(t *testing.T) {
	listing := monotoneListing(5, 1)
	netErr := fmt.Errorf("GET: %w", ErrNetwork)
	listing.errs[3] = []error{netErr, netErr, netErr}
	cutoff := baseTime.AddDate(0, 0, -2)

	page, found, err := NewLocator(listing, 0, 0).Run(context.Background(), 5, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	// Page 3 looks too new, the search narrows to 1..2 which hold only newer posts.
	if found {
		t.Errorf("Expected the failed boundary probe to hide the boundary, got page %d", page)
	}
}

func TestLocator_ParseErrorNotRetried(t *testing.T) {
	listing := monotoneListing(1, 1)
	listing.errs[1] = []error{ErrParse}

	_, found, err := NewLocator(listing, 0, 3).Run(context.Background(), 1, baseTime)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Expected a page that failed to parse to be treated as too new")
	}
	if len(listing.probes) != 1 {
		t.Errorf("Expected parse error not to be retried, got %d calls", len(listing.probes))
	}
}

func TestLocator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewLocator(monotoneListing(3, 1), time.Second, 0).Run(ctx, 3, baseTime)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLocator_WaitsAfterEveryProbe(t *testing.T) {
	listing := monotoneListing(8, 1)
	recorder := &pauseRecorder{}

	locator := NewLocator(listing, 25*time.Millisecond, 0)
	locator.pause = recorder.pause

	if _, _, err := locator.Run(context.Background(), 8, baseTime.AddDate(0, 0, -5)); err != nil {
		t.Fatal(err)
	}

	if len(recorder.waits) != len(listing.probes) {
		t.Fatalf("Expected one wait per probe (%d), got %v", len(listing.probes), recorder.waits)
	}
	for i, wait := range recorder.waits {
		if wait != 25*time.Millisecond {
			t.Errorf("Wait %d: expected 25ms, got %v", i, wait)
		}
	}
}

func TestLocator_ProbeDelayElapses(t *testing.T) {
	listing := monotoneListing(4, 1)

	start := time.Now()
	if _, _, err := NewLocator(listing, 20*time.Millisecond, 0).Run(context.Background(), 4, baseTime); err != nil {
		t.Fatal(err)
	}

	if minimum := time.Duration(len(listing.probes)) * 20 * time.Millisecond; time.Since(start) < minimum {
		t.Errorf("Expected at least %v for %d probes, got %v", minimum, len(listing.probes), time.Since(start))
	}
}
