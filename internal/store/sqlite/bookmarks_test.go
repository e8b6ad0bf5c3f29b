package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

func TestCreateAndGetBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	b := &domain.Bookmark{
		UserID:      alice.ID,
		URL:         "https://example.com/article",
		Title:       "An Article",
		Description: "Worth reading",
		Tags:        "golang reading",
		Visibility:  domain.VisibilityPublic,
	}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetBookmark(ctx, b.ID, 0)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.URL != b.URL {
		t.Errorf("URL: got %q, want %q", got.URL, b.URL)
	}
	if got.Title != b.Title {
		t.Errorf("Title: got %q, want %q", got.Title, b.Title)
	}
	if got.Username != "alice" {
		t.Errorf("Username: got %q, want %q", got.Username, "alice")
	}
	if got.Tags != "golang reading" {
		t.Errorf("Tags: got %q, want %q", got.Tags, "golang reading")
	}
	if got.Visibility != domain.VisibilityPublic {
		t.Errorf("Visibility: got %q, want %q", got.Visibility, domain.VisibilityPublic)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestCreateBookmark_InvalidVisibilityDowngrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	b := &domain.Bookmark{
		UserID:     alice.ID,
		URL:        "https://example.com",
		Title:      "Home",
		Visibility: domain.Visibility("friends-only"),
	}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	got, err := s.GetBookmark(ctx, b.ID, 0)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.Visibility != domain.VisibilityPublic {
		t.Errorf("unknown visibility should store as public, got %q", got.Visibility)
	}
}

func TestCreateBookmark_DuplicateURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")
	bob := insertTestUser(t, s, "bob")

	first := &domain.Bookmark{
		UserID: alice.ID,
		URL:    "https://example.com/dup",
		Title:  "First",
	}
	if err := s.CreateBookmark(ctx, first); err != nil {
		t.Fatalf("CreateBookmark first: %v", err)
	}

	// Same owner, same URL conflicts.
	dup := &domain.Bookmark{
		UserID: alice.ID,
		URL:    "https://example.com/dup",
		Title:  "Again",
	}
	err := s.CreateBookmark(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// A different owner may bookmark the same URL.
	other := &domain.Bookmark{
		UserID: bob.ID,
		URL:    "https://example.com/dup",
		Title:  "Bob's copy",
	}
	if err := s.CreateBookmark(ctx, other); err != nil {
		t.Fatalf("CreateBookmark other owner: %v", err)
	}
}

func TestUpdateBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	b := &domain.Bookmark{
		UserID:     alice.ID,
		URL:        "https://example.com/old",
		Title:      "Old",
		Tags:       "old stale",
		Visibility: domain.VisibilityPublic,
	}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}
	created := b.UpdatedAt

	b.URL = "https://example.com/new"
	b.Title = "New"
	b.Tags = "fresh"
	b.Visibility = domain.VisibilityPrivate
	if err := s.UpdateBookmark(ctx, b); err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}

	got, err := s.GetBookmark(ctx, b.ID, 0)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.URL != "https://example.com/new" {
		t.Errorf("URL: got %q", got.URL)
	}
	if got.Title != "New" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Visibility != domain.VisibilityPrivate {
		t.Errorf("Visibility: got %q", got.Visibility)
	}
	if got.UpdatedAt.Before(created) {
		t.Errorf("UpdatedAt should advance: %v -> %v", created, got.UpdatedAt)
	}
}

func TestUpdateBookmark_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "alice")

	b := &domain.Bookmark{ID: 9999, UserID: 1, URL: "https://nope.example.com", Title: "Nope"}
	err := s.UpdateBookmark(ctx, b)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	b := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com/gone", Title: "Gone"}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	if err := s.DeleteBookmark(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}

	_, err := s.GetBookmark(ctx, b.ID, 0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteBookmark(ctx, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetBookmark_OwnerScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")
	bob := insertTestUser(t, s, "bob")

	b := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com/mine", Title: "Mine"}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	if _, err := s.GetBookmark(ctx, b.ID, alice.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := s.GetBookmark(ctx, b.ID, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner scope, got %v", err)
	}
}

func TestListBookmarks_Visibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")
	bob := insertTestUser(t, s, "bob")

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	mk := func(owner int64, url string, vis domain.Visibility, offset time.Duration) {
		t.Helper()
		b := &domain.Bookmark{
			UserID:     owner,
			URL:        url,
			Title:      url,
			Visibility: vis,
			CreatedAt:  base.Add(offset),
		}
		if err := s.CreateBookmark(ctx, b); err != nil {
			t.Fatalf("CreateBookmark %s: %v", url, err)
		}
	}

	mk(alice.ID, "https://a.example.com/pub", domain.VisibilityPublic, 0)
	mk(alice.ID, "https://a.example.com/auth", domain.VisibilityAuthenticated, time.Second)
	mk(alice.ID, "https://a.example.com/priv", domain.VisibilityPrivate, 2*time.Second)
	mk(bob.ID, "https://b.example.com/pub", domain.VisibilityPublic, 3*time.Second)

	urls := func(bs []*domain.Bookmark) map[string]bool {
		m := make(map[string]bool)
		for _, b := range bs {
			m[b.URL] = true
		}
		return m
	}

	// Anonymous feed: public only.
	anon, err := s.ListBookmarks(ctx, store.ForAnonymous(), "")
	if err != nil {
		t.Fatalf("ListBookmarks anonymous: %v", err)
	}
	if len(anon) != 2 {
		t.Errorf("anonymous: got %d bookmarks, want 2", len(anon))
	}
	if urls(anon)["https://a.example.com/auth"] {
		t.Error("anonymous feed must not include authenticated-only bookmarks")
	}

	// Authenticated feed: public and authenticated, never private.
	authed, err := s.ListBookmarks(ctx, store.ForAuthenticated(), "")
	if err != nil {
		t.Fatalf("ListBookmarks authenticated: %v", err)
	}
	if len(authed) != 3 {
		t.Errorf("authenticated: got %d bookmarks, want 3", len(authed))
	}
	if urls(authed)["https://a.example.com/priv"] {
		t.Error("authenticated feed must not include private bookmarks")
	}

	// Owner view: everything the owner has.
	own, err := s.ListBookmarks(ctx, store.ForOwner(alice.ID), "")
	if err != nil {
		t.Fatalf("ListBookmarks owner: %v", err)
	}
	if len(own) != 3 {
		t.Errorf("owner: got %d bookmarks, want 3", len(own))
	}

	// Alice's profile seen by anonymous: her public only.
	prof, err := s.ListBookmarks(ctx, store.ForProfile(alice.ID, 0), "")
	if err != nil {
		t.Fatalf("ListBookmarks profile anon: %v", err)
	}
	if len(prof) != 1 || prof[0].URL != "https://a.example.com/pub" {
		t.Errorf("profile anon: got %v", urls(prof))
	}

	// Alice's profile seen by Bob: her public and authenticated.
	profAuth, err := s.ListBookmarks(ctx, store.ForProfile(alice.ID, bob.ID), "")
	if err != nil {
		t.Fatalf("ListBookmarks profile auth: %v", err)
	}
	if len(profAuth) != 2 {
		t.Errorf("profile auth: got %d bookmarks, want 2", len(profAuth))
	}

	// Alice viewing her own profile sees everything.
	profOwn, err := s.ListBookmarks(ctx, store.ForProfile(alice.ID, alice.ID), "")
	if err != nil {
		t.Fatalf("ListBookmarks profile own: %v", err)
	}
	if len(profOwn) != 3 {
		t.Errorf("profile own: got %d bookmarks, want 3", len(profOwn))
	}
}

func TestListBookmarks_TagFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	b1 := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com/1", Title: "one", Tags: "golang sqlite"}
	b2 := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com/2", Title: "two", Tags: "rust"}
	for _, b := range []*domain.Bookmark{b1, b2} {
		if err := s.CreateBookmark(ctx, b); err != nil {
			t.Fatalf("CreateBookmark: %v", err)
		}
	}

	got, err := s.ListBookmarks(ctx, store.ForAnonymous(), "golang")
	if err != nil {
		t.Fatalf("ListBookmarks tag: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/1" {
		t.Fatalf("tag filter: got %d results", len(got))
	}

	// LIKE wildcards in the tag must match literally, not as patterns.
	none, err := s.ListBookmarks(ctx, store.ForAnonymous(), "%")
	if err != nil {
		t.Fatalf("ListBookmarks wildcard tag: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("wildcard tag should match nothing, got %d", len(none))
	}
}

func TestListBookmarksPage_FullWalk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")

	// Duplicate created_at values exercise the id tie-break.
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	const total = 12
	for i := 0; i < total; i++ {
		b := &domain.Bookmark{
			UserID:    alice.ID,
			URL:       fmt.Sprintf("https://example.com/page/%d", i),
			Title:     fmt.Sprintf("page %d", i),
			CreatedAt: base.Add(time.Duration(i/3) * time.Second),
		}
		if err := s.CreateBookmark(ctx, b); err != nil {
			t.Fatalf("CreateBookmark %d: %v", i, err)
		}
	}

	full, err := s.ListBookmarks(ctx, store.ForOwner(alice.ID), "")
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(full) != total {
		t.Fatalf("expected %d bookmarks, got %d", total, len(full))
	}

	// Walk page by page; the concatenation must equal the full listing.
	var walked []*domain.Bookmark
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > total {
			t.Fatal("pagination did not terminate")
		}
		page, err := s.ListBookmarksPage(ctx, store.ForOwner(alice.ID), "",
			store.PaginationParams{Limit: 5, Cursor: cursor})
		if err != nil {
			t.Fatalf("ListBookmarksPage: %v", err)
		}
		walked = append(walked, page.Items...)
		if !page.HasMore {
			if page.NextCursor != "" {
				t.Error("final page should have empty next cursor")
			}
			break
		}
		if page.NextCursor == "" {
			t.Fatal("HasMore set but next cursor empty")
		}
		cursor = page.NextCursor
	}

	if len(walked) != total {
		t.Fatalf("walked %d bookmarks, want %d", len(walked), total)
	}
	for i := range full {
		if walked[i].ID != full[i].ID {
			t.Fatalf("position %d: walked id %d, full id %d", i, walked[i].ID, full[i].ID)
		}
	}
}

func TestListBookmarksPage_BadCursorIsFirstPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")
	b := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com", Title: "home"}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	for _, cursor := range []string{"garbage", "!!!!", "eyJub3BlIjp0cnVlfQ=="} {
		page, err := s.ListBookmarksPage(ctx, store.ForAnonymous(), "",
			store.PaginationParams{Limit: 10, Cursor: cursor})
		if err != nil {
			t.Fatalf("ListBookmarksPage(%q): %v", cursor, err)
		}
		if len(page.Items) != 1 {
			t.Errorf("cursor %q: got %d items, want first page of 1", cursor, len(page.Items))
		}
	}
}

func TestListBookmarksPage_LimitClamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := insertTestUser(t, s, "alice")
	b := &domain.Bookmark{UserID: alice.ID, URL: "https://example.com", Title: "home"}
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	// Out-of-range limits must not error, just clamp.
	for _, limit := range []int{-5, 0, 5000} {
		page, err := s.ListBookmarksPage(ctx, store.ForAnonymous(), "",
			store.PaginationParams{Limit: limit})
		if err != nil {
			t.Fatalf("ListBookmarksPage(limit=%d): %v", limit, err)
		}
		if len(page.Items) != 1 {
			t.Errorf("limit %d: got %d items", limit, len(page.Items))
		}
	}
}
