package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// syncBookmarkTags regenerates the normalized tag index for a bookmark from
// its denormalized tag string. Runs inside the caller's transaction so the
// tags column and the index cannot diverge: delete all associations, then
// idempotently ensure a tag row and association per unique token. Tag rows
// for dropped tokens are left behind on purpose.
func syncBookmarkTags(ctx context.Context, tx *sql.Tx, bookmarkID int64, tags string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = ?`, bookmarkID); err != nil {
		return fmt.Errorf("delete bookmark_tags: %w", err)
	}

	tokens := domain.ParseTags(tags)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tokens))
	now := formatTime(time.Now().UTC())
	for _, name := range tokens {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (name, created_at) VALUES (?, ?)
			ON CONFLICT (name) DO NOTHING`,
			name, now); err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}

		var tagID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?)
			ON CONFLICT (bookmark_id, tag_id) DO NOTHING`,
			bookmarkID, tagID); err != nil {
			return fmt.Errorf("insert bookmark_tag %q: %w", name, err)
		}
	}

	return nil
}

// GetTagsForBookmark returns the normalized tag rows associated with a
// bookmark, ordered by name.
func (s *Store) GetTagsForBookmark(ctx context.Context, bookmarkID int64) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tags.id, tags.name, tags.created_at
		FROM tags JOIN bookmark_tags ON bookmark_tags.tag_id = tags.id
		WHERE bookmark_tags.bookmark_id = ?
		ORDER BY tags.name ASC`, bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var (
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// TagCounts counts tag occurrences across the bookmarks visible under the
// filter. The denormalized tag strings are tallied in memory, which keeps
// the count consistent with the tag containment filter used for listing.
// Sorted by count descending, name ascending.
func (s *Store) TagCounts(ctx context.Context, filter store.VisibilityFilter) ([]domain.TagCount, error) {
	where, args, err := filter.Predicate()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT bookmarks.tags FROM bookmarks WHERE `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, name := range domain.ParseTags(tags) {
			counts[name]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.TagCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, domain.TagCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// TopTags returns the first n entries of TagCounts.
func (s *Store) TopTags(ctx context.Context, filter store.VisibilityFilter, n int) ([]domain.TagCount, error) {
	counts, err := s.TagCounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}

// PopularBookmarksForTag ranks a tag's URLs by the number of distinct users
// who bookmarked them. The earliest-created bookmark for each URL is the
// canonical display row; ties rank by earliest creation.
func (s *Store) PopularBookmarksForTag(ctx context.Context, filter store.VisibilityFilter, tag string, n int) ([]domain.PopularBookmark, error) {
	bookmarks, err := s.ListBookmarks(ctx, filter, tag)
	if err != nil {
		return nil, err
	}

	type urlGroup struct {
		oldest *domain.Bookmark
		users  map[int64]bool
	}

	groups := make(map[string]*urlGroup)
	for _, b := range bookmarks {
		g, ok := groups[b.URL]
		if !ok {
			groups[b.URL] = &urlGroup{oldest: b, users: map[int64]bool{b.UserID: true}}
			continue
		}
		g.users[b.UserID] = true
		if b.CreatedAt.Before(g.oldest.CreatedAt) {
			g.oldest = b
		}
	}

	ranked := make([]domain.PopularBookmark, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, domain.PopularBookmark{
			Bookmark:  g.oldest,
			SaveCount: len(g.users),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SaveCount != ranked[j].SaveCount {
			return ranked[i].SaveCount > ranked[j].SaveCount
		}
		return ranked[i].Bookmark.CreatedAt.Before(ranked[j].Bookmark.CreatedAt)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
