package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// bookmarkColumns is the ordered list of columns selected in bookmark
// queries. Must match the scan order in scanBookmark. The owner's username is
// eagerly joined for display.
const bookmarkColumns = `bookmarks.id, bookmarks.user_id, users.username,
	bookmarks.url, bookmarks.title, bookmarks.description, bookmarks.tags,
	bookmarks.visibility, bookmarks.created_at, bookmarks.updated_at`

const bookmarkFrom = ` FROM bookmarks JOIN users ON users.id = bookmarks.user_id`

// scanBookmark scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Bookmark.
func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark

	var (
		visibility string
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.Username,
		&b.URL,
		&b.Title,
		&b.Description,
		&b.Tags,
		&visibility,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Visibility = domain.Visibility(visibility)

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// This string check is the conflict/generic-failure boundary for the
// duplicate-bookmark race: first commit wins, the loser lands here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// escapeLikePattern escapes LIKE wildcards in user input so a tag filter
// cannot inject wildcard behavior. Pair with ESCAPE '\'.
func escapeLikePattern(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(pattern)
}

// buildBookmarkWhere composes the visibility predicate with an optional tag
// containment filter.
func buildBookmarkWhere(filter store.VisibilityFilter, tag string) (string, []any, error) {
	clause, args, err := filter.Predicate()
	if err != nil {
		return "", nil, err
	}

	if tag != "" {
		clause += ` AND bookmarks.tags LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLikePattern(tag)+"%")
	}

	return clause, args, nil
}

// CreateBookmark inserts a bookmark and resynchronizes its tag index in one
// transaction. Returns store.ErrAlreadyExists when the owner already has a
// bookmark for the URL. The pre-flight check is an optimization; the UNIQUE
// constraint caught at commit time is the real guarantee under races.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	b.Tags = strings.TrimSpace(b.Tags)
	b.Visibility = domain.NormalizeVisibility(b.Visibility)

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookmarks WHERE user_id = ? AND url = ?`,
		b.UserID, b.URL).Scan(&existing)
	if err == nil {
		return store.ErrAlreadyExists
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check existing bookmark: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, url, title, description, tags, visibility, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID,
		b.URL,
		b.Title,
		b.Description,
		b.Tags,
		string(b.Visibility),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert bookmark: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("bookmark id: %w", err)
	}

	if err := syncBookmarkTags(ctx, tx, b.ID, b.Tags); err != nil {
		return fmt.Errorf("sync tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateBookmark rewrites a bookmark row and resynchronizes its tag index in
// one transaction. Ownership checks are the caller's responsibility.
func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	b.Tags = strings.TrimSpace(b.Tags)
	b.Visibility = domain.NormalizeVisibility(b.Visibility)
	b.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookmarks SET
			url = ?,
			title = ?,
			description = ?,
			tags = ?,
			visibility = ?,
			updated_at = ?
		WHERE id = ?`,
		b.URL,
		b.Title,
		b.Description,
		b.Tags,
		string(b.Visibility),
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("update bookmark: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := syncBookmarkTags(ctx, tx, b.ID, b.Tags); err != nil {
		return fmt.Errorf("sync tags: %w", err)
	}

	return tx.Commit()
}

// DeleteBookmark removes a bookmark. Tag associations are removed by the
// foreign-key cascade; tag rows stay.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetBookmark retrieves a bookmark by id. A non-zero ownerID scopes the
// lookup to bookmarks owned by that user; callers passing zero must apply
// their own visibility check.
func (s *Store) GetBookmark(ctx context.Context, id, ownerID int64) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + bookmarkFrom + ` WHERE bookmarks.id = ?`
	args := []any{id}
	if ownerID != 0 {
		query += ` AND bookmarks.user_id = ?`
		args = append(args, ownerID)
	}

	b, err := scanBookmark(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookmarks returns all bookmarks matching the filter and optional tag,
// newest first with id as tie-break.
func (s *Store) ListBookmarks(ctx context.Context, filter store.VisibilityFilter, tag string) ([]*domain.Bookmark, error) {
	where, args, err := buildBookmarkWhere(filter, tag)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+bookmarkFrom+` WHERE `+where+
			` ORDER BY bookmarks.created_at DESC, bookmarks.id DESC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

// ListBookmarksPage returns one page of the canonical ordering. A cursor
// seeks strictly past its position: created_at < ts OR (created_at = ts AND
// id < id). Decode failures degrade to the first page.
func (s *Store) ListBookmarksPage(ctx context.Context, filter store.VisibilityFilter, tag string, params store.PaginationParams) (store.PaginatedResult[*domain.Bookmark], error) {
	var zero store.PaginatedResult[*domain.Bookmark]

	params.Validate()

	where, args, err := buildBookmarkWhere(filter, tag)
	if err != nil {
		return zero, err
	}

	if cursor, ok := store.DecodeCursor(params.Cursor); ok {
		ts := formatTime(cursor.CreatedAt)
		where += ` AND (bookmarks.created_at < ? OR (bookmarks.created_at = ? AND bookmarks.id < ?))`
		args = append(args, ts, ts, cursor.ID)
	}

	args = append(args, params.Limit+1)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+bookmarkFrom+` WHERE `+where+
			` ORDER BY bookmarks.created_at DESC, bookmarks.id DESC LIMIT ?`,
		args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	items, err := collectBookmarks(rows)
	if err != nil {
		return zero, err
	}

	return store.NewPage(items, params.Limit, func(b *domain.Bookmark) store.Cursor {
		return store.BookmarkCursor(b)
	}), nil
}

// SearchBookmarks maps a free-text query to visible bookmarks in rank order.
// Matching ids that fail the visibility check or no longer exist are silently
// dropped.
func (s *Store) SearchBookmarks(ctx context.Context, filter store.VisibilityFilter, query string) ([]*domain.Bookmark, error) {
	ids, err := s.searchBookmarkIDs(ctx, ftsTableBookmarks, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	where, args, err := buildBookmarkWhere(filter, "")
	if err != nil {
		return nil, err
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+bookmarkFrom+` WHERE `+where+
			` AND bookmarks.id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visible, err := collectBookmarks(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Bookmark, len(visible))
	for _, b := range visible {
		byID[b.ID] = b
	}

	ranked := make([]*domain.Bookmark, 0, len(visible))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ranked = append(ranked, b)
		}
	}
	return ranked, nil
}

// collectBookmarks drains rows into a slice.
func collectBookmarks(rows *sql.Rows) ([]*domain.Bookmark, error) {
	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}
	return bookmarks, nil
}
