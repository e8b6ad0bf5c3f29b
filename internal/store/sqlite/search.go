package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// ftsTableBookmarks is the only searchable table in this schema.
const ftsTableBookmarks = "bookmarks_fts"

// validFTSTables whitelists table names that may be interpolated into an FTS
// query. Anything else is rejected as invalid.
var validFTSTables = map[string]bool{
	ftsTableBookmarks: true,
}

// escapeFTSQuery rewrites free-text input for literal FTS5 matching: quote
// characters are stripped from each token and every token is wrapped in
// double quotes, so boolean operators and prefix wildcards in user input are
// matched as plain terms instead of being interpreted as query syntax.
// Returns "" for empty or all-whitespace input.
func escapeFTSQuery(query string) string {
	words := strings.Fields(strings.ReplaceAll(query, `"`, ""))
	if len(words) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, `"`+w+`"`)
	}
	return strings.Join(quoted, " ")
}

// searchBookmarkIDs returns matching rowids ordered by FTS5 rank.
// Empty input yields no query and no results.
func (s *Store) searchBookmarkIDs(ctx context.Context, table, query string) ([]int64, error) {
	if !validFTSTables[table] {
		return nil, fmt.Errorf("invalid FTS table: %s", table)
	}

	escaped := escapeFTSQuery(query)
	if escaped == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid FROM `+table+` WHERE `+table+` MATCH ? ORDER BY rank`,
		escaped)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
