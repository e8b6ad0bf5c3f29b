package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// inviteColumns is the ordered list of columns selected in invite queries.
// Must match the scan order in scanInvite.
const inviteColumns = `id, code, used_by_user_id, used_at, created_at`

// scanInvite scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.InviteCode.
func scanInvite(scanner interface{ Scan(dest ...any) error }) (*domain.InviteCode, error) {
	var inv domain.InviteCode

	var (
		usedBy    sql.NullInt64
		usedAt    sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&inv.ID,
		&inv.Code,
		&usedBy,
		&usedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if usedBy.Valid {
		inv.UsedByUserID = usedBy.Int64
	}
	inv.UsedAt, err = parseNullableTime(usedAt)
	if err != nil {
		return nil, err
	}
	inv.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// CreateInvite inserts a new invite code.
// Returns store.ErrAlreadyExists if the code already exists.
func (s *Store) CreateInvite(ctx context.Context, inv *domain.InviteCode) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO invite_codes (code, used_by_user_id, used_at, created_at)
		VALUES (?, ?, ?, ?)`,
		inv.Code,
		nullInt64(inv.UsedByUserID),
		nullTimeString(inv.UsedAt),
		formatTime(inv.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert invite: %w", err)
	}

	inv.ID, err = res.LastInsertId()
	return err
}

// GetInviteByCode retrieves an invite by its unique code.
// Returns store.ErrNotFound if the invite does not exist.
func (s *Store) GetInviteByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invite_codes WHERE code = ?`, code)

	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvites returns all invite codes ordered by created_at descending.
func (s *Store) ListInvites(ctx context.Context) ([]*domain.InviteCode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invite_codes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*domain.InviteCode
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invites, nil
}
