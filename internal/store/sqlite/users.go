package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, username, email, password_hash, created_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var createdAt string

	err := scanner.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user into the database.
// Returns store.ErrAlreadyExists on duplicate username or email.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		u.Username,
		u.Email,
		u.PasswordHash,
		formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID, err = res.LastInsertId()
	return err
}

// CreateUserWithInvite creates the user and marks the invite code used in a
// single transaction. Either both commit or both roll back, so a code can
// never be spent without its user existing (or vice versa). Returns
// store.ErrNotFound for an unknown code and store.ErrAlreadyExists for a
// spent code or duplicate username/email.
func (s *Store) CreateUserWithInvite(ctx context.Context, u *domain.User, code string) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		inviteID int64
		usedAt   sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, used_at FROM invite_codes WHERE code = ?`, code).
		Scan(&inviteID, &usedAt)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("invite code not found")
	}
	if err != nil {
		return fmt.Errorf("lookup invite: %w", err)
	}
	if usedAt.Valid {
		return store.ErrAlreadyExists.WithMessage("invite code already used")
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		u.Username,
		u.Email,
		u.PasswordHash,
		formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}

	// Guard used_at IS NULL so a concurrent claim loses cleanly.
	claim, err := tx.ExecContext(ctx, `
		UPDATE invite_codes SET used_by_user_id = ?, used_at = ?
		WHERE id = ? AND used_at IS NULL`,
		u.ID,
		formatTime(time.Now().UTC()),
		inviteID,
	)
	if err != nil {
		return fmt.Errorf("claim invite: %w", err)
	}
	n, err := claim.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists.WithMessage("invite code already used")
	}

	return tx.Commit()
}

// GetUserByID retrieves a user by id.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
