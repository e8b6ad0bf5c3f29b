package domain

import "time"

// InviteCode gates registration. A code is single-use: claiming it records
// the claiming user and timestamp in the same transaction that creates the
// user, so a code can never be spent twice.
type InviteCode struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"`
	UsedByUserID int64      `json:"used_by_user_id,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsUsed reports whether the code has already been claimed.
func (i *InviteCode) IsUsed() bool {
	return i.UsedAt != nil
}
