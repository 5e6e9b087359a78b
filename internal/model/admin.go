package model

import "time"

// Admin roles.  SUPERADMIN may manage other admins, prices and
// broadcasts; ADMIN is limited to content ingestion.
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

// Admin is a bot operator.  PasswordHash is only set for admins that
// log into the web dashboard; bot-side identification is by TelegramID.
type Admin struct {
	ID           uint64 // admins.id
	TelegramID   int64  // admins.telegram_id (unique)
	Username     string // admins.username
	Role         string // ADMIN or SUPERADMIN
	PasswordHash string // bcrypt hash for dashboard login, may be empty
	CreatedBy    int64  // telegram id of the admin who added this one
	CreatedAt    time.Time
}
