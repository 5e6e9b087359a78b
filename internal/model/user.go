package model

import "time"

// User is a bot consumer identified by their Telegram id.  Premium
// status gates the subscription check; blocked users are excluded from
// broadcasts.
type User struct {
	ID             uint64     // users.id
	TelegramID     int64      // users.telegram_id (unique)
	FirstName      string     // users.first_name
	Username       string     // users.username
	LanguageCode   string     // users.language_code
	IsPremium      bool       // users.is_premium
	PremiumExpires *time.Time // users.premium_expires (nullable)
	IsBlocked      bool       // users.is_blocked
	CreatedAt      time.Time  // users.created_at
}

// PremiumActive reports whether the user's premium subscription is
// currently valid.
func (u *User) PremiumActive(now time.Time) bool {
	return u.IsPremium && u.PremiumExpires != nil && u.PremiumExpires.After(now)
}
