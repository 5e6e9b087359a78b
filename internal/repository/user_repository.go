package repository // repository for bot users

import (
	"context"
	"database/sql"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// Audience selects which users a broadcast targets.
type Audience string

const (
	AudienceAll     Audience = "ALL"
	AudiencePremium Audience = "PREMIUM"
	AudienceFree    Audience = "FREE"
)

// UserRepo manages bot users and their watch history.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo given a DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = `id, telegram_id, first_name, username, language_code,
	is_premium, premium_expires, is_blocked, created_at`

// FindOrCreate returns the user with the given Telegram id, inserting
// a fresh row on first contact.  Name and username are refreshed on
// every call so the stored profile tracks Telegram.
func (r *UserRepo) FindOrCreate(ctx context.Context, telegramID int64, firstName, username, lang string) (*model.User, error) {
	const upsert = `INSERT INTO users (telegram_id, first_name, username, language_code)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			first_name = VALUES(first_name),
			username = VALUES(username),
			language_code = VALUES(language_code)`
	if _, err := r.db.ExecContext(ctx, upsert, telegramID, firstName, username, lang); err != nil {
		return nil, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// GetByTelegramID fetches a user by their Telegram id.
func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE telegram_id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, telegramID))
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// SetBlocked flips the block flag used to exclude users from
// broadcasts and dashboard counters.
func (r *UserRepo) SetBlocked(ctx context.Context, id uint64, blocked bool) error {
	const q = `UPDATE users SET is_blocked = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, blocked, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GrantPremium marks the user premium until the given expiry.
func (r *UserRepo) GrantPremium(ctx context.Context, id uint64, until time.Time) error {
	const q = `UPDATE users SET is_premium = TRUE, premium_expires = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, until, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokePremium clears premium status, used when a gateway transaction
// is cancelled after being performed.
func (r *UserRepo) RevokePremium(ctx context.Context, id uint64) error {
	const q = `UPDATE users SET is_premium = FALSE, premium_expires = NULL WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// TelegramIDs returns the Telegram ids of the selected audience,
// skipping blocked users.  Premium selection is by flag and a live
// expiry so a lapsed premium user lands in the FREE partition.
func (r *UserRepo) TelegramIDs(ctx context.Context, aud Audience) ([]int64, error) {
	q := `SELECT telegram_id FROM users WHERE is_blocked = FALSE`
	switch aud {
	case AudiencePremium:
		q += ` AND is_premium = TRUE AND premium_expires > NOW()`
	case AudienceFree:
		q += ` AND (is_premium = FALSE OR premium_expires IS NULL OR premium_expires <= NOW())`
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RecordWatch appends a watch-history row; duplicates for the same
// user and content on the same day are collapsed by the unique index.
func (r *UserRepo) RecordWatch(ctx context.Context, userID uint64, contentKind string, contentID uint64) error {
	const q = `INSERT INTO watch_history (user_id, content_kind, content_id, watched_on)
		VALUES (?, ?, ?, CURDATE())
		ON DUPLICATE KEY UPDATE watched_on = watched_on`
	_, err := r.db.ExecContext(ctx, q, userID, contentKind, contentID)
	return err
}

// Stats is the dashboard's aggregate counter block.
type Stats struct {
	TotalUsers   int `json:"total_users"`
	PremiumUsers int `json:"premium_users"`
	BlockedUsers int `json:"blocked_users"`
	TotalMovies  int `json:"total_movies"`
	TotalSerials int `json:"total_serials"`
	WatchesToday int `json:"watches_today"`
}

// Stats computes the dashboard counters in a single round trip.
func (r *UserRepo) Stats(ctx context.Context) (*Stats, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM users WHERE is_premium = TRUE AND premium_expires > NOW()),
		(SELECT COUNT(*) FROM users WHERE is_blocked = TRUE),
		(SELECT COUNT(*) FROM movies),
		(SELECT COUNT(*) FROM serials),
		(SELECT COUNT(*) FROM watch_history WHERE watched_on = CURDATE())`
	var s Stats
	err := r.db.QueryRowContext(ctx, q).Scan(&s.TotalUsers, &s.PremiumUsers,
		&s.BlockedUsers, &s.TotalMovies, &s.TotalSerials, &s.WatchesToday)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns users newest first with a LIMIT/OFFSET page, for the
// dashboard table.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users
		ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.FirstName, &u.Username,
		&u.LanguageCode, &u.IsPremium, &u.PremiumExpires, &u.IsBlocked,
		&u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
