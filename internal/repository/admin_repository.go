package repository // repository for bot operators

import (
	"context"
	"database/sql"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// AdminRepo manages bot operators.  The bot authorizes by Telegram id;
// the dashboard authenticates by username and bcrypt hash.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo given a DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

const adminCols = `id, telegram_id, username, role, password_hash, created_by, created_at`

// Create inserts a new admin.  A duplicate Telegram id is reported as
// ErrConflict.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	const q = `INSERT INTO admins (telegram_id, username, role, password_hash, created_by)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.TelegramID, a.Username, a.Role,
		a.PasswordHash, a.CreatedBy)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByTelegramID fetches an admin by their Telegram id; ErrNotFound
// means the caller is a regular user.
func (r *AdminRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE telegram_id = ?`
	return scanAdmin(r.db.QueryRowContext(ctx, q, telegramID))
}

// GetByID fetches an admin by primary key, the id carried in dashboard
// tokens.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE id = ?`
	return scanAdmin(r.db.QueryRowContext(ctx, q, id))
}

// GetByUsername fetches an admin for dashboard login.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE username = ?`
	return scanAdmin(r.db.QueryRowContext(ctx, q, username))
}

// List returns every admin, for the dashboard and the bot's admin
// management menu.
func (r *AdminRepo) List(ctx context.Context) ([]model.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Delete removes an admin by Telegram id.
func (r *AdminRepo) Delete(ctx context.Context, telegramID int64) error {
	const q = `DELETE FROM admins WHERE telegram_id = ?`
	res, err := r.db.ExecContext(ctx, q, telegramID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAdmin(row rowScanner) (*model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.TelegramID, &a.Username, &a.Role,
		&a.PasswordHash, &a.CreatedBy, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
