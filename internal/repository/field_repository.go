package repository // repository for content fields (categories)

import (
	"context"
	"database/sql"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// FieldRepo manages the field (category) table.  Fields are
// soft-deleted so content rows keep a resolvable field_id.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo constructs a FieldRepo given a DB handle.
func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

// Create inserts a new field and fills in its id.
func (r *FieldRepo) Create(ctx context.Context, f *model.Field) error {
	const q = `INSERT INTO fields (name, channel_id, channel_link, is_active)
		VALUES (?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.ChannelID, f.ChannelLink)
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
	f.ID = uint64(id)
	f.IsActive = true
	return nil
}

// GetByID fetches a field by primary key, active or not.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (*model.Field, error) {
	const q = `SELECT id, name, channel_id, channel_link, is_active, created_at
		FROM fields WHERE id = ?`
	var f model.Field
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Name,
		&f.ChannelID, &f.ChannelLink, &f.IsActive, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListActive returns active fields ordered by name.  This is the list
// an admin picks from during content ingestion.
func (r *FieldRepo) ListActive(ctx context.Context) ([]model.Field, error) {
	const q = `SELECT id, name, channel_id, channel_link, is_active, created_at
		FROM fields WHERE is_active = TRUE ORDER BY name`
	return r.listFields(ctx, q)
}

// List returns every field, for the dashboard.
func (r *FieldRepo) List(ctx context.Context) ([]model.Field, error) {
	const q = `SELECT id, name, channel_id, channel_link, is_active, created_at
		FROM fields ORDER BY created_at DESC`
	return r.listFields(ctx, q)
}

func (r *FieldRepo) listFields(ctx context.Context, q string) ([]model.Field, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Field
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.Name, &f.ChannelID, &f.ChannelLink,
			&f.IsActive, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Deactivate soft-deletes a field.  Movies and serials in the field
// keep their reference.
func (r *FieldRepo) Deactivate(ctx context.Context, id uint64) error {
	const q = `UPDATE fields SET is_active = FALSE WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
