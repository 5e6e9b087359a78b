package repository // repositories for mandatory and storage channels

import (
	"context"
	"database/sql"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// ChannelRepo manages mandatory (subscription-gated) channels and the
// internal storage channels video files are fanned out to.
type ChannelRepo struct {
	db *sql.DB
}

// NewChannelRepo constructs a ChannelRepo given a DB handle.
func NewChannelRepo(db *sql.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

const mandatoryCols = `id, channel_id, channel_name, channel_link, kind,
	display_order, is_active, current_members, pending_requests, created_at`

// CreateMandatory inserts a mandatory channel at the end of the
// display order.
func (r *ChannelRepo) CreateMandatory(ctx context.Context, ch *model.MandatoryChannel) error {
	const q = `INSERT INTO mandatory_channels
		(channel_id, channel_name, channel_link, kind, display_order, is_active)
		VALUES (?, ?, ?, ?,
			(SELECT COALESCE(MAX(c.display_order), 0) + 1
			 FROM mandatory_channels c WHERE c.is_active = TRUE),
			TRUE)`
	res, err := r.db.ExecContext(ctx, q, ch.ChannelID, ch.ChannelName,
		ch.ChannelLink, string(ch.Kind))
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
	ch.ID = uint64(id)
	ch.IsActive = true
	return nil
}

// ListMandatoryActive returns active mandatory channels in display
// order.  This is the set the subscription gate verifies against.
func (r *ChannelRepo) ListMandatoryActive(ctx context.Context) ([]model.MandatoryChannel, error) {
	const q = `SELECT ` + mandatoryCols + ` FROM mandatory_channels
		WHERE is_active = TRUE ORDER BY display_order`
	return r.listMandatory(ctx, q)
}

// ListMandatory returns every mandatory channel, for the dashboard.
func (r *ChannelRepo) ListMandatory(ctx context.Context) ([]model.MandatoryChannel, error) {
	const q = `SELECT ` + mandatoryCols + ` FROM mandatory_channels
		ORDER BY display_order`
	return r.listMandatory(ctx, q)
}

func (r *ChannelRepo) listMandatory(ctx context.Context, q string) ([]model.MandatoryChannel, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MandatoryChannel
	for rows.Next() {
		var ch model.MandatoryChannel
		var kind string
		if err := rows.Scan(&ch.ID, &ch.ChannelID, &ch.ChannelName,
			&ch.ChannelLink, &kind, &ch.Order, &ch.IsActive,
			&ch.CurrentMembers, &ch.PendingRequests, &ch.CreatedAt); err != nil {
			return nil, err
		}
		ch.Kind = model.ChannelKind(kind)
		out = append(out, ch)
	}
	return out, rows.Err()
}

// DeactivateMandatory soft-deletes a mandatory channel.
func (r *ChannelRepo) DeactivateMandatory(ctx context.Context, id uint64) error {
	const q = `UPDATE mandatory_channels SET is_active = FALSE WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BumpMembers adjusts the best-effort member counter by delta.  The
// counter never drops below zero.
func (r *ChannelRepo) BumpMembers(ctx context.Context, channelID string, delta int) error {
	const q = `UPDATE mandatory_channels
		SET current_members = GREATEST(0, current_members + ?)
		WHERE channel_id = ? AND is_active = TRUE`
	_, err := r.db.ExecContext(ctx, q, delta, channelID)
	return err
}

// BumpPending adjusts the open join-request counter by delta, clamped
// at zero.
func (r *ChannelRepo) BumpPending(ctx context.Context, channelID string, delta int) error {
	const q = `UPDATE mandatory_channels
		SET pending_requests = GREATEST(0, pending_requests + ?)
		WHERE channel_id = ? AND is_active = TRUE`
	_, err := r.db.ExecContext(ctx, q, delta, channelID)
	return err
}

// PendingRequests reports the open join-request count for a private
// channel, used by the gate's private-channel heuristic.
func (r *ChannelRepo) PendingRequests(ctx context.Context, channelID string) (int, error) {
	const q = `SELECT pending_requests FROM mandatory_channels
		WHERE channel_id = ? AND is_active = TRUE`
	var n int
	err := r.db.QueryRowContext(ctx, q, channelID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return n, err
}

// CreateStorage registers an internal storage channel.
func (r *ChannelRepo) CreateStorage(ctx context.Context, ch *model.StorageChannel) error {
	const q = `INSERT INTO storage_channels (channel_id, channel_name, is_active)
		VALUES (?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, ch.ChannelID, ch.ChannelName)
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
	ch.ID = uint64(id)
	ch.IsActive = true
	return nil
}

// ListStorageActive returns active storage channels; every video
// upload is copied to each of them.
func (r *ChannelRepo) ListStorageActive(ctx context.Context) ([]model.StorageChannel, error) {
	const q = `SELECT id, channel_id, channel_name, is_active, created_at
		FROM storage_channels WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.StorageChannel
	for rows.Next() {
		var ch model.StorageChannel
		if err := rows.Scan(&ch.ID, &ch.ChannelID, &ch.ChannelName,
			&ch.IsActive, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// DeactivateStorage soft-deletes a storage channel; existing video
// locations pointing at it stay valid for copy delivery.
func (r *ChannelRepo) DeactivateStorage(ctx context.Context, id uint64) error {
	const q = `UPDATE storage_channels SET is_active = FALSE WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
