package repository // repository for serial and episode persistence

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// SeriesRepo encapsulates database operations for serials and their
// episodes. Episodes are owned rows; all episode writes go through this
// repo so total_episodes stays consistent with the episode table.
type SeriesRepo struct {
	db *sql.DB
}

// NewSeriesRepo constructs a SeriesRepo given a DB handle.
func NewSeriesRepo(db *sql.DB) *SeriesRepo {
	return &SeriesRepo{db: db}
}

// DB exposes the underlying handle for cross-repo transactions.
func (r *SeriesRepo) DB() *sql.DB { return r.db }

const seriesCols = `id, code, title, genre, description, field_id,
	poster_file_id, total_episodes, channel_message_id, created_at, updated_at`

// CreateTx inserts a serial and all of its episodes in one transaction
// so a commit either lands the whole series or nothing. A duplicate
// code is reported as ErrCodeTaken.
func (r *SeriesRepo) CreateTx(ctx context.Context, s *model.Series, episodes []model.Episode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO serials
		(code, title, genre, description, field_id, poster_file_id,
		 total_episodes, channel_message_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Code, s.Title, s.Genre,
		s.Description, s.FieldID, s.PosterFileID, len(episodes),
		s.ChannelMessageID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.TotalEpisodes = len(episodes)

	for i := range episodes {
		episodes[i].SeriesID = s.ID
		if err := insertEpisodeTx(ctx, tx, &episodes[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AppendEpisodesTx adds episodes to an existing serial and bumps
// total_episodes by the number added, atomically.
func (r *SeriesRepo) AppendEpisodesTx(ctx context.Context, seriesID uint64, episodes []model.Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for i := range episodes {
		episodes[i].SeriesID = seriesID
		if err := insertEpisodeTx(ctx, tx, &episodes[i]); err != nil {
			return err
		}
	}
	const q = `UPDATE serials SET total_episodes = total_episodes + ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, len(episodes), seriesID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func insertEpisodeTx(ctx context.Context, tx *sql.Tx, ep *model.Episode) error {
	locs, err := json.Marshal(ep.VideoLocations)
	if err != nil {
		return err
	}
	const q = `INSERT INTO episodes
		(serial_id, episode_number, video_file_id, video_locations)
		VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, ep.SeriesID, ep.EpisodeNumber, ep.VideoFileID, locs)
	if err != nil {
		if isDuplicateKey(err) {
			// (serial_id, episode_number) unique index
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ep.ID = uint64(id)
	return nil
}

// GetByCode fetches a serial by numeric code.
func (r *SeriesRepo) GetByCode(ctx context.Context, code int) (*model.Series, error) {
	const q = `SELECT ` + seriesCols + ` FROM serials WHERE code = ?`
	return scanSeries(r.db.QueryRowContext(ctx, q, code))
}

// GetByID fetches a serial by primary key.
func (r *SeriesRepo) GetByID(ctx context.Context, id uint64) (*model.Series, error) {
	const q = `SELECT ` + seriesCols + ` FROM serials WHERE id = ?`
	return scanSeries(r.db.QueryRowContext(ctx, q, id))
}

// List returns all serials, newest first, for the dashboard.
func (r *SeriesRepo) List(ctx context.Context) ([]model.Series, error) {
	const q = `SELECT ` + seriesCols + ` FROM serials ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Episodes returns a serial's episodes ordered by episode number.
func (r *SeriesRepo) Episodes(ctx context.Context, seriesID uint64) ([]model.Episode, error) {
	const q = `SELECT id, serial_id, episode_number, video_file_id,
		video_locations, created_at
		FROM episodes WHERE serial_id = ? ORDER BY episode_number`
	rows, err := r.db.QueryContext(ctx, q, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Episode
	for rows.Next() {
		var ep model.Episode
		var locs []byte
		if err := rows.Scan(&ep.ID, &ep.SeriesID, &ep.EpisodeNumber,
			&ep.VideoFileID, &locs, &ep.CreatedAt); err != nil {
			return nil, err
		}
		if len(locs) > 0 {
			if err := json.Unmarshal(locs, &ep.VideoLocations); err != nil {
				return nil, err
			}
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// SetChannelMessage records where the serial's poster was published so
// later episode appends can edit it in place.
func (r *SeriesRepo) SetChannelMessage(ctx context.Context, id uint64, messageID int) error {
	const q = `UPDATE serials SET channel_message_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, messageID, id)
	return err
}

// Delete removes a serial and, via the FK cascade, its episodes.
func (r *SeriesRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM serials WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSeries(row rowScanner) (*model.Series, error) {
	var s model.Series
	err := row.Scan(&s.ID, &s.Code, &s.Title, &s.Genre, &s.Description,
		&s.FieldID, &s.PosterFileID, &s.TotalEpisodes, &s.ChannelMessageID,
		&s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
