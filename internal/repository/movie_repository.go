package repository // repository for movie persistence

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// MovieRepo encapsulates database operations for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo given a DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *MovieRepo) DB() *sql.DB { return r.db }

const movieCols = `id, code, title, genre, description, field_id,
	poster_file_id, video_file_id, video_locations, channel_message_id,
	created_at, updated_at`

// Create inserts a movie. A duplicate code is reported as ErrCodeTaken;
// this is the commit-time backstop for the shared code namespace.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	locs, err := json.Marshal(m.VideoLocations)
	if err != nil {
		return err
	}
	const q = `INSERT INTO movies
		(code, title, genre, description, field_id, poster_file_id,
		 video_file_id, video_locations, channel_message_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Code, m.Title, m.Genre,
		m.Description, m.FieldID, m.PosterFileID, m.VideoFileID,
		locs, m.ChannelMessageID)
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
	m.ID = uint64(id)
	return nil
}

// GetByCode fetches a movie by its numeric code. Returns ErrNotFound
// when the code belongs to no movie.
func (r *MovieRepo) GetByCode(ctx context.Context, code int) (*model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies WHERE code = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, code))
}

// GetByID fetches a movie by primary key.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// List returns all movies, newest first, for the dashboard.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// AttachVideo sets the video file and its storage locations on a movie
// that was created without one.
func (r *MovieRepo) AttachVideo(ctx context.Context, id uint64, fileID string, locs []model.VideoLocation) error {
	data, err := json.Marshal(locs)
	if err != nil {
		return err
	}
	const q = `UPDATE movies SET video_file_id = ?, video_locations = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, fileID, data, id)
	return err
}

// SetChannelMessage records where the movie's poster was published.
func (r *MovieRepo) SetChannelMessage(ctx context.Context, id uint64, messageID int) error {
	const q = `UPDATE movies SET channel_message_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, messageID, id)
	return err
}

// Delete removes a movie permanently, freeing its code.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM movies WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MovieRepo) scanOne(row rowScanner) (*model.Movie, error) {
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var locs []byte
	if err := row.Scan(&m.ID, &m.Code, &m.Title, &m.Genre, &m.Description,
		&m.FieldID, &m.PosterFileID, &m.VideoFileID, &locs,
		&m.ChannelMessageID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if len(locs) > 0 {
		if err := json.Unmarshal(locs, &m.VideoLocations); err != nil {
			return nil, err
		}
	}
	return &m, nil
}
