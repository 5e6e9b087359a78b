package repository // shared numeric code namespace queries

import (
	"context"
	"database/sql"
)

// CodeRepo answers existence questions over the code namespace shared
// by movies and serials. It backs the availability resolver; it holds
// no state beyond the DB handle.
type CodeRepo struct {
	db *sql.DB
}

// NewCodeRepo constructs a CodeRepo given a DB handle.
func NewCodeRepo(db *sql.DB) *CodeRepo {
	return &CodeRepo{db: db}
}

// Exists reports whether code is claimed by any movie or serial. The
// two tables form a single collision domain, so one query covers both.
func (r *CodeRepo) Exists(ctx context.Context, code int) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM movies WHERE code = ?)
	        OR EXISTS(SELECT 1 FROM serials WHERE code = ?)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, code, code).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}
