// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// bot's step handlers to distinguish between different failure
// scenarios. For example, ErrCodeTaken signals that a content commit
// lost the race for a numeric code to a concurrent admin, while
// ErrNotFound covers lookups by code or id that matched nothing.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate this into an HTTP 404; the bot shows a "not found" prompt.
var ErrNotFound = errors.New("not found")

// ErrCodeTaken is returned when an insert violates the shared
// movie/serial code uniqueness constraint. The availability check is
// advisory only; this constraint is the actual backstop, so commits
// must surface this error rather than overwrite.
var ErrCodeTaken = errors.New("code already taken")

// ErrConflict is returned when an update or delete cannot proceed
// because of dependent state.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), which is how the unique code constraint manifests.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
