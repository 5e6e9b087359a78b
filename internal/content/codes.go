// Package content implements the shared numeric-code namespace over
// movies and serials: availability checks and nearest-free-code
// suggestions for the ingestion dialogue.
package content

import "context"

// CodeChecker reports whether a code is already assigned to any
// content item, movie or serial.
type CodeChecker interface {
	Exists(ctx context.Context, code int) (bool, error)
}

// Resolver answers code-availability queries.  It is a pure query
// layer: suggestions are not reservations, so a commit must re-check
// under the unique constraint.
type Resolver struct {
	checker CodeChecker
	ceiling int // maximum offset explored by FindNearestAvailable
}

// DefaultSearchCeiling bounds the nearest-code search when no explicit
// ceiling is configured.
const DefaultSearchCeiling = 1000

// NewResolver constructs a Resolver.  A non-positive ceiling falls
// back to DefaultSearchCeiling.
func NewResolver(checker CodeChecker, ceiling int) *Resolver {
	if ceiling <= 0 {
		ceiling = DefaultSearchCeiling
	}
	return &Resolver{checker: checker, ceiling: ceiling}
}

// IsAvailable reports whether code is free to assign.
func (r *Resolver) IsAvailable(ctx context.Context, code int) (bool, error) {
	taken, err := r.checker.Exists(ctx, code)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// FindNearestAvailable suggests up to count free codes near requested,
// nearest first.  The search expands outward one offset at a time,
// probing requested+o before requested-o, and gives up once the
// configured ceiling is reached.  Finding fewer than count codes is
// not an error; the requested code itself is never returned.
func (r *Resolver) FindNearestAvailable(ctx context.Context, requested, count int) ([]int, error) {
	if count <= 0 {
		return nil, nil
	}
	var found []int
	for o := 1; o <= r.ceiling && len(found) < count; o++ {
		candidates := []int{requested + o}
		if requested-o > 0 {
			candidates = append(candidates, requested-o)
		}
		for _, cand := range candidates {
			free, err := r.IsAvailable(ctx, cand)
			if err != nil {
				return nil, err
			}
			if free {
				found = append(found, cand)
				if len(found) == count {
					break
				}
			}
		}
	}
	return found, nil
}
