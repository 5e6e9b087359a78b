// Package subscription implements the mandatory-channel gate: a user
// must be a member of every active mandatory channel before content is
// served, unless their premium subscription bypasses the gate.
package subscription

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// ChannelStore is the slice of the channel repository the verifier
// needs.
type ChannelStore interface {
	ListMandatoryActive(ctx context.Context) ([]model.MandatoryChannel, error)
	BumpMembers(ctx context.Context, channelID string, delta int) error
	BumpPending(ctx context.Context, channelID string, delta int) error
}

// MemberLookup resolves a user's status in a chat.
type MemberLookup interface {
	MemberStatus(chat telegram.ChatRef, userID int64) (string, error)
}

// Result aggregates the gate outcome.  Unsatisfied lists the channels
// the user still has to join, in display order.
type Result struct {
	Satisfied   bool
	Unsatisfied []model.MandatoryChannel
}

// Verifier checks mandatory-channel membership.  Successful lookups
// are cached in Redis for a short window so a burst of code requests
// from one user does not hammer the membership API; the cache client
// is optional and a nil client disables caching.
type Verifier struct {
	channels ChannelStore
	lookup   MemberLookup
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewVerifier constructs a Verifier.  cache may be nil.
func NewVerifier(channels ChannelStore, lookup MemberLookup, cache *redis.Client) *Verifier {
	return &Verifier{
		channels: channels,
		lookup:   lookup,
		cache:    cache,
		cacheTTL: 2 * time.Minute,
	}
}

// CheckAll verifies the user against every active mandatory channel.
// It never returns an error: any per-channel failure counts as not
// satisfied and lands in the unsatisfied list.
func (v *Verifier) CheckAll(ctx context.Context, userID int64) Result {
	channels, err := v.channels.ListMandatoryActive(ctx)
	if err != nil {
		// cannot enumerate the gate, fail closed with nothing to show
		log.Printf("[subscription] list channels: %v", err)
		return Result{Satisfied: false}
	}

	res := Result{Satisfied: true}
	for _, ch := range channels {
		if v.channelSatisfied(ctx, ch, userID) {
			continue
		}
		res.Satisfied = false
		res.Unsatisfied = append(res.Unsatisfied, ch)
	}
	return res
}

func (v *Verifier) channelSatisfied(ctx context.Context, ch model.MandatoryChannel, userID int64) bool {
	// External channels cannot be verified programmatically.
	if ch.Kind == model.ChannelExternal {
		return true
	}
	if v.cachedMember(ctx, ch.ChannelID, userID) {
		return true
	}

	status, err := v.lookup.MemberStatus(telegram.ParseChatRef(ch.ChannelID), userID)
	if err != nil {
		// Lookup failures are indistinguishable from non-membership.
		// Private channels get one more chance below.
		log.Printf("[subscription] member lookup %s user %d: %v", ch.ChannelID, userID, err)
		return v.privateHeuristic(ctx, ch)
	}

	switch status {
	case telegram.StatusMember, telegram.StatusAdministrator,
		telegram.StatusCreator, telegram.StatusRestricted:
		v.recordMember(ctx, ch, userID)
		return true
	}
	return v.privateHeuristic(ctx, ch)
}

// privateHeuristic provisionally passes a user through a private
// channel when join requests are outstanding: someone who asked to
// join but was not yet approved shows up as "left".  This is an
// approximation, not a verified membership.
func (v *Verifier) privateHeuristic(_ context.Context, ch model.MandatoryChannel) bool {
	return ch.Kind == model.ChannelPrivate && ch.PendingRequests > 0
}

// recordMember maintains the analytics counters and the lookup cache.
// Both are best effort and never affect the gate decision.  An
// observed member of a private channel consumes one pending request:
// their join request has been approved.
func (v *Verifier) recordMember(ctx context.Context, ch model.MandatoryChannel, userID int64) {
	if err := v.channels.BumpMembers(ctx, ch.ChannelID, 1); err != nil {
		log.Printf("[subscription] member counter %s: %v", ch.ChannelID, err)
	}
	if ch.Kind == model.ChannelPrivate && ch.PendingRequests > 0 {
		if err := v.channels.BumpPending(ctx, ch.ChannelID, -1); err != nil {
			log.Printf("[subscription] pending counter %s: %v", ch.ChannelID, err)
		}
	}
	if v.cache != nil {
		if err := v.cache.Set(ctx, memberKey(ch.ChannelID, userID), "1", v.cacheTTL).Err(); err != nil {
			log.Printf("[subscription] cache set: %v", err)
		}
	}
}

func (v *Verifier) cachedMember(ctx context.Context, channelID string, userID int64) bool {
	if v.cache == nil {
		return false
	}
	ok, err := v.cache.Exists(ctx, memberKey(channelID, userID)).Result()
	if err != nil {
		return false
	}
	return ok > 0
}

func memberKey(channelID string, userID int64) string {
	return "sub:" + channelID + ":" + strconv.FormatInt(userID, 10)
}
