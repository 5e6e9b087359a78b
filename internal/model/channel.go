package model

import "time"

// ChannelKind classifies a mandatory channel for the subscription gate.
type ChannelKind string

const (
	ChannelPublic   ChannelKind = "PUBLIC"   // open channel, membership checkable
	ChannelPrivate  ChannelKind = "PRIVATE"  // closed channel, join-request based
	ChannelExternal ChannelKind = "EXTERNAL" // Instagram/YouTube etc., display only
)

// MandatoryChannel is a channel a user must join before content is
// served.  External-kind channels cannot be verified programmatically
// and are exempt from the membership check.  Channels are soft-deleted
// (IsActive=false) so historical references stay resolvable.
type MandatoryChannel struct {
	ID              uint64      // mandatory_channels.id
	ChannelID       string      // chat id or @username used for lookups
	ChannelName     string      // display name
	ChannelLink     string      // join link shown to the user
	Kind            ChannelKind // mandatory_channels.kind
	Order           int         // display order for the remediation prompt
	IsActive        bool        // soft-delete flag
	CurrentMembers  int         // best-effort analytics counter
	PendingRequests int         // open join requests (PRIVATE channels)
	CreatedAt       time.Time
}

// StorageChannel is an internal channel that hosts uploaded video files
// for later retrieval.  Not user-facing.
type StorageChannel struct {
	ID          uint64 // storage_channels.id
	ChannelID   string // chat id the bot uploads into
	ChannelName string
	IsActive    bool
	CreatedAt   time.Time
}
