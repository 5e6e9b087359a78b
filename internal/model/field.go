package model

import "time"

// Field is an admin-defined grouping of content ("category").  Each
// field is bound to exactly one publication channel where posters are
// posted with a deep link back into the bot.
type Field struct {
	ID          uint64 // fields.id
	Name        string // fields.name
	ChannelID   string // publication channel chat id
	ChannelLink string // public link to the channel
	IsActive    bool   // soft-delete flag
	CreatedAt   time.Time
}
