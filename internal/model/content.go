package model

import "time"

// VideoLocation records where one copy of a video lives: the storage
// channel it was uploaded to and the message id inside that channel.
// Movies carry one list; every series episode carries its own.
type VideoLocation struct {
	ChannelID string `json:"channel_id"` // storage_channels.channel_id
	MessageID int    `json:"message_id"` // Telegram message id in that channel
}

// Movie represents a single-video content item retrievable by its
// numeric code.  The code namespace is shared with Series: a code used
// by either kind is taken for both.
//
// Fields:
//
//	ID               – primary key identifier.
//	Code             – externally chosen positive integer, unique across
//	                   movies and serials together.
//	Title, Genre     – free text entered by the admin.
//	Description      – optional free text (NULL when skipped).
//	FieldID          – category ("field") the movie belongs to.
//	PosterFileID     – Telegram file id of the poster image.
//	VideoFileID      – Telegram file id of the video (may be empty until
//	                   a video is attached).
//	VideoLocations   – per-storage-channel upload bookkeeping.
//	ChannelMessageID – message id of the poster published to the field
//	                   channel, 0 when never published.
type Movie struct {
	ID               uint64          // movies.id
	Code             int             // movies.code
	Title            string          // movies.title
	Genre            string          // movies.genre
	Description      *string         // movies.description (nullable)
	FieldID          uint64          // movies.field_id
	PosterFileID     string          // movies.poster_file_id
	VideoFileID      string          // movies.video_file_id
	VideoLocations   []VideoLocation // movies.video_locations (JSON column)
	ChannelMessageID int             // movies.channel_message_id
	CreatedAt        time.Time       // movies.created_at
	UpdatedAt        time.Time       // movies.updated_at
}

// Series represents a multi-episode content item.  Episodes are owned
// rows keyed by (series_id, episode_number).
type Series struct {
	ID               uint64    // serials.id
	Code             int       // serials.code (shared namespace with movies)
	Title            string    // serials.title
	Genre            string    // serials.genre
	Description      *string   // serials.description (nullable)
	FieldID          uint64    // serials.field_id
	PosterFileID     string    // serials.poster_file_id
	TotalEpisodes    int       // serials.total_episodes
	ChannelMessageID int       // serials.channel_message_id (0 = unpublished)
	CreatedAt        time.Time // serials.created_at
	UpdatedAt        time.Time // serials.updated_at
}

// Episode is one part of a Series.  EpisodeNumber is 1-based and
// contiguous within its series.
type Episode struct {
	ID             uint64          // episodes.id
	SeriesID       uint64          // episodes.serial_id
	EpisodeNumber  int             // episodes.episode_number
	VideoFileID    string          // episodes.video_file_id
	VideoLocations []VideoLocation // episodes.video_locations (JSON column)
	CreatedAt      time.Time       // episodes.created_at
}
