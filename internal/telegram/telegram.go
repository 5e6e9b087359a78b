// Package telegram wraps the Bot API behind a narrow interface so the
// dialogue and delivery services can be exercised with fakes.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Chat member statuses as reported by the platform.
const (
	StatusMember        = "member"
	StatusAdministrator = "administrator"
	StatusCreator       = "creator"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

// ChatRef addresses a chat either by numeric id or by @username.
// Channel identities are stored as strings in the database and may be
// either form.
type ChatRef struct {
	ID       int64
	Username string
}

// ChatID builds a ChatRef from a numeric chat id.
func ChatID(id int64) ChatRef { return ChatRef{ID: id} }

// ParseChatRef interprets a stored channel identity: a numeric string
// becomes an id, anything else a username.
func ParseChatRef(s string) ChatRef {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChatRef{ID: id}
	}
	return ChatRef{Username: "@" + strings.TrimPrefix(s, "@")}
}

// String renders the ref for logs.
func (c ChatRef) String() string {
	if c.Username != "" {
		return c.Username
	}
	return fmt.Sprintf("%d", c.ID)
}

// API is the surface of the Bot API this system uses.  Implementations
// are expected to be safe for concurrent use.
type API interface {
	// SendText sends a text message, optionally with a reply markup,
	// and returns the sent message id.
	SendText(chat ChatRef, text string, markup any) (int, error)
	// SendPhoto sends a photo by file id with a caption.
	SendPhoto(chat ChatRef, fileID, caption string, markup any) (int, error)
	// SendVideo uploads a video by file id with a caption and returns
	// the destination message id, the unit of the fan-out bookkeeping.
	SendVideo(chat ChatRef, fileID, caption string) (int, error)
	// CopyMessage re-sends a stored message to a user without a
	// forward header.  protect forbids saving and forwarding.
	CopyMessage(to ChatRef, from ChatRef, messageID int, protect bool) error
	// EditCaption rewrites the caption of an already published post.
	EditCaption(chat ChatRef, messageID int, caption string, markup any) error
	// MemberStatus looks up the user's membership status in a chat.
	MemberStatus(chat ChatRef, userID int64) (string, error)
	// AnswerCallback acknowledges an inline-button press.
	AnswerCallback(callbackID, text string) error
}
