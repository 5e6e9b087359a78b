// Package bot implements the chat front end: update dispatch, the
// admin ingestion dialogues and user content retrieval.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Event is one normalized inbound update.  The raw platform update is
// decoded exactly once here; everything downstream works off this
// struct so handlers never touch transport types.
type Event struct {
	ChatID    int64
	UserID    int64
	FirstName string
	Username  string
	Lang      string
	MessageID int

	Text         string
	PhotoFileID  string // largest size of an attached photo
	VideoFileID  string
	CallbackID   string
	CallbackData string
}

// IsCallback reports whether the event is an inline-button press.
func (e Event) IsCallback() bool { return e.CallbackID != "" }

// FromUpdate normalizes a platform update.  The second return is false
// for update kinds this bot ignores (edits, channel posts, inline
// queries).
func FromUpdate(u tgbotapi.Update) (Event, bool) {
	if cb := u.CallbackQuery; cb != nil {
		ev := Event{
			UserID:       cb.From.ID,
			FirstName:    cb.From.FirstName,
			Username:     cb.From.UserName,
			Lang:         cb.From.LanguageCode,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}
		if cb.Message != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
		}
		return ev, true
	}

	msg := u.Message
	if msg == nil || msg.From == nil {
		return Event{}, false
	}
	ev := Event{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		Username:  msg.From.UserName,
		Lang:      msg.From.LanguageCode,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if ev.Text == "" {
		ev.Text = msg.Caption
	}
	if len(msg.Photo) > 0 {
		ev.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Video != nil {
		ev.VideoFileID = msg.Video.FileID
	}
	return ev, true
}
