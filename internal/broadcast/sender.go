// Package broadcast fans one admin message out to an audience
// partition of bot users.
package broadcast

import (
	"context"
	"log"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// AudienceSource yields the Telegram ids of a broadcast partition.
type AudienceSource interface {
	TelegramIDs(ctx context.Context, aud repository.Audience) ([]int64, error)
}

// Messenger is the sending slice of the messaging API.
type Messenger interface {
	SendText(chat telegram.ChatRef, text string, markup any) (int, error)
	CopyMessage(to telegram.ChatRef, from telegram.ChatRef, messageID int, protect bool) error
}

// Summary reports one finished run.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Job is one requested broadcast.  A media job copies the admin's
// original message; a text job sends Text directly.
type Job struct {
	Audience   repository.Audience `json:"audience"`
	Text       string              `json:"text,omitempty"`
	FromChatID int64               `json:"from_chat_id,omitempty"`
	MessageID  int                 `json:"message_id,omitempty"`
}

// Media reports whether the job carries a copied message rather than
// plain text.
func (j Job) Media() bool { return j.MessageID != 0 }

// Sender runs broadcast jobs sequentially with a fixed inter-send
// delay so the platform's rate limits are respected.  Per-recipient
// failures are counted, never retried, and never abort the run.
type Sender struct {
	users AudienceSource
	api   Messenger
	delay time.Duration
}

// NewSender constructs a Sender.  delay is the pause between sends.
func NewSender(users AudienceSource, api Messenger, delay time.Duration) *Sender {
	return &Sender{users: users, api: api, delay: delay}
}

// Run executes one job and returns the delivery summary.  Cancelling
// the context stops the run early; already-attempted sends stay
// counted.
func (s *Sender) Run(ctx context.Context, job Job) (Summary, error) {
	ids, err := s.users.TelegramIDs(ctx, job.Audience)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: len(ids)}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := s.deliver(id, job); err != nil {
			log.Printf("[broadcast] send to %d: %v", id, err)
			sum.Failed++
		} else {
			sum.Success++
		}
		if s.delay > 0 && i < len(ids)-1 {
			time.Sleep(s.delay)
		}
	}
	return sum, nil
}

func (s *Sender) deliver(userID int64, job Job) error {
	if job.Media() {
		return s.api.CopyMessage(telegram.ChatID(userID),
			telegram.ChatID(job.FromChatID), job.MessageID, false)
	}
	_, err := s.api.SendText(telegram.ChatID(userID), job.Text, nil)
	return err
}
