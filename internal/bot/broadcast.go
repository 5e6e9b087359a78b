package bot

import (
	"context"
	"strings"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/broadcast"
	"github.com/otabek-dev/kinoteka-bot/internal/queue"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
)

// broadcastStep consumes the broadcast dialogue's single input: the
// message to fan out.  The audience is picked through inline buttons
// before this runs.
func (b *Bot) broadcastStep(ctx context.Context, ev Event, draft *session.BroadcastDraft) error {
	if !draft.AudiencePicked {
		b.reply(ev.ChatID, "📣 Avval auditoriyani tanlang:", audienceChoice())
		return nil
	}
	if strings.TrimSpace(ev.Text) == "" && ev.PhotoFileID == "" && ev.VideoFileID == "" {
		b.reply(ev.ChatID, "⚠️ Yuboriladigan xabar matni yoki media kutilmoqda:", nil)
		return nil
	}

	job := broadcast.Job{Audience: repository.Audience(draft.Audience)}
	if ev.PhotoFileID != "" || ev.VideoFileID != "" {
		job.FromChatID = ev.ChatID
		job.MessageID = ev.MessageID
	} else {
		job.Text = ev.Text
	}

	event := queue.BroadcastRequestedEvent{
		Job:         job,
		RequestedBy: ev.UserID,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := b.d.Publish(ctx, event); err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Xabar navbatga qo'yilmadi, keyinroq urinib ko'ring.", adminMenu())
		return err
	}
	b.d.Sessions.Clear(ev.UserID)
	b.reply(ev.ChatID, "📤 Xabar navbatga qo'yildi. Yakunida hisobot yuboriladi.", adminMenu())
	return nil
}

// pickAudience records the inline-button choice and asks for the
// message body.
func (b *Bot) pickAudience(ev Event, draft *session.BroadcastDraft, aud repository.Audience) {
	draft.Audience = string(aud)
	draft.AudiencePicked = true
	b.reply(ev.ChatID, "✍️ Yuboriladigan xabarni kiriting (matn yoki media):", cancelKeyboard())
}
