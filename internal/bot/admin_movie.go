package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/otabek-dev/kinoteka-bot/internal/ingest"
	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
)

// movieStep advances the add-movie dialogue by one input.  Validation
// failures re-prompt the same step and never advance; fatal
// preconditions clear the session.
func (b *Bot) movieStep(ctx context.Context, ev Event, draft *session.MovieDraft, action Action) error {
	switch draft.Step {
	case session.MovieStepCode:
		return b.movieCode(ctx, ev, draft)
	case session.MovieStepTitle:
		if strings.TrimSpace(ev.Text) == "" {
			b.reply(ev.ChatID, "⚠️ Nomi bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Title = strings.TrimSpace(ev.Text)
		draft.Step = session.MovieStepGenre
		b.reply(ev.ChatID, "🎭 Janrini kiriting:", nil)
	case session.MovieStepGenre:
		if strings.TrimSpace(ev.Text) == "" {
			b.reply(ev.ChatID, "⚠️ Janr bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Genre = strings.TrimSpace(ev.Text)
		draft.Step = session.MovieStepDescription
		b.reply(ev.ChatID, "📝 Tavsif kiriting (o'tkazib yuborish uchun \"next\"):", nil)
	case session.MovieStepDescription:
		if action != ActionSkip {
			desc := strings.TrimSpace(ev.Text)
			if desc == "" {
				b.reply(ev.ChatID, "⚠️ Tavsif matn bo'lsin yoki \"next\" yuboring:", nil)
				return nil
			}
			draft.Description = &desc
		}
		draft.Step = session.MovieStepField
		return b.promptFieldChoice(ctx, ev, &draft.FieldChoices)
	case session.MovieStepField:
		fieldID, ok := resolveFieldChoice(ev.Text, draft.FieldChoices)
		if !ok {
			b.reply(ev.ChatID, "⚠️ Ro'yxatdagi bo'lim raqamini kiriting:", nil)
			return nil
		}
		draft.FieldID = fieldID
		draft.Step = session.MovieStepPoster
		b.reply(ev.ChatID, "🖼 Poster rasmini yuboring:", nil)
	case session.MovieStepPoster:
		if ev.PhotoFileID == "" {
			b.reply(ev.ChatID, "⚠️ Rasm kutilmoqda. Posterni yuboring:", nil)
			return nil
		}
		draft.PosterFileID = ev.PhotoFileID
		draft.Step = session.MovieStepVideo
		b.reply(ev.ChatID, "🎞 Kino videosini yuboring:", nil)
	case session.MovieStepVideo:
		return b.movieCommit(ctx, ev, draft)
	}
	return nil
}

func (b *Bot) movieCode(ctx context.Context, ev Event, draft *session.MovieDraft) error {
	code, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || code <= 0 {
		b.reply(ev.ChatID, "⚠️ Kod musbat son bo'lishi kerak. Qaytadan kiriting:", nil)
		return nil
	}
	free, err := b.d.Codes.IsAvailable(ctx, code)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Kodni tekshirib bo'lmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	if !free {
		b.reply(ev.ChatID, b.takenCodeMessage(ctx, code), nil)
		return nil
	}
	draft.Code = code
	draft.Step = session.MovieStepTitle
	b.reply(ev.ChatID, "✍️ Kino nomini kiriting:", nil)
	return nil
}

// takenCodeMessage lists the nearest free codes next to the rejection.
func (b *Bot) takenCodeMessage(ctx context.Context, code int) string {
	msg := fmt.Sprintf("⚠️ %d kodi band.", code)
	if near, err := b.d.Codes.FindNearestAvailable(ctx, code, 5); err == nil && len(near) > 0 {
		parts := make([]string, len(near))
		for i, c := range near {
			parts[i] = strconv.Itoa(c)
		}
		msg += " Bo'sh kodlar: " + strings.Join(parts, ", ")
	}
	return msg + "\nBoshqa kod kiriting:"
}

// promptFieldChoice renders the numbered field list and caches the
// snapshot in the draft so replies resolve against the same list.
func (b *Bot) promptFieldChoice(ctx context.Context, ev Event, choices *[]model.Field) error {
	fields, err := b.d.Fields.ListActive(ctx)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Bo'limlarni olib bo'lmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	if len(fields) == 0 {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Hali birorta bo'lim yo'q. Avval bo'lim qo'shing.", adminMenu())
		return nil
	}
	*choices = fields
	var sb strings.Builder
	sb.WriteString("🗂 Bo'limni tanlang (raqamini yuboring):\n")
	for i, f := range fields {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, f.Name)
	}
	b.reply(ev.ChatID, sb.String(), nil)
	return nil
}

// resolveFieldChoice maps a 1-based reply onto the cached list.
func resolveFieldChoice(text string, choices []model.Field) (uint64, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || idx < 1 || idx > len(choices) {
		return 0, false
	}
	return choices[idx-1].ID, true
}

func (b *Bot) movieCommit(ctx context.Context, ev Event, draft *session.MovieDraft) error {
	if ev.VideoFileID == "" {
		b.reply(ev.ChatID, "⚠️ Video kutilmoqda. Videoni yuboring:", nil)
		return nil
	}
	draft.VideoFileID = ev.VideoFileID

	movie, err := b.d.Ingest.CommitMovie(ctx, draft)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		switch {
		case errors.Is(err, ingest.ErrNoStorageChannels):
			b.reply(ev.ChatID, "⚠️ Birorta baza kanal sozlanmagan. Avval baza kanal qo'shing.", adminMenu())
			return nil
		case errors.Is(err, ingest.ErrAllUploadsFailed):
			b.reply(ev.ChatID, "⚠️ Video hech bir baza kanalga yuklanmadi. Jarayon bekor qilindi.", adminMenu())
			return nil
		case errors.Is(err, repository.ErrCodeTaken):
			b.reply(ev.ChatID, fmt.Sprintf("⚠️ %d kodi hozirgina band qilindi. Jarayonni qaytadan boshlang.", draft.Code), adminMenu())
			return nil
		}
		b.reply(ev.ChatID, "⚠️ Kino saqlanmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}

	b.d.Sessions.Clear(ev.UserID)
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ \"%s\" saqlandi. Kod: %d\n", movie.Title, movie.Code)
	for _, loc := range movie.VideoLocations {
		fmt.Fprintf(&sb, "💾 %s → xabar %d\n", loc.ChannelID, loc.MessageID)
	}
	b.reply(ev.ChatID, sb.String(), adminMenu())
	return nil
}
