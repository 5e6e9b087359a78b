package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/otabek-dev/kinoteka-bot/internal/ingest"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
)

// seriesStep advances the new-series dialogue by one input.  The
// prefix mirrors the movie workflow; from the poster on, episodes
// repeat until the admin taps finish.
func (b *Bot) seriesStep(ctx context.Context, ev Event, draft *session.SeriesDraft, action Action) error {
	switch draft.Step {
	case session.SeriesStepCode:
		return b.seriesCode(ctx, ev, draft)
	case session.SeriesStepTitle:
		if strings.TrimSpace(ev.Text) == "" {
			b.reply(ev.ChatID, "⚠️ Nomi bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Title = strings.TrimSpace(ev.Text)
		draft.Step = session.SeriesStepGenre
		b.reply(ev.ChatID, "🎭 Janrini kiriting:", nil)
	case session.SeriesStepGenre:
		if strings.TrimSpace(ev.Text) == "" {
			b.reply(ev.ChatID, "⚠️ Janr bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Genre = strings.TrimSpace(ev.Text)
		draft.Step = session.SeriesStepDescription
		b.reply(ev.ChatID, "📝 Tavsif kiriting (o'tkazib yuborish uchun \"next\"):", nil)
	case session.SeriesStepDescription:
		if action != ActionSkip {
			desc := strings.TrimSpace(ev.Text)
			if desc == "" {
				b.reply(ev.ChatID, "⚠️ Tavsif matn bo'lsin yoki \"next\" yuboring:", nil)
				return nil
			}
			draft.Description = &desc
		}
		draft.Step = session.SeriesStepField
		return b.promptFieldChoice(ctx, ev, &draft.FieldChoices)
	case session.SeriesStepField:
		fieldID, ok := resolveFieldChoice(ev.Text, draft.FieldChoices)
		if !ok {
			b.reply(ev.ChatID, "⚠️ Ro'yxatdagi bo'lim raqamini kiriting:", nil)
			return nil
		}
		draft.FieldID = fieldID
		draft.Step = session.SeriesStepPoster
		b.reply(ev.ChatID, "🖼 Serial posterini yuboring:", nil)
	case session.SeriesStepPoster:
		if ev.PhotoFileID == "" {
			b.reply(ev.ChatID, "⚠️ Rasm kutilmoqda. Posterni yuboring:", nil)
			return nil
		}
		draft.PosterFileID = ev.PhotoFileID
		draft.Step = session.SeriesStepEpisodes
		b.reply(ev.ChatID, "🎞 1-qism videosini yuboring:", nil)
	case session.SeriesStepEpisodes:
		return b.seriesEpisode(ev, draft)
	case session.SeriesStepPublish:
		// flow is driven by the publish_yes / publish_no buttons;
		// plain text just re-prompts
		b.reply(ev.ChatID, "📢 Kanalga joylansinmi?", publishChoice())
	}
	return nil
}

// seriesCode checks the shared namespace; a taken code that belongs to
// an existing serial offers switching into the append workflow.
func (b *Bot) seriesCode(ctx context.Context, ev Event, draft *session.SeriesDraft) error {
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
		if sr, err := b.d.Series.GetByCode(ctx, code); err == nil {
			draft.Code = sr.Code
			b.reply(ev.ChatID,
				fmt.Sprintf("⚠️ %d kodli serial allaqachon mavjud (\"%s\"). Unga qism qo'shasizmi?", sr.Code, sr.Title),
				switchToAppend())
			return nil
		}
		b.reply(ev.ChatID, b.takenCodeMessage(ctx, code), nil)
		return nil
	}
	draft.Code = code
	draft.Step = session.SeriesStepTitle
	b.reply(ev.ChatID, "✍️ Serial nomini kiriting:", nil)
	return nil
}

// seriesEpisode appends one uploaded video to the in-session list.
func (b *Bot) seriesEpisode(ev Event, draft *session.SeriesDraft) error {
	if ev.VideoFileID == "" {
		b.reply(ev.ChatID, "⚠️ Video kutilmoqda. Qism videosini yuboring:", nil)
		return nil
	}
	num := len(draft.Episodes) + 1
	draft.Episodes = append(draft.Episodes, session.EpisodeDraft{
		Number:      num,
		VideoFileID: ev.VideoFileID,
	})
	b.reply(ev.ChatID, fmt.Sprintf("✅ %d-qism qabul qilindi.", num), episodeControls())
	return nil
}

// seriesFinish moves the dialogue to the publish question; commit
// happens once the admin answers it.
func (b *Bot) seriesFinish(ev Event, draft *session.SeriesDraft) {
	if len(draft.Episodes) == 0 {
		b.reply(ev.ChatID, "⚠️ Hali birorta qism yuborilmadi. Qism videosini yuboring:", nil)
		return
	}
	draft.Step = session.SeriesStepPublish
	b.reply(ev.ChatID, "📢 Serial posteri kanalga joylansinmi?", publishChoice())
}

func (b *Bot) seriesCommit(ctx context.Context, ev Event, draft *session.SeriesDraft, publish bool) error {
	sr, err := b.d.Ingest.CommitSeries(ctx, draft, publish)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		switch {
		case errors.Is(err, ingest.ErrNoStorageChannels):
			b.reply(ev.ChatID, "⚠️ Birorta baza kanal sozlanmagan. Avval baza kanal qo'shing.", adminMenu())
			return nil
		case errors.Is(err, ingest.ErrAllUploadsFailed):
			b.reply(ev.ChatID, "⚠️ Qism videolari baza kanallarga yuklanmadi. Jarayon bekor qilindi.", adminMenu())
			return nil
		case errors.Is(err, repository.ErrCodeTaken):
			b.reply(ev.ChatID, fmt.Sprintf("⚠️ %d kodi hozirgina band qilindi. Jarayonni qaytadan boshlang.", draft.Code), adminMenu())
			return nil
		}
		b.reply(ev.ChatID, "⚠️ Serial saqlanmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	b.d.Sessions.Clear(ev.UserID)
	b.reply(ev.ChatID,
		fmt.Sprintf("✅ \"%s\" saqlandi. Kod: %d, qismlar: %d", sr.Title, sr.Code, sr.TotalEpisodes),
		adminMenu())
	return nil
}

// appendStep drives the append-episode workflow: an existing code,
// then repeated uploads numbered from the series' current tail.
func (b *Bot) appendStep(ctx context.Context, ev Event, draft *session.AppendDraft) error {
	switch draft.Step {
	case session.AppendStepCode:
		code, err := strconv.Atoi(strings.TrimSpace(ev.Text))
		if err != nil || code <= 0 {
			b.reply(ev.ChatID, "⚠️ Kod musbat son bo'lishi kerak. Qaytadan kiriting:", nil)
			return nil
		}
		sr, err := b.d.Series.GetByCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			b.reply(ev.ChatID, "🔍 Bunday kodli serial topilmadi. Qaytadan kiriting:", nil)
			return nil
		}
		if err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Serialni olib bo'lmadi, jarayon bekor qilindi.", adminMenu())
			return err
		}
		draft.SeriesID = sr.ID
		draft.Code = sr.Code
		draft.NextNumber = sr.TotalEpisodes + 1
		draft.Step = session.AppendStepEpisodes
		b.reply(ev.ChatID, fmt.Sprintf("🎞 \"%s\" uchun %d-qism videosini yuboring:", sr.Title, draft.NextNumber), nil)
	case session.AppendStepEpisodes:
		if ev.VideoFileID == "" {
			b.reply(ev.ChatID, "⚠️ Video kutilmoqda. Qism videosini yuboring:", nil)
			return nil
		}
		draft.Episodes = append(draft.Episodes, session.EpisodeDraft{
			Number:      draft.NextNumber,
			VideoFileID: ev.VideoFileID,
		})
		b.reply(ev.ChatID, fmt.Sprintf("✅ %d-qism qabul qilindi.", draft.NextNumber), episodeControls())
		draft.NextNumber++
	}
	return nil
}

func (b *Bot) appendCommit(ctx context.Context, ev Event, draft *session.AppendDraft) error {
	if len(draft.Episodes) == 0 {
		b.reply(ev.ChatID, "⚠️ Hali birorta qism yuborilmadi.", nil)
		return nil
	}
	sr, err := b.d.Series.GetByCode(ctx, draft.Code)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Serialni olib bo'lmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	if err := b.d.Ingest.AppendEpisodes(ctx, sr, draft.Episodes); err != nil {
		b.d.Sessions.Clear(ev.UserID)
		switch {
		case errors.Is(err, ingest.ErrNoStorageChannels):
			b.reply(ev.ChatID, "⚠️ Birorta baza kanal sozlanmagan. Avval baza kanal qo'shing.", adminMenu())
			return nil
		case errors.Is(err, ingest.ErrAllUploadsFailed):
			b.reply(ev.ChatID, "⚠️ Qism videolari baza kanallarga yuklanmadi. Jarayon bekor qilindi.", adminMenu())
			return nil
		}
		b.reply(ev.ChatID, "⚠️ Qismlar saqlanmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	b.d.Sessions.Clear(ev.UserID)
	b.reply(ev.ChatID,
		fmt.Sprintf("✅ %d ta qism qo'shildi. \"%s\" endi %d qism.", len(draft.Episodes), sr.Title, sr.TotalEpisodes),
		adminMenu())
	return nil
}
