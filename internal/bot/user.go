package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// handleUserMessage serves content retrieval and the premium menu.
func (b *Bot) handleUserMessage(ctx context.Context, ev Event, user *model.User, action Action) error {
	switch action {
	case ActionStart:
		return b.handleStart(ctx, ev, user)
	case ActionPremium:
		return b.premiumMenu(ctx, ev, user)
	case ActionAbout:
		return b.aboutBot(ctx, ev)
	case ActionCancel:
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "❌ Bekor qilindi.", userMenu())
		return nil
	}

	// a photographed receipt buys premium manually
	if ev.PhotoFileID != "" {
		return b.receivedReceipt(ctx, ev, user)
	}

	if code, err := strconv.Atoi(strings.TrimSpace(ev.Text)); err == nil && code > 0 {
		return b.serveCode(ctx, ev, user, code, false)
	}

	b.reply(ev.ChatID, "🔢 Kino yoki serial olish uchun kodini yuboring.", userMenu())
	return nil
}

// handleStart greets, or resolves a deep link.  A bare numeric payload
// is a movie code and an "s"-prefixed payload is a series code; the
// prefix is the only thing that tells the two apart.
func (b *Bot) handleStart(ctx context.Context, ev Event, user *model.User) error {
	payload := startPayload(ev.Text)
	if payload == "" {
		text := fmt.Sprintf("👋 Assalomu alaykum, %s!\nKino olish uchun kodini yuboring.", ev.FirstName)
		if settings, err := b.d.Settings.Bot(ctx); err == nil && settings.WelcomeMessage != "" {
			text = settings.WelcomeMessage
		}
		b.reply(ev.ChatID, text, userMenu())
		return nil
	}

	series := strings.HasPrefix(payload, "s")
	code, err := strconv.Atoi(strings.TrimPrefix(payload, "s"))
	if err != nil || code <= 0 {
		b.reply(ev.ChatID, "⚠️ Havola noto'g'ri. Kodni qo'lda yuboring.", userMenu())
		return nil
	}
	return b.serveCode(ctx, ev, user, code, series)
}

// serveCode delivers the content behind a code, gated by the
// subscription check for non-premium users.  seriesHint is true when a
// deep link already told us the kind.
func (b *Bot) serveCode(ctx context.Context, ev Event, user *model.User, code int, seriesHint bool) error {
	if !user.PremiumActive(time.Now()) {
		res := b.d.Gate.CheckAll(ctx, ev.UserID)
		if !res.Satisfied {
			b.reply(ev.ChatID,
				"🔒 Botdan foydalanish uchun quyidagi kanallarga obuna bo'ling:",
				subscribeKeyboard(res.Unsatisfied))
			return nil
		}
	}

	if !seriesHint {
		if movie, err := b.d.Movies.GetByCode(ctx, code); err == nil {
			return b.deliverMovie(ctx, ev, user, movie)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	sr, err := b.d.Series.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		b.reply(ev.ChatID, "🔍 Bunday kod bo'yicha kontent topilmadi.", userMenu())
		return nil
	}
	if err != nil {
		return err
	}
	return b.offerSeries(ctx, ev, user, sr)
}

// deliverMovie copies the stored video to the user.  Copying from a
// storage channel keeps the original upload quality; the raw file id
// is the fallback when every stored location fails.
func (b *Bot) deliverMovie(ctx context.Context, ev Event, user *model.User, movie *model.Movie) error {
	caption := fmt.Sprintf("🎬 %s\n🎭 %s", movie.Title, movie.Genre)
	protect := !user.PremiumActive(time.Now())

	delivered := false
	for _, loc := range movie.VideoLocations {
		if err := b.d.API.CopyMessage(telegram.ChatID(ev.ChatID),
			telegram.ParseChatRef(loc.ChannelID), loc.MessageID, protect); err == nil {
			delivered = true
			break
		}
	}
	if !delivered && movie.VideoFileID != "" {
		if _, err := b.d.API.SendVideo(telegram.ChatID(ev.ChatID), movie.VideoFileID, caption); err != nil {
			b.reply(ev.ChatID, "⚠️ Videoni yuborib bo'lmadi, keyinroq urinib ko'ring.", userMenu())
			return err
		}
		delivered = true
	}
	if !delivered {
		b.reply(ev.ChatID, "⚠️ Videoni yuborib bo'lmadi, keyinroq urinib ko'ring.", userMenu())
		return nil
	}
	if err := b.d.Users.RecordWatch(ctx, user.ID, "MOVIE", movie.ID); err != nil {
		return err
	}
	return nil
}

// offerSeries sends the poster with a numbered episode keyboard.
func (b *Bot) offerSeries(ctx context.Context, ev Event, user *model.User, sr *model.Series) error {
	caption := fmt.Sprintf("📺 %s\n🎭 %s\n🎞 Qismlar: %d\n\nQismni tanlang:",
		sr.Title, sr.Genre, sr.TotalEpisodes)
	if _, err := b.d.API.SendPhoto(telegram.ChatID(ev.ChatID), sr.PosterFileID,
		caption, episodeKeyboard(sr.Code, sr.TotalEpisodes)); err != nil {
		return err
	}
	return b.d.Users.RecordWatch(ctx, user.ID, "SERIES", sr.ID)
}

// deliverEpisode copies one episode in response to a numbered button.
func (b *Bot) deliverEpisode(ctx context.Context, ev Event, user *model.User, code, number int) error {
	sr, err := b.d.Series.GetByCode(ctx, code)
	if err != nil {
		b.reply(ev.ChatID, "🔍 Serial topilmadi.", nil)
		return nil
	}
	episodes, err := b.d.Series.Episodes(ctx, sr.ID)
	if err != nil {
		return err
	}
	protect := !user.PremiumActive(time.Now())
	for _, ep := range episodes {
		if ep.EpisodeNumber != number {
			continue
		}
		for _, loc := range ep.VideoLocations {
			if err := b.d.API.CopyMessage(telegram.ChatID(ev.ChatID),
				telegram.ParseChatRef(loc.ChannelID), loc.MessageID, protect); err == nil {
				return nil
			}
		}
		caption := fmt.Sprintf("%s | %d-qism", sr.Title, number)
		_, err := b.d.API.SendVideo(telegram.ChatID(ev.ChatID), ep.VideoFileID, caption)
		return err
	}
	b.reply(ev.ChatID, "⚠️ Bunday qism topilmadi.", nil)
	return nil
}

// premiumMenu shows the tiers, the manual-transfer card and the
// checkout buttons.
func (b *Bot) premiumMenu(ctx context.Context, ev Event, user *model.User) error {
	if user.PremiumActive(time.Now()) {
		b.reply(ev.ChatID,
			fmt.Sprintf("💎 Premium faol: %s gacha.", user.PremiumExpires.Format("2006-01-02")),
			userMenu())
		return nil
	}
	settings, err := b.d.Settings.Premium(ctx)
	if err != nil {
		b.reply(ev.ChatID, "⚠️ Narxlarni olib bo'lmadi, keyinroq urinib ko'ring.", userMenu())
		return err
	}
	text := fmt.Sprintf(
		"💎 Premium obuna — majburiy kanallarsiz foydalanish.\n\n💳 Karta orqali to'lov:\n%s (%s)\nTo'lov chekini rasm qilib yuboring.\n\nYoki Payme orqali to'lang:",
		settings.CardNumber, settings.CardHolder)
	b.reply(ev.ChatID, text, premiumKeyboard(settings))
	return nil
}

func (b *Bot) aboutBot(ctx context.Context, ev Event) error {
	settings, err := b.d.Settings.Bot(ctx)
	if err != nil || settings.AboutBot == "" {
		b.reply(ev.ChatID, "🎬 Kod orqali kino va seriallar yetkazib beruvchi bot.", userMenu())
		return nil
	}
	text := settings.AboutBot
	if settings.SupportUsername != "" {
		text += "\n\n☎️ Aloqa: @" + strings.TrimPrefix(settings.SupportUsername, "@")
	}
	b.reply(ev.ChatID, text, userMenu())
	return nil
}

// receivedReceipt stores a pending manual payment and forwards the
// receipt to the admin chat for review.
func (b *Bot) receivedReceipt(ctx context.Context, ev Event, user *model.User) error {
	settings, err := b.d.Settings.Premium(ctx)
	if err != nil {
		b.reply(ev.ChatID, "⚠️ To'lovni qabul qilib bo'lmadi, keyinroq urinib ko'ring.", userMenu())
		return err
	}
	pay := &model.Payment{
		UserID:        user.ID,
		Amount:        settings.MonthlyPrice,
		DurationDays:  30,
		Status:        model.PaymentPending,
		ReceiptFileID: ev.PhotoFileID,
	}
	if err := b.d.Payments.Create(ctx, pay); err != nil {
		b.reply(ev.ChatID, "⚠️ To'lovni qabul qilib bo'lmadi, keyinroq urinib ko'ring.", userMenu())
		return err
	}

	if bs, err := b.d.Settings.Bot(ctx); err == nil && bs.AdminChatID != "" {
		caption := fmt.Sprintf("🧾 Yangi to'lov cheki\n👤 %s (@%s)\n🆔 %d",
			user.FirstName, user.Username, user.TelegramID)
		if _, err := b.d.API.SendPhoto(telegram.ParseChatRef(bs.AdminChatID),
			ev.PhotoFileID, caption, reviewKeyboard(pay.ID)); err != nil {
			return err
		}
	}
	b.reply(ev.ChatID, "🧾 Chek qabul qilindi. Admin tasdiqlagach premium yoqiladi.", userMenu())
	return nil
}
