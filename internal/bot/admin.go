package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
)

// handleAdminMessage routes an admin's message.  It reports handled =
// false when the input is not an admin concern so the user path (code
// retrieval) still works for admins.
func (b *Bot) handleAdminMessage(ctx context.Context, ev Event, admin *model.Admin, action Action) (bool, error) {
	if action == ActionCancel {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "❌ Bekor qilindi.", adminMenu())
		return true, nil
	}

	if sess := b.d.Sessions.Get(ev.UserID); sess != nil {
		return true, b.handleWorkflowInput(ctx, ev, sess, action)
	}

	switch action {
	case ActionAdminPanel:
		b.reply(ev.ChatID, "🛠 Admin panel", adminMenu())
	case ActionAddMovie:
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddMovie, &session.MovieDraft{})
		b.reply(ev.ChatID, "🎬 Kino kodini kiriting:", cancelKeyboard())
	case ActionAddSeries:
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddSeries, &session.SeriesDraft{})
		b.reply(ev.ChatID, "📺 Serial kodini kiriting:", cancelKeyboard())
	case ActionAppendEpisodes:
		b.d.Sessions.Start(ev.UserID, session.WorkflowAppendEpisodes, &session.AppendDraft{})
		b.reply(ev.ChatID, "➕ Qism qo'shiladigan serial kodini kiriting:", cancelKeyboard())
	case ActionAttachVideo:
		b.d.Sessions.Start(ev.UserID, session.WorkflowAttachVideo, &session.AttachDraft{})
		b.reply(ev.ChatID, "🎞 Video biriktiriladigan kino kodini kiriting:", cancelKeyboard())
	case ActionAddField:
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddField, &session.FieldDraft{})
		b.reply(ev.ChatID, "🗂 Yangi bo'lim nomini kiriting:", cancelKeyboard())
	case ActionAddMandatory:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddMandatory, &session.ChannelDraft{})
		b.reply(ev.ChatID, "📢 Kanal ID sini kiriting (masalan: -1001234567890 yoki @kanal):", cancelKeyboard())
	case ActionAddStorage:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddStorage, &session.ChannelDraft{})
		b.reply(ev.ChatID, "💾 Baza kanal ID sini kiriting:", cancelKeyboard())
	case ActionAddAdmin:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowAddAdmin, &session.AdminDraft{})
		b.reply(ev.ChatID, "👤 Yangi adminning Telegram ID sini kiriting:", cancelKeyboard())
	case ActionEditPrices:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowEditPrices, &session.PricesDraft{})
		b.reply(ev.ChatID, "💰 1 oylik narxni kiriting (so'mda):", cancelKeyboard())
	case ActionEditCard:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowEditCard, &session.CardDraft{})
		b.reply(ev.ChatID, "💳 Yangi karta raqamini kiriting:", cancelKeyboard())
	case ActionBroadcast:
		if !b.requireSuperAdmin(ev, admin) {
			return true, nil
		}
		b.d.Sessions.Start(ev.UserID, session.WorkflowBroadcast, &session.BroadcastDraft{})
		b.reply(ev.ChatID, "📣 Kimga yuborilsin?", audienceChoice())
	case ActionStats:
		return true, b.sendStats(ctx, ev)
	default:
		return false, nil
	}
	return true, nil
}

func (b *Bot) requireSuperAdmin(ev Event, admin *model.Admin) bool {
	if admin.Role == model.RoleSuperAdmin {
		return true
	}
	b.reply(ev.ChatID, "⛔️ Bu amal faqat bosh admin uchun.", adminMenu())
	return false
}

// handleWorkflowInput routes a message into the owner's live workflow.
func (b *Bot) handleWorkflowInput(ctx context.Context, ev Event, sess *session.Session, action Action) error {
	switch sess.Kind {
	case session.WorkflowAddMovie:
		return b.movieStep(ctx, ev, sess.Data.(*session.MovieDraft), action)
	case session.WorkflowAddSeries:
		return b.seriesStep(ctx, ev, sess.Data.(*session.SeriesDraft), action)
	case session.WorkflowAppendEpisodes:
		return b.appendStep(ctx, ev, sess.Data.(*session.AppendDraft))
	case session.WorkflowAttachVideo:
		return b.attachStep(ctx, ev, sess.Data.(*session.AttachDraft))
	case session.WorkflowAddField:
		return b.fieldStep(ctx, ev, sess.Data.(*session.FieldDraft))
	case session.WorkflowAddMandatory:
		return b.mandatoryStep(ctx, ev, sess.Data.(*session.ChannelDraft))
	case session.WorkflowAddStorage:
		return b.storageStep(ctx, ev, sess.Data.(*session.ChannelDraft))
	case session.WorkflowAddAdmin:
		return b.addAdminStep(ctx, ev, sess.Data.(*session.AdminDraft))
	case session.WorkflowEditPrices:
		return b.pricesStep(ctx, ev, sess.Data.(*session.PricesDraft))
	case session.WorkflowEditCard:
		return b.cardStep(ctx, ev, sess.Data.(*session.CardDraft))
	case session.WorkflowBroadcast:
		return b.broadcastStep(ctx, ev, sess.Data.(*session.BroadcastDraft))
	}
	b.d.Sessions.Clear(ev.UserID)
	return fmt.Errorf("unknown workflow %q", sess.Kind)
}

func (b *Bot) sendStats(ctx context.Context, ev Event) error {
	stats, err := b.d.Users.Stats(ctx)
	if err != nil {
		b.reply(ev.ChatID, "⚠️ Statistika olinmadi, keyinroq urinib ko'ring.", adminMenu())
		return err
	}
	text := fmt.Sprintf(
		"📊 Statistika\n\n👥 Foydalanuvchilar: %d\n💎 Premium: %d\n🚫 Bloklangan: %d\n🎬 Kinolar: %d\n📺 Seriallar: %d\n▶️ Bugungi ko'rishlar: %d",
		stats.TotalUsers, stats.PremiumUsers, stats.BlockedUsers,
		stats.TotalMovies, stats.TotalSerials, stats.WatchesToday)
	b.reply(ev.ChatID, text, adminMenu())
	return nil
}

// attachStep replaces a committed movie's video: first the code, then
// the new video file.
func (b *Bot) attachStep(ctx context.Context, ev Event, draft *session.AttachDraft) error {
	if draft.MovieCode == 0 {
		code, err := strconv.Atoi(strings.TrimSpace(ev.Text))
		if err != nil || code <= 0 {
			b.reply(ev.ChatID, "⚠️ Kod musbat son bo'lishi kerak. Qaytadan kiriting:", nil)
			return nil
		}
		movie, err := b.d.Movies.GetByCode(ctx, code)
		if err != nil {
			b.reply(ev.ChatID, "🔍 Bunday kodli kino topilmadi. Qaytadan kiriting:", nil)
			return nil
		}
		if movie.VideoFileID != "" {
			b.reply(ev.ChatID, "⚠️ Bu kinoda allaqachon video bor. Boshqa kod kiriting:", nil)
			return nil
		}
		draft.MovieCode = code
		b.reply(ev.ChatID, "🎞 Yangi videoni yuboring:", nil)
		return nil
	}

	if ev.VideoFileID == "" {
		b.reply(ev.ChatID, "⚠️ Video kutilmoqda. Videoni yuboring:", nil)
		return nil
	}
	movie, err := b.d.Movies.GetByCode(ctx, draft.MovieCode)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Kino topilmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	if err := b.d.Movies.AttachVideo(ctx, movie.ID, ev.VideoFileID, movie.VideoLocations); err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Video saqlanmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	b.d.Sessions.Clear(ev.UserID)
	b.reply(ev.ChatID, "✅ Video biriktirildi.", adminMenu())
	return nil
}

func (b *Bot) fieldStep(ctx context.Context, ev Event, draft *session.FieldDraft) error {
	text := strings.TrimSpace(ev.Text)
	switch draft.Step {
	case 0:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Bo'lim nomi bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Name = text
		draft.Step++
		b.reply(ev.ChatID, "📡 Bo'lim kanalining ID sini kiriting:", nil)
	case 1:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Kanal ID kutilmoqda. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelID = text
		draft.Step++
		b.reply(ev.ChatID, "🔗 Kanal havolasini kiriting:", nil)
	case 2:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Havola kutilmoqda. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelLink = text
		f := &model.Field{Name: draft.Name, ChannelID: draft.ChannelID, ChannelLink: draft.ChannelLink}
		if err := b.d.Fields.Create(ctx, f); err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Bo'lim saqlanmadi, jarayon bekor qilindi.", adminMenu())
			return err
		}
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, fmt.Sprintf("✅ \"%s\" bo'limi qo'shildi.", f.Name), adminMenu())
	}
	return nil
}

func (b *Bot) mandatoryStep(ctx context.Context, ev Event, draft *session.ChannelDraft) error {
	text := strings.TrimSpace(ev.Text)
	switch draft.Step {
	case 0:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Kanal ID kutilmoqda. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelID = strings.TrimPrefix(text, "@")
		draft.Step++
		b.reply(ev.ChatID, "📛 Kanal nomini kiriting:", nil)
	case 1:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Kanal nomi bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelName = text
		draft.Step++
		b.reply(ev.ChatID, "🔗 Kanal havolasini kiriting:", nil)
	case 2:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Havola kutilmoqda. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelLink = text
		draft.Step++
		b.reply(ev.ChatID, "🏷 Kanal turini kiriting: PUBLIC, PRIVATE yoki EXTERNAL", nil)
	case 3:
		kind := model.ChannelKind(strings.ToUpper(text))
		switch kind {
		case model.ChannelPublic, model.ChannelPrivate, model.ChannelExternal:
		default:
			b.reply(ev.ChatID, "⚠️ Tur PUBLIC, PRIVATE yoki EXTERNAL bo'lishi kerak:", nil)
			return nil
		}
		ch := &model.MandatoryChannel{
			ChannelID:   draft.ChannelID,
			ChannelName: draft.ChannelName,
			ChannelLink: draft.ChannelLink,
			Kind:        kind,
		}
		if err := b.d.Channels.CreateMandatory(ctx, ch); err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Kanal saqlanmadi, jarayon bekor qilindi.", adminMenu())
			return err
		}
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, fmt.Sprintf("✅ \"%s\" majburiy kanallarga qo'shildi.", ch.ChannelName), adminMenu())
	}
	return nil
}

func (b *Bot) storageStep(ctx context.Context, ev Event, draft *session.ChannelDraft) error {
	text := strings.TrimSpace(ev.Text)
	switch draft.Step {
	case 0:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Kanal ID kutilmoqda. Qaytadan kiriting:", nil)
			return nil
		}
		draft.ChannelID = text
		draft.Step++
		b.reply(ev.ChatID, "📛 Kanal nomini kiriting:", nil)
	case 1:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Kanal nomi bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		ch := &model.StorageChannel{ChannelID: draft.ChannelID, ChannelName: text}
		if err := b.d.Channels.CreateStorage(ctx, ch); err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Kanal saqlanmadi, jarayon bekor qilindi.", adminMenu())
			return err
		}
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, fmt.Sprintf("✅ \"%s\" baza kanallarga qo'shildi.", ch.ChannelName), adminMenu())
	}
	return nil
}

func (b *Bot) addAdminStep(ctx context.Context, ev Event, draft *session.AdminDraft) error {
	text := strings.TrimSpace(ev.Text)
	switch draft.Step {
	case 0:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil || id <= 0 {
			b.reply(ev.ChatID, "⚠️ Telegram ID son bo'lishi kerak. Qaytadan kiriting:", nil)
			return nil
		}
		draft.TelegramID = id
		draft.Step++
		b.reply(ev.ChatID, "👤 Admin uchun username kiriting:", nil)
	case 1:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Username bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		a := &model.Admin{
			TelegramID: draft.TelegramID,
			Username:   strings.TrimPrefix(text, "@"),
			Role:       model.RoleAdmin,
			CreatedBy:  ev.UserID,
		}
		if err := b.d.Admins.Create(ctx, a); err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Admin qo'shilmadi (ehtimol allaqachon mavjud).", adminMenu())
			return err
		}
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, fmt.Sprintf("✅ @%s admin qilib tayinlandi.", a.Username), adminMenu())
	}
	return nil
}

var priceLabels = [4]string{"1 oylik", "3 oylik", "6 oylik", "1 yillik"}

func (b *Bot) pricesStep(ctx context.Context, ev Event, draft *session.PricesDraft) error {
	price, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
	if err != nil || price <= 0 {
		b.reply(ev.ChatID, fmt.Sprintf("⚠️ %s narx musbat son bo'lishi kerak. Qaytadan kiriting:", priceLabels[draft.Step]), nil)
		return nil
	}
	draft.Prices[draft.Step] = price
	draft.Step++
	if draft.Step < len(draft.Prices) {
		b.reply(ev.ChatID, fmt.Sprintf("💰 %s narxni kiriting (so'mda):", priceLabels[draft.Step]), nil)
		return nil
	}

	s := &model.PremiumSettings{
		MonthlyPrice:    draft.Prices[0],
		ThreeMonthPrice: draft.Prices[1],
		SixMonthPrice:   draft.Prices[2],
		YearlyPrice:     draft.Prices[3],
	}
	if err := b.d.Settings.UpdatePrices(ctx, s); err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Narxlar saqlanmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	b.d.Sessions.Clear(ev.UserID)
	b.reply(ev.ChatID, "✅ Narxlar yangilandi.", adminMenu())
	return nil
}

func (b *Bot) cardStep(ctx context.Context, ev Event, draft *session.CardDraft) error {
	text := strings.TrimSpace(ev.Text)
	switch draft.Step {
	case 0:
		digits := strings.ReplaceAll(text, " ", "")
		if len(digits) != 16 {
			b.reply(ev.ChatID, "⚠️ Karta raqami 16 xonali bo'lishi kerak. Qaytadan kiriting:", nil)
			return nil
		}
		draft.Number = digits
		draft.Step++
		b.reply(ev.ChatID, "👤 Karta egasining ismini kiriting:", nil)
	case 1:
		if text == "" {
			b.reply(ev.ChatID, "⚠️ Ism bo'sh bo'lmasin. Qaytadan kiriting:", nil)
			return nil
		}
		if err := b.d.Settings.UpdateCard(ctx, draft.Number, text); err != nil {
			b.d.Sessions.Clear(ev.UserID)
			b.reply(ev.ChatID, "⚠️ Karta saqlanmadi, jarayon bekor qilindi.", adminMenu())
			return err
		}
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "✅ Karta ma'lumotlari yangilandi.", adminMenu())
	}
	return nil
}
