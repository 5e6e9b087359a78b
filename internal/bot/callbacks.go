package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// handleCallback routes inline-button presses.  Every press is
// acknowledged so the client stops its spinner even when the data is
// stale.
func (b *Bot) handleCallback(ctx context.Context, ev Event, user *model.User, admin *model.Admin) error {
	if err := b.d.API.AnswerCallback(ev.CallbackID, ""); err != nil {
		log.Printf("[bot] answer callback: %v", err)
	}

	data := ev.CallbackData
	switch {
	case data == cbCheckSub:
		return b.recheckSubscription(ctx, ev)
	case strings.HasPrefix(data, cbEpPrefix):
		return b.episodeCallback(ctx, ev, user, data)
	case strings.HasPrefix(data, cbBuyPrefix):
		return b.buyCallback(ctx, ev, user, data)
	}

	if admin == nil {
		return nil
	}
	switch {
	case data == cbEpMore:
		b.reply(ev.ChatID, "🎞 Keyingi qism videosini yuboring:", nil)
		return nil
	case data == cbEpDone:
		return b.finishEpisodes(ctx, ev)
	case data == cbPublishYes || data == cbPublishNo:
		return b.publishCallback(ctx, ev, data == cbPublishYes)
	case data == cbSwitchAdd:
		return b.switchToAppendCallback(ctx, ev)
	case data == cbAudAll || data == cbAudPremium || data == cbAudFree:
		return b.audienceCallback(ev, data)
	case strings.HasPrefix(data, cbPayPrefix):
		return b.reviewCallback(ctx, ev, admin, data)
	}
	return nil
}

func (b *Bot) recheckSubscription(ctx context.Context, ev Event) error {
	res := b.d.Gate.CheckAll(ctx, ev.UserID)
	if res.Satisfied {
		b.reply(ev.ChatID, "✅ Obuna tasdiqlandi! Endi kodni yuboring.", userMenu())
		return nil
	}
	b.reply(ev.ChatID, "🔒 Hali hamma kanallarga obuna bo'lmadingiz:", subscribeKeyboard(res.Unsatisfied))
	return nil
}

func (b *Bot) episodeCallback(ctx context.Context, ev Event, user *model.User, data string) error {
	parts := strings.Split(strings.TrimPrefix(data, cbEpPrefix), ":")
	if len(parts) != 2 {
		return nil
	}
	code, err1 := strconv.Atoi(parts[0])
	number, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	return b.deliverEpisode(ctx, ev, user, code, number)
}

func (b *Bot) buyCallback(ctx context.Context, ev Event, user *model.User, data string) error {
	days, err := strconv.Atoi(strings.TrimPrefix(data, cbBuyPrefix))
	if err != nil {
		return nil
	}
	settings, err := b.d.Settings.Premium(ctx)
	if err != nil {
		b.reply(ev.ChatID, "⚠️ Narxlarni olib bo'lmadi, keyinroq urinib ko'ring.", nil)
		return err
	}
	var amount int64
	switch days {
	case 30:
		amount = settings.MonthlyPrice
	case 90:
		amount = settings.ThreeMonthPrice
	case 180:
		amount = settings.SixMonthPrice
	case 365:
		amount = settings.YearlyPrice
	default:
		return nil
	}
	link := b.d.Checkout.CheckoutLink(user.ID, amount)
	b.reply(ev.ChatID, fmt.Sprintf("💳 To'lov uchun havola (%d so'm):\n%s", amount, link), nil)
	return nil
}

// finishEpisodes ends the repeating upload step of whichever series
// workflow is live.
func (b *Bot) finishEpisodes(ctx context.Context, ev Event) error {
	sess := b.d.Sessions.Get(ev.UserID)
	if sess == nil {
		return nil
	}
	switch sess.Kind {
	case session.WorkflowAddSeries:
		b.seriesFinish(ev, sess.Data.(*session.SeriesDraft))
		return nil
	case session.WorkflowAppendEpisodes:
		return b.appendCommit(ctx, ev, sess.Data.(*session.AppendDraft))
	}
	return nil
}

func (b *Bot) publishCallback(ctx context.Context, ev Event, publish bool) error {
	sess := b.d.Sessions.Get(ev.UserID)
	if sess == nil || sess.Kind != session.WorkflowAddSeries {
		return nil
	}
	draft := sess.Data.(*session.SeriesDraft)
	if draft.Step != session.SeriesStepPublish {
		return nil
	}
	return b.seriesCommit(ctx, ev, draft, publish)
}

// switchToAppendCallback converts a duplicate-code series dialogue
// into the append workflow for that code.
func (b *Bot) switchToAppendCallback(ctx context.Context, ev Event) error {
	sess := b.d.Sessions.Get(ev.UserID)
	if sess == nil || sess.Kind != session.WorkflowAddSeries {
		return nil
	}
	code := sess.Data.(*session.SeriesDraft).Code
	sr, err := b.d.Series.GetByCode(ctx, code)
	if err != nil {
		b.d.Sessions.Clear(ev.UserID)
		b.reply(ev.ChatID, "⚠️ Serialni olib bo'lmadi, jarayon bekor qilindi.", adminMenu())
		return err
	}
	b.d.Sessions.Start(ev.UserID, session.WorkflowAppendEpisodes, &session.AppendDraft{
		Step:       session.AppendStepEpisodes,
		SeriesID:   sr.ID,
		Code:       sr.Code,
		NextNumber: sr.TotalEpisodes + 1,
	})
	b.reply(ev.ChatID, fmt.Sprintf("🎞 \"%s\" uchun %d-qism videosini yuboring:", sr.Title, sr.TotalEpisodes+1), cancelKeyboard())
	return nil
}

func (b *Bot) audienceCallback(ev Event, data string) error {
	sess := b.d.Sessions.Get(ev.UserID)
	if sess == nil || sess.Kind != session.WorkflowBroadcast {
		return nil
	}
	draft := sess.Data.(*session.BroadcastDraft)
	switch data {
	case cbAudAll:
		b.pickAudience(ev, draft, repository.AudienceAll)
	case cbAudPremium:
		b.pickAudience(ev, draft, repository.AudiencePremium)
	case cbAudFree:
		b.pickAudience(ev, draft, repository.AudienceFree)
	}
	return nil
}

// reviewCallback settles a manual receipt from the admin chat.
func (b *Bot) reviewCallback(ctx context.Context, ev Event, admin *model.Admin, data string) error {
	parts := strings.Split(strings.TrimPrefix(data, cbPayPrefix), ":")
	if len(parts) != 2 {
		return nil
	}
	paymentID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil
	}

	var pay *model.Payment
	var verdict string
	switch parts[0] {
	case "approve":
		pay, err = b.d.Reviewer.Approve(ctx, paymentID, admin.ID)
		verdict = "✅ To'lov tasdiqlandi, premium yoqildi."
	case "reject":
		pay, err = b.d.Reviewer.Reject(ctx, paymentID, admin.ID)
		verdict = "❌ To'lov rad etildi."
	default:
		return nil
	}
	if err != nil {
		b.reply(ev.ChatID, "⚠️ To'lov allaqachon ko'rib chiqilgan yoki topilmadi.", nil)
		return nil
	}
	b.reply(ev.ChatID, verdict, nil)
	b.notifyPaymentUser(ctx, pay, parts[0] == "approve")
	return nil
}

func (b *Bot) notifyPaymentUser(ctx context.Context, pay *model.Payment, approved bool) {
	// best effort: the payer may have blocked the bot
	userText := "❌ To'lovingiz rad etildi. Admin bilan bog'laning."
	if approved {
		userText = fmt.Sprintf("🎉 To'lovingiz tasdiqlandi! Premium %d kunga yoqildi.", pay.DurationDays)
	}
	if payer, err := b.d.Users.GetByID(ctx, pay.UserID); err == nil {
		if _, err := b.d.API.SendText(telegram.ChatID(payer.TelegramID), userText, nil); err != nil {
			log.Printf("[bot] notify payer %d: %v", payer.TelegramID, err)
		}
	}
}
