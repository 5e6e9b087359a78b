package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddMovie),
			tgbotapi.NewKeyboardButton(btnAddSeries),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAppend),
			tgbotapi.NewKeyboardButton(btnAttachVideo),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddField),
			tgbotapi.NewKeyboardButton(btnAddMandatory),
			tgbotapi.NewKeyboardButton(btnAddStorage),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddAdmin),
			tgbotapi.NewKeyboardButton(btnEditPrices),
			tgbotapi.NewKeyboardButton(btnEditCard),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBroadcast),
			tgbotapi.NewKeyboardButton(btnStats),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func userMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPremium),
			tgbotapi.NewKeyboardButton(btnAbout),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// episodeControls is shown after each episode upload.
func episodeControls() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Yana qism", cbEpMore),
			tgbotapi.NewInlineKeyboardButtonData("✅ Tugatish", cbEpDone),
		),
	)
}

func publishChoice() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Ha, kanalga joylansin", cbPublishYes),
			tgbotapi.NewInlineKeyboardButtonData("❌ Yo'q", cbPublishNo),
		),
	)
}

func switchToAppend() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Qism qo'shishga o'tish", cbSwitchAdd),
		),
	)
}

func audienceChoice() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Hammaga", cbAudAll),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💎 Premium", cbAudPremium),
			tgbotapi.NewInlineKeyboardButtonData("🆓 Oddiy", cbAudFree),
		),
	)
}

// subscribeKeyboard lists the channels a user still has to join, in
// display order, with a final re-check button.
func subscribeKeyboard(unsatisfied []model.MandatoryChannel) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(unsatisfied)+1)
	for _, ch := range unsatisfied {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("➕ "+ch.ChannelName, ch.ChannelLink),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Tekshirish", cbCheckSub),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// episodeKeyboard renders numbered buttons for a series, eight per row.
func episodeKeyboard(code, total int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for n := 1; n <= total; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(n), fmt.Sprintf("%s%d:%d", cbEpPrefix, code, n)))
		if len(row) == 8 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// premiumKeyboard offers the four tiers as checkout buttons.
func premiumKeyboard(s *model.PremiumSettings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("1 oy — %d so'm", s.MonthlyPrice), cbBuyPrefix+"30"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("3 oy — %d so'm", s.ThreeMonthPrice), cbBuyPrefix+"90"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("6 oy — %d so'm", s.SixMonthPrice), cbBuyPrefix+"180"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("1 yil — %d so'm", s.YearlyPrice), cbBuyPrefix+"365"),
		),
	)
}

// reviewKeyboard is attached to a forwarded receipt in the admin chat.
func reviewKeyboard(paymentID uint64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(paymentID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Tasdiqlash", cbPayPrefix+"approve:"+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ Rad etish", cbPayPrefix+"reject:"+id),
		),
	)
}
