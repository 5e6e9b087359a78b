package bot

import "strings"

// Action is a decoded menu or command input.  Button labels and
// commands are matched here, once, so workflow handlers compare enum
// values instead of display strings.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionCancel
	ActionAdminPanel
	ActionAddMovie
	ActionAddSeries
	ActionAppendEpisodes
	ActionAttachVideo
	ActionAddField
	ActionAddMandatory
	ActionAddStorage
	ActionAddAdmin
	ActionEditPrices
	ActionEditCard
	ActionBroadcast
	ActionStats
	ActionPremium
	ActionAbout
	ActionSkip
)

// Reply-keyboard labels.  These are what the admin/user actually taps;
// decodeAction maps them back onto Action values.
const (
	btnCancel       = "❌ Bekor qilish"
	btnAddMovie     = "🎬 Kino qo'shish"
	btnAddSeries    = "📺 Serial qo'shish"
	btnAppend       = "➕ Qism qo'shish"
	btnAttachVideo  = "🎞 Video biriktirish"
	btnAddField     = "🗂 Bo'lim qo'shish"
	btnAddMandatory = "📢 Majburiy kanal"
	btnAddStorage   = "💾 Baza kanal"
	btnAddAdmin     = "👤 Admin qo'shish"
	btnEditPrices   = "💰 Narxlarni o'zgartirish"
	btnEditCard     = "💳 Kartani o'zgartirish"
	btnBroadcast    = "📣 Xabar yuborish"
	btnStats        = "📊 Statistika"
	btnPremium      = "💎 Premium"
	btnAbout        = "ℹ️ Bot haqida"
)

// skip sentinel for the optional description step
const skipToken = "next"

var textActions = map[string]Action{
	btnCancel:       ActionCancel,
	"/cancel":       ActionCancel,
	"/admin":        ActionAdminPanel,
	btnAddMovie:     ActionAddMovie,
	btnAddSeries:    ActionAddSeries,
	btnAppend:       ActionAppendEpisodes,
	btnAttachVideo:  ActionAttachVideo,
	btnAddField:     ActionAddField,
	btnAddMandatory: ActionAddMandatory,
	btnAddStorage:   ActionAddStorage,
	btnAddAdmin:     ActionAddAdmin,
	btnEditPrices:   ActionEditPrices,
	btnEditCard:     ActionEditCard,
	btnBroadcast:    ActionBroadcast,
	btnStats:        ActionStats,
	btnPremium:      ActionPremium,
	btnAbout:        ActionAbout,
}

// decodeAction maps raw message text onto an Action.  /start keeps its
// payload on the side (see startPayload).
func decodeAction(text string) Action {
	t := strings.TrimSpace(text)
	if t == "/start" || strings.HasPrefix(t, "/start ") {
		return ActionStart
	}
	if strings.EqualFold(t, skipToken) || t == "keyingi" {
		return ActionSkip
	}
	if a, ok := textActions[t]; ok {
		return a
	}
	return ActionNone
}

// startPayload extracts the deep-link payload from a /start command.
func startPayload(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "/start") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(t, "/start"))
}

// Callback data values for inline buttons.
const (
	cbCheckSub   = "check_sub"
	cbEpMore     = "ep_more"
	cbEpDone     = "ep_done"
	cbPublishYes = "publish_yes"
	cbPublishNo  = "publish_no"
	cbSwitchAdd  = "switch_append" // offer on duplicate series code
	cbAudAll     = "aud_all"
	cbAudPremium = "aud_premium"
	cbAudFree    = "aud_free"
	cbEpPrefix   = "ep:"  // ep:<code>:<number>
	cbBuyPrefix  = "buy:" // buy:<days>
	cbPayPrefix  = "pay:" // pay:approve:<id> / pay:reject:<id>
)
