package model

// BotSettings is the single-row table of free-form bot texts and
// operator contact points editable from the dashboard.
type BotSettings struct {
	WelcomeMessage  string // shown on /start without a deep link
	AboutBot        string // "about" menu text
	SupportUsername string // @username users are pointed at
	AdminChatID     string // chat that receives operational notices
}
