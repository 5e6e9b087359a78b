package repository // repositories for single-row settings tables

import (
	"context"
	"database/sql"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// SettingsRepo manages the two single-row settings tables: premium
// pricing/card details and the bot's free-form texts.  Both tables are
// seeded by the schema migration, so reads never miss.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo constructs a SettingsRepo given a DB handle.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Premium returns the current premium prices and card details.
func (r *SettingsRepo) Premium(ctx context.Context) (*model.PremiumSettings, error) {
	const q = `SELECT monthly_price, three_month_price, six_month_price,
		yearly_price, card_number, card_holder
		FROM premium_settings WHERE id = 1`
	var s model.PremiumSettings
	err := r.db.QueryRowContext(ctx, q).Scan(&s.MonthlyPrice,
		&s.ThreeMonthPrice, &s.SixMonthPrice, &s.YearlyPrice,
		&s.CardNumber, &s.CardHolder)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdatePrices replaces the four premium tier prices.
func (r *SettingsRepo) UpdatePrices(ctx context.Context, s *model.PremiumSettings) error {
	const q = `UPDATE premium_settings
		SET monthly_price = ?, three_month_price = ?, six_month_price = ?, yearly_price = ?
		WHERE id = 1`
	_, err := r.db.ExecContext(ctx, q, s.MonthlyPrice, s.ThreeMonthPrice,
		s.SixMonthPrice, s.YearlyPrice)
	return err
}

// UpdateCard replaces the manual-transfer card details.
func (r *SettingsRepo) UpdateCard(ctx context.Context, number, holder string) error {
	const q = `UPDATE premium_settings SET card_number = ?, card_holder = ? WHERE id = 1`
	_, err := r.db.ExecContext(ctx, q, number, holder)
	return err
}

// Bot returns the bot's free-form texts and operator contacts.
func (r *SettingsRepo) Bot(ctx context.Context) (*model.BotSettings, error) {
	const q = `SELECT welcome_message, about_bot, support_username, admin_chat_id
		FROM bot_settings WHERE id = 1`
	var s model.BotSettings
	err := r.db.QueryRowContext(ctx, q).Scan(&s.WelcomeMessage, &s.AboutBot,
		&s.SupportUsername, &s.AdminChatID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateBot replaces the bot texts wholesale.
func (r *SettingsRepo) UpdateBot(ctx context.Context, s *model.BotSettings) error {
	const q = `UPDATE bot_settings
		SET welcome_message = ?, about_bot = ?, support_username = ?, admin_chat_id = ?
		WHERE id = 1`
	_, err := r.db.ExecContext(ctx, q, s.WelcomeMessage, s.AboutBot,
		s.SupportUsername, s.AdminChatID)
	return err
}
