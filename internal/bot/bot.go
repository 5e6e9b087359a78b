package bot

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/queue"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/subscription"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// Persistence slices the dispatcher needs.  Each mirrors a repository
// so the whole bot can run against fakes in tests.

type UserStore interface {
	FindOrCreate(ctx context.Context, telegramID int64, firstName, username, lang string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	RecordWatch(ctx context.Context, userID uint64, contentKind string, contentID uint64) error
	Stats(ctx context.Context) (*repository.Stats, error)
}

type AdminStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}

type MovieStore interface {
	GetByCode(ctx context.Context, code int) (*model.Movie, error)
	AttachVideo(ctx context.Context, id uint64, fileID string, locs []model.VideoLocation) error
}

type SeriesStore interface {
	GetByCode(ctx context.Context, code int) (*model.Series, error)
	Episodes(ctx context.Context, seriesID uint64) ([]model.Episode, error)
}

type FieldStore interface {
	ListActive(ctx context.Context) ([]model.Field, error)
	Create(ctx context.Context, f *model.Field) error
}

type ChannelStore interface {
	CreateMandatory(ctx context.Context, ch *model.MandatoryChannel) error
	CreateStorage(ctx context.Context, ch *model.StorageChannel) error
}

type SettingsStore interface {
	Premium(ctx context.Context) (*model.PremiumSettings, error)
	UpdatePrices(ctx context.Context, s *model.PremiumSettings) error
	UpdateCard(ctx context.Context, number, holder string) error
	Bot(ctx context.Context) (*model.BotSettings, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
}

// Availability is the code-namespace query surface.
type Availability interface {
	IsAvailable(ctx context.Context, code int) (bool, error)
	FindNearestAvailable(ctx context.Context, requested, count int) ([]int, error)
}

// Committer performs the terminal workflow commits.
type Committer interface {
	CommitMovie(ctx context.Context, draft *session.MovieDraft) (*model.Movie, error)
	CommitSeries(ctx context.Context, draft *session.SeriesDraft, publish bool) (*model.Series, error)
	AppendEpisodes(ctx context.Context, sr *model.Series, drafts []session.EpisodeDraft) error
}

// Gatekeeper is the mandatory-subscription check.
type Gatekeeper interface {
	CheckAll(ctx context.Context, userID int64) subscription.Result
}

// PremiumReviewer settles photographed receipts.
type PremiumReviewer interface {
	Approve(ctx context.Context, paymentID, reviewerID uint64) (*model.Payment, error)
	Reject(ctx context.Context, paymentID, reviewerID uint64) (*model.Payment, error)
}

// CheckoutLinker mints hosted gateway checkout links.
type CheckoutLinker interface {
	CheckoutLink(userID uint64, amount int64) string
}

// Publisher schedules a broadcast job on the queue.
type Publisher func(ctx context.Context, ev queue.BroadcastRequestedEvent) error

// Deps bundles everything the dispatcher touches.
type Deps struct {
	API      telegram.API
	Sessions *session.Store

	Users    UserStore
	Admins   AdminStore
	Movies   MovieStore
	Series   SeriesStore
	Fields   FieldStore
	Channels ChannelStore
	Settings SettingsStore
	Payments PaymentStore

	Codes    Availability
	Ingest   Committer
	Gate     Gatekeeper
	Reviewer PremiumReviewer
	Checkout CheckoutLinker
	Publish  Publisher

	BotUsername string
	// Timeout bounds every external call made while handling one event.
	Timeout time.Duration
}

// Bot routes inbound events to the workflow and retrieval handlers.
type Bot struct {
	d Deps
}

// New constructs a Bot.  A zero Timeout defaults to 30 seconds.
func New(d Deps) *Bot {
	if d.Timeout == 0 {
		d.Timeout = 30 * time.Second
	}
	return &Bot{d: d}
}

// Run consumes the update channel until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, u)
		}
	}
}

// HandleUpdate processes one update end to end.  Handling for a given
// owner is serialized through the session store's per-owner lock, so a
// retried webhook cannot race a step handler.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	ev, ok := FromUpdate(u)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, b.d.Timeout)
	defer cancel()

	unlock := b.d.Sessions.LockOwner(ev.UserID)
	defer unlock()

	if err := b.dispatch(ctx, ev); err != nil {
		log.Printf("[bot] handle update from %d: %v", ev.UserID, err)
	}
}

func (b *Bot) dispatch(ctx context.Context, ev Event) error {
	user, err := b.d.Users.FindOrCreate(ctx, ev.UserID, ev.FirstName, ev.Username, ev.Lang)
	if err != nil {
		return err
	}

	admin, err := b.d.Admins.GetByTelegramID(ctx, ev.UserID)
	if err != nil && err != repository.ErrNotFound {
		return err
	}

	if ev.IsCallback() {
		return b.handleCallback(ctx, ev, user, admin)
	}

	action := decodeAction(ev.Text)
	if admin != nil {
		if handled, err := b.handleAdminMessage(ctx, ev, admin, action); handled || err != nil {
			return err
		}
	}
	return b.handleUserMessage(ctx, ev, user, action)
}

// reply is the short form every handler uses.
func (b *Bot) reply(chatID int64, text string, markup any) {
	if _, err := b.d.API.SendText(telegram.ChatID(chatID), text, markup); err != nil {
		log.Printf("[bot] send to %d: %v", chatID, err)
	}
}
