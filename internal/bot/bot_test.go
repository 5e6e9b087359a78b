package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/queue"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/subscription"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// ---- fakes -------------------------------------------------------------

type sentMessage struct {
	chat   string
	text   string
	markup any
}

type fakeAPI struct {
	sent    []sentMessage
	photos  []sentMessage
	videos  []sentMessage
	copies  []sentMessage
	answers []string
}

func (f *fakeAPI) SendText(chat telegram.ChatRef, text string, markup any) (int, error) {
	f.sent = append(f.sent, sentMessage{chat.String(), text, markup})
	return len(f.sent), nil
}

func (f *fakeAPI) SendPhoto(chat telegram.ChatRef, fileID, caption string, markup any) (int, error) {
	f.photos = append(f.photos, sentMessage{chat.String(), caption, markup})
	return len(f.photos), nil
}

func (f *fakeAPI) SendVideo(chat telegram.ChatRef, fileID, caption string) (int, error) {
	f.videos = append(f.videos, sentMessage{chat.String(), caption, nil})
	return len(f.videos), nil
}

func (f *fakeAPI) CopyMessage(to telegram.ChatRef, from telegram.ChatRef, messageID int, protect bool) error {
	f.copies = append(f.copies, sentMessage{to.String(), from.String(), protect})
	return nil
}

func (f *fakeAPI) EditCaption(telegram.ChatRef, int, string, any) error { return nil }

func (f *fakeAPI) MemberStatus(telegram.ChatRef, int64) (string, error) {
	return telegram.StatusMember, nil
}

func (f *fakeAPI) AnswerCallback(id, _ string) error {
	f.answers = append(f.answers, id)
	return nil
}

func (f *fakeAPI) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].text
}

type fakeUsers struct {
	byTelegram map[int64]*model.User
	watches    []string
}

func (f *fakeUsers) FindOrCreate(_ context.Context, tgID int64, name, username, _ string) (*model.User, error) {
	if u, ok := f.byTelegram[tgID]; ok {
		return u, nil
	}
	u := &model.User{ID: uint64(tgID), TelegramID: tgID, FirstName: name, Username: username}
	if f.byTelegram == nil {
		f.byTelegram = map[int64]*model.User{}
	}
	f.byTelegram[tgID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	for _, u := range f.byTelegram {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) RecordWatch(_ context.Context, _ uint64, kind string, _ uint64) error {
	f.watches = append(f.watches, kind)
	return nil
}

func (f *fakeUsers) Stats(context.Context) (*repository.Stats, error) {
	return &repository.Stats{TotalUsers: 10, PremiumUsers: 2}, nil
}

type fakeAdmins struct {
	byTelegram map[int64]*model.Admin
	created    []*model.Admin
}

func (f *fakeAdmins) GetByTelegramID(_ context.Context, tgID int64) (*model.Admin, error) {
	if a, ok := f.byTelegram[tgID]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdmins) Create(_ context.Context, a *model.Admin) error {
	f.created = append(f.created, a)
	return nil
}

type attachCall struct {
	id     uint64
	fileID string
	locs   []model.VideoLocation
}

type fakeMovies struct {
	byCode   map[int]*model.Movie
	attached []attachCall
}

func (f *fakeMovies) GetByCode(_ context.Context, code int) (*model.Movie, error) {
	if m, ok := f.byCode[code]; ok {
		return m, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMovies) AttachVideo(_ context.Context, id uint64, fileID string, locs []model.VideoLocation) error {
	f.attached = append(f.attached, attachCall{id, fileID, locs})
	return nil
}

type fakeSeries struct {
	byCode   map[int]*model.Series
	episodes map[uint64][]model.Episode
}

func (f *fakeSeries) GetByCode(_ context.Context, code int) (*model.Series, error) {
	if s, ok := f.byCode[code]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSeries) Episodes(_ context.Context, id uint64) ([]model.Episode, error) {
	return f.episodes[id], nil
}

type fakeFields struct{ fields []model.Field }

func (f *fakeFields) ListActive(context.Context) ([]model.Field, error) { return f.fields, nil }
func (f *fakeFields) Create(_ context.Context, fd *model.Field) error {
	fd.ID = uint64(len(f.fields) + 1)
	f.fields = append(f.fields, *fd)
	return nil
}

type fakeChannels struct {
	mandatory []*model.MandatoryChannel
	storage   []*model.StorageChannel
}

func (f *fakeChannels) CreateMandatory(_ context.Context, ch *model.MandatoryChannel) error {
	f.mandatory = append(f.mandatory, ch)
	return nil
}

func (f *fakeChannels) CreateStorage(_ context.Context, ch *model.StorageChannel) error {
	f.storage = append(f.storage, ch)
	return nil
}

type fakeSettings struct {
	premium model.PremiumSettings
	bot     model.BotSettings
	prices  *model.PremiumSettings
}

func (f *fakeSettings) Premium(context.Context) (*model.PremiumSettings, error) {
	s := f.premium
	return &s, nil
}

func (f *fakeSettings) UpdatePrices(_ context.Context, s *model.PremiumSettings) error {
	f.prices = s
	return nil
}

func (f *fakeSettings) UpdateCard(context.Context, string, string) error { return nil }

func (f *fakeSettings) Bot(context.Context) (*model.BotSettings, error) {
	b := f.bot
	return &b, nil
}

type fakePayments struct{ created []*model.Payment }

func (f *fakePayments) Create(_ context.Context, p *model.Payment) error {
	p.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

type fakeCodes struct{ taken map[int]bool }

func (f *fakeCodes) IsAvailable(_ context.Context, code int) (bool, error) {
	return !f.taken[code], nil
}

func (f *fakeCodes) FindNearestAvailable(_ context.Context, requested, count int) ([]int, error) {
	return []int{requested + 1, requested + 2}, nil
}

type fakeIngest struct {
	movie     *session.MovieDraft
	series    *session.SeriesDraft
	published bool
	appended  []session.EpisodeDraft
	commitErr error
}

func (f *fakeIngest) CommitMovie(_ context.Context, d *session.MovieDraft) (*model.Movie, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	f.movie = d
	return &model.Movie{
		ID: 1, Code: d.Code, Title: d.Title,
		VideoLocations: []model.VideoLocation{{ChannelID: "-1", MessageID: 9}},
	}, nil
}

func (f *fakeIngest) CommitSeries(_ context.Context, d *session.SeriesDraft, publish bool) (*model.Series, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	f.series = d
	f.published = publish
	return &model.Series{ID: 1, Code: d.Code, Title: d.Title, TotalEpisodes: len(d.Episodes)}, nil
}

func (f *fakeIngest) AppendEpisodes(_ context.Context, sr *model.Series, drafts []session.EpisodeDraft) error {
	f.appended = append(f.appended, drafts...)
	sr.TotalEpisodes += len(drafts)
	return nil
}

type fakeGate struct {
	satisfied   bool
	unsatisfied []model.MandatoryChannel
	calls       int
}

func (f *fakeGate) CheckAll(context.Context, int64) subscription.Result {
	f.calls++
	return subscription.Result{Satisfied: f.satisfied, Unsatisfied: f.unsatisfied}
}

type fakeReviewer struct{ approved, rejected []uint64 }

func (f *fakeReviewer) Approve(_ context.Context, id, _ uint64) (*model.Payment, error) {
	f.approved = append(f.approved, id)
	return &model.Payment{ID: id, UserID: 1, DurationDays: 30}, nil
}

func (f *fakeReviewer) Reject(_ context.Context, id, _ uint64) (*model.Payment, error) {
	f.rejected = append(f.rejected, id)
	return &model.Payment{ID: id, UserID: 1}, nil
}

type fakeCheckout struct{}

func (fakeCheckout) CheckoutLink(userID uint64, amount int64) string {
	return "https://checkout.paycom.uz/test"
}

// ---- environment -------------------------------------------------------

const (
	adminID = int64(100)
	userID  = int64(200)
)

type env struct {
	bot       *Bot
	api       *fakeAPI
	sessions  *session.Store
	ingest    *fakeIngest
	gate      *fakeGate
	users     *fakeUsers
	admins    *fakeAdmins
	series    *fakeSeries
	settings  *fakeSettings
	payments  *fakePayments
	reviewer  *fakeReviewer
	movies    *fakeMovies
	published []queue.BroadcastRequestedEvent
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		api:      &fakeAPI{},
		sessions: session.NewStore(),
		ingest:   &fakeIngest{},
		gate:     &fakeGate{satisfied: true},
		users:    &fakeUsers{},
		admins: &fakeAdmins{byTelegram: map[int64]*model.Admin{
			adminID: {ID: 1, TelegramID: adminID, Role: model.RoleSuperAdmin},
		}},
		series:   &fakeSeries{byCode: map[int]*model.Series{}, episodes: map[uint64][]model.Episode{}},
		settings: &fakeSettings{premium: model.PremiumSettings{MonthlyPrice: 15000, CardNumber: "8600", CardHolder: "OTABEK"}},
		payments: &fakePayments{},
		reviewer: &fakeReviewer{},
		movies:   &fakeMovies{byCode: map[int]*model.Movie{}},
	}
	e.bot = New(Deps{
		API:      e.api,
		Sessions: e.sessions,
		Users:    e.users,
		Admins:   e.admins,
		Movies:   e.movies,
		Series:   e.series,
		Fields: &fakeFields{fields: []model.Field{
			{ID: 10, Name: "Tarjima kinolar", ChannelID: "-100999"},
			{ID: 11, Name: "Seriallar", ChannelID: "-100888"},
		}},
		Channels: &fakeChannels{},
		Settings: e.settings,
		Payments: e.payments,
		Codes:    &fakeCodes{taken: map[int]bool{50: true}},
		Ingest:   e.ingest,
		Gate:     e.gate,
		Reviewer: e.reviewer,
		Checkout: fakeCheckout{},
		Publish: func(_ context.Context, ev queue.BroadcastRequestedEvent) error {
			e.published = append(e.published, ev)
			return nil
		},
		BotUsername: "kinoteka_bot",
	})
	return e
}

func (e *env) text(t *testing.T, from int64, text string) {
	t.Helper()
	if err := e.bot.dispatch(context.Background(), Event{
		ChatID: from, UserID: from, FirstName: "Test", Text: text, MessageID: 1,
	}); err != nil {
		t.Fatalf("dispatch %q: %v", text, err)
	}
}

func (e *env) photo(t *testing.T, from int64, fileID string) {
	t.Helper()
	if err := e.bot.dispatch(context.Background(), Event{
		ChatID: from, UserID: from, PhotoFileID: fileID, MessageID: 2,
	}); err != nil {
		t.Fatalf("dispatch photo: %v", err)
	}
}

func (e *env) video(t *testing.T, from int64, fileID string) {
	t.Helper()
	if err := e.bot.dispatch(context.Background(), Event{
		ChatID: from, UserID: from, VideoFileID: fileID, MessageID: 3,
	}); err != nil {
		t.Fatalf("dispatch video: %v", err)
	}
}

func (e *env) callback(t *testing.T, from int64, data string) {
	t.Helper()
	if err := e.bot.dispatch(context.Background(), Event{
		ChatID: from, UserID: from, CallbackID: "cb", CallbackData: data,
	}); err != nil {
		t.Fatalf("dispatch callback %q: %v", data, err)
	}
}

// ---- tests -------------------------------------------------------------

func TestMovieWorkflowHappyPath(t *testing.T) {
	e := newEnv(t)

	e.text(t, adminID, btnAddMovie)
	e.text(t, adminID, "7")
	e.text(t, adminID, "Qasoskorlar")
	e.text(t, adminID, "Fantastika")
	e.text(t, adminID, "next") // skip description
	e.text(t, adminID, "1")    // first field in the cached list
	e.photo(t, adminID, "poster-1")
	e.video(t, adminID, "video-1")

	d := e.ingest.movie
	if d == nil {
		t.Fatalf("commit never ran")
	}
	if d.Code != 7 || d.Title != "Qasoskorlar" || d.Genre != "Fantastika" {
		t.Fatalf("draft = %+v", d)
	}
	if d.Description != nil {
		t.Fatalf("skipped description must stay absent, got %q", *d.Description)
	}
	if d.FieldID != 10 {
		t.Fatalf("field id = %d, want first listed field", d.FieldID)
	}
	if d.PosterFileID != "poster-1" || d.VideoFileID != "video-1" {
		t.Fatalf("media refs = %q / %q", d.PosterFileID, d.VideoFileID)
	}
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("session must be cleared after commit")
	}
	if !strings.Contains(e.api.lastText(), "saqlandi") {
		t.Fatalf("missing success report: %q", e.api.lastText())
	}
}

func TestMovieCodeValidation(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAddMovie)

	e.text(t, adminID, "abc")
	if !strings.Contains(e.api.lastText(), "musbat son") {
		t.Fatalf("non-numeric code must re-prompt, got %q", e.api.lastText())
	}
	e.text(t, adminID, "-4")
	if !strings.Contains(e.api.lastText(), "musbat son") {
		t.Fatalf("negative code must re-prompt")
	}

	// taken code 50: rejection plus nearest suggestions
	e.text(t, adminID, "50")
	if !strings.Contains(e.api.lastText(), "band") || !strings.Contains(e.api.lastText(), "51") {
		t.Fatalf("taken code must list alternatives, got %q", e.api.lastText())
	}

	// session still at the code step, a valid code advances
	e.text(t, adminID, "51")
	if !strings.Contains(e.api.lastText(), "nomini") {
		t.Fatalf("valid code must advance to title, got %q", e.api.lastText())
	}
}

func TestFieldChoiceValidation(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAddMovie)
	e.text(t, adminID, "7")
	e.text(t, adminID, "Kino")
	e.text(t, adminID, "Drama")
	e.text(t, adminID, "next")

	for _, bad := range []string{"0", "3", "x"} {
		e.text(t, adminID, bad)
		if !strings.Contains(e.api.lastText(), "raqamini") {
			t.Fatalf("input %q must re-prompt the field step, got %q", bad, e.api.lastText())
		}
	}
	e.text(t, adminID, "2")
	if !strings.Contains(e.api.lastText(), "Poster") {
		t.Fatalf("valid index must advance, got %q", e.api.lastText())
	}
	draft := e.sessions.Get(adminID).Data.(*session.MovieDraft)
	if draft.FieldID != 11 {
		t.Fatalf("field id = %d, want second listed field", draft.FieldID)
	}
}

func TestCancelClearsSessionAtAnyStep(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAddMovie)
	e.text(t, adminID, "7")
	e.text(t, adminID, "Kino")

	e.text(t, adminID, btnCancel)
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("cancel must clear the session")
	}
	// cancelling again while idle stays a no-op
	e.text(t, adminID, "/cancel")
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("repeated cancel must stay idle")
	}
}

func TestStartReplacesWorkflow(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAddMovie)
	e.text(t, adminID, btnCancel)
	e.text(t, adminID, btnAddSeries)

	sess := e.sessions.Get(adminID)
	if sess == nil || sess.Kind != session.WorkflowAddSeries {
		t.Fatalf("expected a fresh series session, got %+v", sess)
	}
}

func TestSeriesWorkflowWithPublish(t *testing.T) {
	e := newEnv(t)

	e.text(t, adminID, btnAddSeries)
	e.text(t, adminID, "9")
	e.text(t, adminID, "Yulduzlar")
	e.text(t, adminID, "Drama")
	e.text(t, adminID, "Tavsif matni")
	e.text(t, adminID, "2")
	e.photo(t, adminID, "poster-9")
	e.video(t, adminID, "ep-1")
	e.callback(t, adminID, cbEpMore)
	e.video(t, adminID, "ep-2")
	e.callback(t, adminID, cbEpDone)
	e.callback(t, adminID, cbPublishYes)

	d := e.ingest.series
	if d == nil {
		t.Fatalf("series commit never ran")
	}
	if len(d.Episodes) != 2 || d.Episodes[0].Number != 1 || d.Episodes[1].Number != 2 {
		t.Fatalf("episodes = %+v", d.Episodes)
	}
	if d.Description == nil || *d.Description != "Tavsif matni" {
		t.Fatalf("description lost: %+v", d.Description)
	}
	if !e.ingest.published {
		t.Fatalf("publish choice must reach the commit")
	}
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("session must be cleared after commit")
	}
}

func TestSeriesDuplicateCodeOffersAppend(t *testing.T) {
	e := newEnv(t)
	e.series.byCode[50] = &model.Series{ID: 4, Code: 50, Title: "Eski serial", TotalEpisodes: 5}

	e.text(t, adminID, btnAddSeries)
	e.text(t, adminID, "50")
	if !strings.Contains(e.api.lastText(), "allaqachon mavjud") {
		t.Fatalf("duplicate code must offer append, got %q", e.api.lastText())
	}

	e.callback(t, adminID, cbSwitchAdd)
	sess := e.sessions.Get(adminID)
	if sess == nil || sess.Kind != session.WorkflowAppendEpisodes {
		t.Fatalf("switch must move into the append workflow, got %+v", sess)
	}
	draft := sess.Data.(*session.AppendDraft)
	if draft.NextNumber != 6 {
		t.Fatalf("append numbering = %d, want totalEpisodes+1 = 6", draft.NextNumber)
	}
}

func TestAppendEpisodeNumbering(t *testing.T) {
	e := newEnv(t)
	e.series.byCode[50] = &model.Series{ID: 4, Code: 50, Title: "Eski serial", TotalEpisodes: 5}

	e.text(t, adminID, btnAppend)
	e.text(t, adminID, "50")
	e.video(t, adminID, "v6")
	e.callback(t, adminID, cbEpMore)
	e.video(t, adminID, "v7")
	e.callback(t, adminID, cbEpDone)

	if len(e.ingest.appended) != 2 {
		t.Fatalf("appended = %+v", e.ingest.appended)
	}
	if e.ingest.appended[0].Number != 6 || e.ingest.appended[1].Number != 7 {
		t.Fatalf("numbering = %d, %d; want 6, 7",
			e.ingest.appended[0].Number, e.ingest.appended[1].Number)
	}
}

func TestAppendUnknownCodeReprompts(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAppend)
	e.text(t, adminID, "404")
	if !strings.Contains(e.api.lastText(), "topilmadi") {
		t.Fatalf("unknown code must re-prompt, got %q", e.api.lastText())
	}
	sess := e.sessions.Get(adminID)
	if sess == nil || sess.Data.(*session.AppendDraft).Step != session.AppendStepCode {
		t.Fatalf("step must not advance on unknown code")
	}
}

func TestBroadcastDialogue(t *testing.T) {
	e := newEnv(t)

	e.text(t, adminID, btnBroadcast)
	e.callback(t, adminID, cbAudPremium)
	e.text(t, adminID, "Yangi seriallar chiqdi!")

	if len(e.published) != 1 {
		t.Fatalf("published = %d jobs, want 1", len(e.published))
	}
	job := e.published[0].Job
	if job.Audience != repository.AudiencePremium || job.Text != "Yangi seriallar chiqdi!" {
		t.Fatalf("job = %+v", job)
	}
	if e.published[0].RequestedBy != adminID {
		t.Fatalf("requested_by = %d", e.published[0].RequestedBy)
	}
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("session must be cleared after scheduling")
	}
}

func TestUserGateBlocksAndRechecks(t *testing.T) {
	e := newEnv(t)
	e.gate.satisfied = false
	e.gate.unsatisfied = []model.MandatoryChannel{{ChannelName: "Kanal", ChannelLink: "https://t.me/k"}}

	e.text(t, userID, "7")
	if !strings.Contains(e.api.lastText(), "obuna") {
		t.Fatalf("unsubscribed user must see the gate, got %q", e.api.lastText())
	}

	e.gate.satisfied = true
	e.callback(t, userID, cbCheckSub)
	if !strings.Contains(e.api.lastText(), "tasdiqlandi") {
		t.Fatalf("recheck must confirm, got %q", e.api.lastText())
	}
}

func TestPremiumUserBypassesGate(t *testing.T) {
	e := newEnv(t)
	e.gate.satisfied = false
	until := time.Now().Add(24 * time.Hour)
	e.users.byTelegram = map[int64]*model.User{
		userID: {ID: 2, TelegramID: userID, IsPremium: true, PremiumExpires: &until},
	}
	e.series.byCode[9] = &model.Series{ID: 3, Code: 9, Title: "Yulduzlar", TotalEpisodes: 4, PosterFileID: "p"}

	e.text(t, userID, "9")
	if e.gate.calls != 0 {
		t.Fatalf("premium user must bypass the gate")
	}
	if len(e.api.photos) != 1 {
		t.Fatalf("series poster not sent")
	}
}

func TestSeriesDeepLink(t *testing.T) {
	e := newEnv(t)
	e.series.byCode[9] = &model.Series{ID: 3, Code: 9, Title: "Yulduzlar", TotalEpisodes: 4, PosterFileID: "p"}

	e.text(t, userID, "/start s9")
	if len(e.api.photos) != 1 {
		t.Fatalf("series deep link must serve the series")
	}
	if len(e.users.watches) != 1 || e.users.watches[0] != "SERIES" {
		t.Fatalf("watch history = %v", e.users.watches)
	}
}

func TestEpisodeCallbackDeliversCopy(t *testing.T) {
	e := newEnv(t)
	e.series.byCode[9] = &model.Series{ID: 3, Code: 9, Title: "Yulduzlar", TotalEpisodes: 2}
	e.series.episodes[3] = []model.Episode{
		{EpisodeNumber: 1, VideoFileID: "v1", VideoLocations: []model.VideoLocation{{ChannelID: "-1", MessageID: 5}}},
		{EpisodeNumber: 2, VideoFileID: "v2", VideoLocations: []model.VideoLocation{{ChannelID: "-1", MessageID: 6}}},
	}

	e.callback(t, userID, "ep:9:2")
	if len(e.api.copies) != 1 {
		t.Fatalf("episode must be copied from storage, copies = %v", e.api.copies)
	}
}

func TestReceiptCreatesPendingPayment(t *testing.T) {
	e := newEnv(t)
	e.settings.bot.AdminChatID = "-100777"

	e.photo(t, userID, "receipt-1")
	if len(e.payments.created) != 1 {
		t.Fatalf("payments = %d, want 1", len(e.payments.created))
	}
	p := e.payments.created[0]
	if p.Status != model.PaymentPending || p.ReceiptFileID != "receipt-1" {
		t.Fatalf("payment = %+v", p)
	}
	if len(e.api.photos) != 1 || e.api.photos[0].chat != "-100777" {
		t.Fatalf("receipt must be forwarded to the admin chat, photos = %v", e.api.photos)
	}
}

func TestReviewCallbackApproves(t *testing.T) {
	e := newEnv(t)
	e.callback(t, adminID, "pay:approve:5")
	if len(e.reviewer.approved) != 1 || e.reviewer.approved[0] != 5 {
		t.Fatalf("approved = %v", e.reviewer.approved)
	}
}

func TestNonAdminCannotStartWorkflows(t *testing.T) {
	e := newEnv(t)
	e.text(t, userID, btnAddMovie)
	if e.sessions.Get(userID) != nil {
		t.Fatalf("regular user must not start an admin workflow")
	}
}

func TestAttachVideoOnlyForMoviesWithoutOne(t *testing.T) {
	e := newEnv(t)
	e.movies.byCode[60] = &model.Movie{
		ID: 7, Code: 60, Title: "Eski kino", VideoFileID: "old-video",
		VideoLocations: []model.VideoLocation{{ChannelID: "-1", MessageID: 99}},
	}
	e.movies.byCode[61] = &model.Movie{ID: 8, Code: 61, Title: "Videosiz kino"}

	e.text(t, adminID, btnAttachVideo)
	e.text(t, adminID, "60")
	if !strings.Contains(e.api.lastText(), "allaqachon video bor") {
		t.Fatalf("movie with a video must be rejected, got %q", e.api.lastText())
	}
	if len(e.movies.attached) != 0 {
		t.Fatalf("attach recorded for a rejected code: %v", e.movies.attached)
	}
	sess := e.sessions.Get(adminID)
	if sess == nil || sess.Data.(*session.AttachDraft).MovieCode != 0 {
		t.Fatalf("rejection must keep the workflow at the code step")
	}

	e.text(t, adminID, "61")
	if !strings.Contains(e.api.lastText(), "videoni yuboring") {
		t.Fatalf("videoless movie must advance, got %q", e.api.lastText())
	}
	e.video(t, adminID, "new-vid")
	if len(e.movies.attached) != 1 {
		t.Fatalf("attached = %v, want one call", e.movies.attached)
	}
	call := e.movies.attached[0]
	if call.id != 8 || call.fileID != "new-vid" || len(call.locs) != 0 {
		t.Fatalf("attach call = %+v", call)
	}
	if e.sessions.Get(adminID) != nil {
		t.Fatalf("session must be cleared after the attach")
	}
}

func TestDescriptionStepRejectsBlankText(t *testing.T) {
	e := newEnv(t)
	e.text(t, adminID, btnAddMovie)
	e.text(t, adminID, "51")
	e.text(t, adminID, "Sahro")
	e.text(t, adminID, "Drama")

	e.photo(t, adminID, "stray-photo") // no text, not a skip
	if !strings.Contains(e.api.lastText(), "Tavsif") {
		t.Fatalf("blank description must re-prompt, got %q", e.api.lastText())
	}
	draft := e.sessions.Get(adminID).Data.(*session.MovieDraft)
	if draft.Step != session.MovieStepDescription || draft.Description != nil {
		t.Fatalf("blank input must not advance, step=%v desc=%v", draft.Step, draft.Description)
	}

	e.text(t, adminID, "Cho'l sarguzashti")
	draft = e.sessions.Get(adminID).Data.(*session.MovieDraft)
	if draft.Description == nil || *draft.Description != "Cho'l sarguzashti" {
		t.Fatalf("description not stored: %v", draft.Description)
	}
	if draft.Step != session.MovieStepField {
		t.Fatalf("step = %v, want field choice", draft.Step)
	}
}
