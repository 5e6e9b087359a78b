// Package ingest performs the terminal commit of the content
// workflows: fanning uploaded videos out across storage channels,
// persisting the records, and publishing posters with deep links.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// Fatal commit preconditions.
var (
	ErrNoStorageChannels = errors.New("ingest: no active storage channels configured")
	ErrAllUploadsFailed  = errors.New("ingest: video upload failed on every storage channel")
)

// StorageLister enumerates the channels uploads are copied to.
type StorageLister interface {
	ListStorageActive(ctx context.Context) ([]model.StorageChannel, error)
}

// MovieStore is the movie persistence slice the committer needs.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	SetChannelMessage(ctx context.Context, id uint64, messageID int) error
}

// SeriesStore is the series persistence slice the committer needs.
type SeriesStore interface {
	CreateTx(ctx context.Context, s *model.Series, episodes []model.Episode) error
	AppendEpisodesTx(ctx context.Context, seriesID uint64, episodes []model.Episode) error
	SetChannelMessage(ctx context.Context, id uint64, messageID int) error
}

// FieldStore resolves the publication channel of a field.
type FieldStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Field, error)
}

// Uploader is the slice of the messaging API the committer uses.
type Uploader interface {
	SendVideo(chat telegram.ChatRef, fileID, caption string) (int, error)
	SendPhoto(chat telegram.ChatRef, fileID, caption string, markup any) (int, error)
	EditCaption(chat telegram.ChatRef, messageID int, caption string, markup any) error
}

// Service commits accumulated workflow drafts.
type Service struct {
	api         Uploader
	channels    StorageLister
	movies      MovieStore
	series      SeriesStore
	fields      FieldStore
	botUsername string
}

// NewService constructs a Service.  botUsername is used to mint deep
// links in published posters.
func NewService(api Uploader, channels StorageLister, movies MovieStore, series SeriesStore, fields FieldStore, botUsername string) *Service {
	return &Service{
		api:         api,
		channels:    channels,
		movies:      movies,
		series:      series,
		fields:      fields,
		botUsername: botUsername,
	}
}

// MovieDeepLink builds the start link a poster carries for a movie.
func MovieDeepLink(botUsername string, code int) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, code)
}

// SeriesDeepLink builds the start link for a series.  The "s" prefix
// is how the receiving /start handler tells the two kinds apart, so
// both sides must agree on it.
func SeriesDeepLink(botUsername string, code int) string {
	return fmt.Sprintf("https://t.me/%s?start=s%d", botUsername, code)
}

// fanOut uploads one video to every active storage channel.  A failed
// channel is logged and skipped; at least one success is required.
func (s *Service) fanOut(ctx context.Context, channels []model.StorageChannel, fileID, caption string) ([]model.VideoLocation, error) {
	var locs []model.VideoLocation
	for _, ch := range channels {
		msgID, err := s.api.SendVideo(telegram.ParseChatRef(ch.ChannelID), fileID, caption)
		if err != nil {
			log.Printf("[ingest] upload to %s failed: %v", ch.ChannelID, err)
			continue
		}
		locs = append(locs, model.VideoLocation{ChannelID: ch.ChannelID, MessageID: msgID})
	}
	if len(locs) == 0 {
		return nil, ErrAllUploadsFailed
	}
	return locs, nil
}

func (s *Service) activeStorage(ctx context.Context) ([]model.StorageChannel, error) {
	channels, err := s.channels.ListStorageActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, ErrNoStorageChannels
	}
	return channels, nil
}

// CommitMovie fans the video out, persists the movie and publishes its
// poster to the field channel.  A code lost to a concurrent commit
// surfaces as repository.ErrCodeTaken.
func (s *Service) CommitMovie(ctx context.Context, draft *session.MovieDraft) (*model.Movie, error) {
	channels, err := s.activeStorage(ctx)
	if err != nil {
		return nil, err
	}
	caption := videoCaption(draft.Title, draft.Code)
	locs, err := s.fanOut(ctx, channels, draft.VideoFileID, caption)
	if err != nil {
		return nil, err
	}

	m := &model.Movie{
		Code:           draft.Code,
		Title:          draft.Title,
		Genre:          draft.Genre,
		Description:    draft.Description,
		FieldID:        draft.FieldID,
		PosterFileID:   draft.PosterFileID,
		VideoFileID:    draft.VideoFileID,
		VideoLocations: locs,
	}
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, err
	}

	msgID, err := s.publishPoster(ctx, draft.FieldID, draft.PosterFileID,
		posterCaption(m.Title, m.Genre, m.Description, m.Code, 0),
		MovieDeepLink(s.botUsername, m.Code))
	if err != nil {
		// the movie is committed; publication failure is not fatal
		log.Printf("[ingest] publish movie %d: %v", m.Code, err)
		return m, nil
	}
	m.ChannelMessageID = msgID
	if err := s.movies.SetChannelMessage(ctx, m.ID, msgID); err != nil {
		log.Printf("[ingest] record publication for movie %d: %v", m.Code, err)
	}
	return m, nil
}

// CommitSeries fans every drafted episode out, persists the series
// with its episodes and optionally publishes the poster.
func (s *Service) CommitSeries(ctx context.Context, draft *session.SeriesDraft, publish bool) (*model.Series, error) {
	channels, err := s.activeStorage(ctx)
	if err != nil {
		return nil, err
	}
	episodes, err := s.uploadEpisodes(ctx, channels, draft.Title, draft.Code, draft.Episodes)
	if err != nil {
		return nil, err
	}

	sr := &model.Series{
		Code:         draft.Code,
		Title:        draft.Title,
		Genre:        draft.Genre,
		Description:  draft.Description,
		FieldID:      draft.FieldID,
		PosterFileID: draft.PosterFileID,
	}
	if err := s.series.CreateTx(ctx, sr, episodes); err != nil {
		return nil, err
	}

	if publish {
		msgID, err := s.publishPoster(ctx, draft.FieldID, draft.PosterFileID,
			posterCaption(sr.Title, sr.Genre, sr.Description, sr.Code, sr.TotalEpisodes),
			SeriesDeepLink(s.botUsername, sr.Code))
		if err != nil {
			log.Printf("[ingest] publish series %d: %v", sr.Code, err)
			return sr, nil
		}
		sr.ChannelMessageID = msgID
		if err := s.series.SetChannelMessage(ctx, sr.ID, msgID); err != nil {
			log.Printf("[ingest] record publication for series %d: %v", sr.Code, err)
		}
	}
	return sr, nil
}

// AppendEpisodes commits appended episodes to an existing series and,
// when the series was published, edits the poster caption in place so
// the episode count stays current.
func (s *Service) AppendEpisodes(ctx context.Context, sr *model.Series, drafts []session.EpisodeDraft) error {
	channels, err := s.activeStorage(ctx)
	if err != nil {
		return err
	}
	episodes, err := s.uploadEpisodes(ctx, channels, sr.Title, sr.Code, drafts)
	if err != nil {
		return err
	}
	if err := s.series.AppendEpisodesTx(ctx, sr.ID, episodes); err != nil {
		return err
	}
	sr.TotalEpisodes += len(episodes)

	if sr.ChannelMessageID == 0 {
		return nil
	}
	field, err := s.fields.GetByID(ctx, sr.FieldID)
	if err != nil {
		log.Printf("[ingest] field %d for republish: %v", sr.FieldID, err)
		return nil
	}
	caption := posterCaption(sr.Title, sr.Genre, sr.Description, sr.Code, sr.TotalEpisodes)
	if err := s.api.EditCaption(telegram.ParseChatRef(field.ChannelID), sr.ChannelMessageID, caption, nil); err != nil {
		log.Printf("[ingest] republish series %d: %v", sr.Code, err)
	}
	return nil
}

// uploadEpisodes fans each episode out.  The zero-success rule applies
// per episode: one episode that lands nowhere aborts the whole commit
// so the series never persists with a hole in it.
func (s *Service) uploadEpisodes(ctx context.Context, channels []model.StorageChannel, title string, code int, drafts []session.EpisodeDraft) ([]model.Episode, error) {
	episodes := make([]model.Episode, 0, len(drafts))
	for _, d := range drafts {
		caption := fmt.Sprintf("%s | %d-qism\n📥 Kod: %d", title, d.Number, code)
		locs, err := s.fanOut(ctx, channels, d.VideoFileID, caption)
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", d.Number, err)
		}
		episodes = append(episodes, model.Episode{
			EpisodeNumber:  d.Number,
			VideoFileID:    d.VideoFileID,
			VideoLocations: locs,
		})
	}
	return episodes, nil
}

func (s *Service) publishPoster(ctx context.Context, fieldID uint64, posterFileID, caption, deepLink string) (int, error) {
	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return 0, err
	}
	full := caption + "\n\n👉 " + deepLink
	return s.api.SendPhoto(telegram.ParseChatRef(field.ChannelID), posterFileID, full, nil)
}

func videoCaption(title string, code int) string {
	return fmt.Sprintf("%s\n📥 Kod: %d", title, code)
}

func posterCaption(title, genre string, description *string, code, episodes int) string {
	out := fmt.Sprintf("🎬 %s\n🎭 Janr: %s", title, genre)
	if description != nil && *description != "" {
		out += "\n📝 " + *description
	}
	if episodes > 0 {
		out += fmt.Sprintf("\n🎞 Qismlar: %d", episodes)
	}
	out += fmt.Sprintf("\n📥 Kod: %d", code)
	return out
}
