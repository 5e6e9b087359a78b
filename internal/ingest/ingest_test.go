package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/session"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

type fakeAPI struct {
	failVideoOn map[string]bool // channel ref -> fail uploads
	videoSends  []string        // channel refs in send order
	photoSends  []string
	photoChat   string
	photoCap    string
	editCalls   int
	editCaption string
	nextMsgID   int
}

func (f *fakeAPI) SendVideo(chat telegram.ChatRef, fileID, caption string) (int, error) {
	ref := chat.String()
	if f.failVideoOn[ref] {
		return 0, errors.New("upload refused")
	}
	f.videoSends = append(f.videoSends, ref)
	f.nextMsgID++
	return f.nextMsgID, nil
}

func (f *fakeAPI) SendPhoto(chat telegram.ChatRef, fileID, caption string, _ any) (int, error) {
	f.photoSends = append(f.photoSends, fileID)
	f.photoChat = chat.String()
	f.photoCap = caption
	f.nextMsgID++
	return f.nextMsgID, nil
}

func (f *fakeAPI) EditCaption(_ telegram.ChatRef, _ int, caption string, _ any) error {
	f.editCalls++
	f.editCaption = caption
	return nil
}

type fakeStorage struct {
	channels []model.StorageChannel
	err      error
}

func (f *fakeStorage) ListStorageActive(context.Context) ([]model.StorageChannel, error) {
	return f.channels, f.err
}

type fakeMovies struct {
	created   *model.Movie
	createErr error
	published int
}

func (f *fakeMovies) Create(_ context.Context, m *model.Movie) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = 1
	f.created = m
	return nil
}

func (f *fakeMovies) SetChannelMessage(_ context.Context, _ uint64, msgID int) error {
	f.published = msgID
	return nil
}

type fakeSeries struct {
	created  *model.Series
	appended []model.Episode
}

func (f *fakeSeries) CreateTx(_ context.Context, s *model.Series, episodes []model.Episode) error {
	s.ID = 1
	s.TotalEpisodes = len(episodes)
	f.created = s
	return nil
}

func (f *fakeSeries) AppendEpisodesTx(_ context.Context, _ uint64, episodes []model.Episode) error {
	f.appended = append(f.appended, episodes...)
	return nil
}

func (f *fakeSeries) SetChannelMessage(_ context.Context, _ uint64, _ int) error {
	return nil
}

type fakeFields struct{}

func (fakeFields) GetByID(_ context.Context, id uint64) (*model.Field, error) {
	return &model.Field{ID: id, Name: "Tarjima kinolar", ChannelID: "-100999"}, nil
}

func storageChannels(ids ...string) []model.StorageChannel {
	out := make([]model.StorageChannel, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.StorageChannel{ChannelID: id, IsActive: true})
	}
	return out
}

func movieDraft() *session.MovieDraft {
	return &session.MovieDraft{
		Code:         77,
		Title:        "Qasoskorlar",
		Genre:        "Fantastika",
		FieldID:      3,
		PosterFileID: "poster-file",
		VideoFileID:  "video-file",
	}
}

func TestCommitMoviePartialFanOut(t *testing.T) {
	api := &fakeAPI{failVideoOn: map[string]bool{"-2": true}}
	storage := &fakeStorage{channels: storageChannels("-1", "-2", "-3")}
	movies := &fakeMovies{}
	svc := NewService(api, storage, movies, &fakeSeries{}, fakeFields{}, "kinoteka_bot")

	m, err := svc.CommitMovie(context.Background(), movieDraft())
	if err != nil {
		t.Fatalf("CommitMovie: %v", err)
	}
	if len(m.VideoLocations) != 2 {
		t.Fatalf("locations = %d, want 2 (failed channel skipped)", len(m.VideoLocations))
	}
	if m.VideoLocations[0].ChannelID != "-1" || m.VideoLocations[1].ChannelID != "-3" {
		t.Fatalf("wrong location channels: %+v", m.VideoLocations)
	}
	if movies.created == nil {
		t.Fatalf("movie was not persisted")
	}
}

func TestCommitMovieAllUploadsFail(t *testing.T) {
	api := &fakeAPI{failVideoOn: map[string]bool{"-1": true, "-2": true}}
	storage := &fakeStorage{channels: storageChannels("-1", "-2")}
	movies := &fakeMovies{}
	svc := NewService(api, storage, movies, &fakeSeries{}, fakeFields{}, "kinoteka_bot")

	_, err := svc.CommitMovie(context.Background(), movieDraft())
	if !errors.Is(err, ErrAllUploadsFailed) {
		t.Fatalf("err = %v, want ErrAllUploadsFailed", err)
	}
	if movies.created != nil {
		t.Fatalf("nothing must be committed when all uploads fail")
	}
}

func TestCommitMovieNoStorageChannels(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeStorage{}, &fakeMovies{}, &fakeSeries{}, fakeFields{}, "kinoteka_bot")
	_, err := svc.CommitMovie(context.Background(), movieDraft())
	if !errors.Is(err, ErrNoStorageChannels) {
		t.Fatalf("err = %v, want ErrNoStorageChannels", err)
	}
}

func TestCommitMovieCodeRaceSurfaces(t *testing.T) {
	api := &fakeAPI{}
	storage := &fakeStorage{channels: storageChannels("-1")}
	movies := &fakeMovies{createErr: repository.ErrCodeTaken}
	svc := NewService(api, storage, movies, &fakeSeries{}, fakeFields{}, "kinoteka_bot")

	_, err := svc.CommitMovie(context.Background(), movieDraft())
	if !errors.Is(err, repository.ErrCodeTaken) {
		t.Fatalf("err = %v, want ErrCodeTaken", err)
	}
}

func TestCommitMoviePublishesDeepLink(t *testing.T) {
	api := &fakeAPI{}
	storage := &fakeStorage{channels: storageChannels("-1")}
	movies := &fakeMovies{}
	svc := NewService(api, storage, movies, &fakeSeries{}, fakeFields{}, "kinoteka_bot")

	if _, err := svc.CommitMovie(context.Background(), movieDraft()); err != nil {
		t.Fatalf("CommitMovie: %v", err)
	}
	if api.photoChat != "-100999" {
		t.Fatalf("poster went to %s, want the field channel", api.photoChat)
	}
	if !strings.Contains(api.photoCap, "https://t.me/kinoteka_bot?start=77") {
		t.Fatalf("caption missing movie deep link: %q", api.photoCap)
	}
}

func TestCommitSeriesDeepLinkPrefix(t *testing.T) {
	api := &fakeAPI{}
	storage := &fakeStorage{channels: storageChannels("-1")}
	series := &fakeSeries{}
	svc := NewService(api, storage, &fakeMovies{}, series, fakeFields{}, "kinoteka_bot")

	draft := &session.SeriesDraft{
		Code: 88, Title: "Yulduzlar", Genre: "Drama", FieldID: 3,
		PosterFileID: "poster",
		Episodes: []session.EpisodeDraft{
			{Number: 1, VideoFileID: "v1"},
			{Number: 2, VideoFileID: "v2"},
		},
	}
	sr, err := svc.CommitSeries(context.Background(), draft, true)
	if err != nil {
		t.Fatalf("CommitSeries: %v", err)
	}
	if sr.TotalEpisodes != 2 {
		t.Fatalf("total episodes = %d, want 2", sr.TotalEpisodes)
	}
	if !strings.Contains(api.photoCap, "?start=s88") {
		t.Fatalf("series deep link must carry the s prefix: %q", api.photoCap)
	}
}

func TestCommitSeriesEpisodeZeroSuccessAborts(t *testing.T) {
	// channel -1 accepts the first upload then refuses: simulate by
	// failing all uploads so the first episode already aborts
	api := &fakeAPI{failVideoOn: map[string]bool{"-1": true}}
	storage := &fakeStorage{channels: storageChannels("-1")}
	series := &fakeSeries{}
	svc := NewService(api, storage, &fakeMovies{}, series, fakeFields{}, "kinoteka_bot")

	draft := &session.SeriesDraft{
		Code: 88, Title: "Yulduzlar", FieldID: 3,
		Episodes: []session.EpisodeDraft{{Number: 1, VideoFileID: "v1"}},
	}
	_, err := svc.CommitSeries(context.Background(), draft, false)
	if !errors.Is(err, ErrAllUploadsFailed) {
		t.Fatalf("err = %v, want ErrAllUploadsFailed", err)
	}
	if series.created != nil {
		t.Fatalf("series must not persist when an episode lands nowhere")
	}
}

func TestAppendEpisodesRepublishesInPlace(t *testing.T) {
	api := &fakeAPI{}
	storage := &fakeStorage{channels: storageChannels("-1")}
	series := &fakeSeries{}
	svc := NewService(api, storage, &fakeMovies{}, series, fakeFields{}, "kinoteka_bot")

	sr := &model.Series{
		ID: 5, Code: 88, Title: "Yulduzlar", Genre: "Drama",
		FieldID: 3, TotalEpisodes: 5, ChannelMessageID: 42,
	}
	err := svc.AppendEpisodes(context.Background(), sr, []session.EpisodeDraft{
		{Number: 6, VideoFileID: "v6"},
		{Number: 7, VideoFileID: "v7"},
	})
	if err != nil {
		t.Fatalf("AppendEpisodes: %v", err)
	}
	if len(series.appended) != 2 {
		t.Fatalf("appended = %d episodes, want 2", len(series.appended))
	}
	if sr.TotalEpisodes != 7 {
		t.Fatalf("total episodes = %d, want 7", sr.TotalEpisodes)
	}
	if api.editCalls != 1 {
		t.Fatalf("published series must be edited in place, edits = %d", api.editCalls)
	}
	if !strings.Contains(api.editCaption, "7") {
		t.Fatalf("edited caption must carry the new episode count: %q", api.editCaption)
	}
}

func TestAppendEpisodesUnpublishedSkipsEdit(t *testing.T) {
	api := &fakeAPI{}
	storage := &fakeStorage{channels: storageChannels("-1")}
	svc := NewService(api, storage, &fakeMovies{}, &fakeSeries{}, fakeFields{}, "kinoteka_bot")

	sr := &model.Series{ID: 5, Code: 88, TotalEpisodes: 3, ChannelMessageID: 0}
	err := svc.AppendEpisodes(context.Background(), sr, []session.EpisodeDraft{
		{Number: 4, VideoFileID: "v4"},
	})
	if err != nil {
		t.Fatalf("AppendEpisodes: %v", err)
	}
	if api.editCalls != 0 {
		t.Fatalf("unpublished series must not be edited, edits = %d", api.editCalls)
	}
}
