package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

type fakeUsers struct {
	byAudience map[repository.Audience][]int64
	err        error
}

func (f *fakeUsers) TelegramIDs(_ context.Context, aud repository.Audience) ([]int64, error) {
	return f.byAudience[aud], f.err
}

type fakeMessenger struct {
	failFor map[int64]bool
	texts   []int64
	copies  []int64
}

func (f *fakeMessenger) SendText(chat telegram.ChatRef, _ string, _ any) (int, error) {
	if f.failFor[chat.ID] {
		return 0, errors.New("blocked by user")
	}
	f.texts = append(f.texts, chat.ID)
	return 1, nil
}

func (f *fakeMessenger) CopyMessage(to telegram.ChatRef, _ telegram.ChatRef, _ int, _ bool) error {
	if f.failFor[to.ID] {
		return errors.New("blocked by user")
	}
	f.copies = append(f.copies, to.ID)
	return nil
}

func TestRunCountsFailuresWithoutAborting(t *testing.T) {
	users := &fakeUsers{byAudience: map[repository.Audience][]int64{
		repository.AudienceAll: {1, 2, 3, 4},
	}}
	api := &fakeMessenger{failFor: map[int64]bool{2: true, 4: true}}
	s := NewSender(users, api, 0)

	sum, err := s.Run(context.Background(), Job{
		Audience: repository.AudienceAll,
		Text:     "Yangi kinolar!",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Total != 4 || sum.Success != 2 || sum.Failed != 2 {
		t.Fatalf("summary = %+v, want total 4, success 2, failed 2", sum)
	}
	if len(api.texts) != 2 {
		t.Fatalf("delivered to %v, want 2 recipients", api.texts)
	}
}

func TestRunMediaJobCopiesMessage(t *testing.T) {
	users := &fakeUsers{byAudience: map[repository.Audience][]int64{
		repository.AudiencePremium: {10, 20},
	}}
	api := &fakeMessenger{}
	s := NewSender(users, api, 0)

	sum, err := s.Run(context.Background(), Job{
		Audience:   repository.AudiencePremium,
		FromChatID: 555,
		MessageID:  7,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Success != 2 || len(api.copies) != 2 {
		t.Fatalf("summary = %+v, copies = %v", sum, api.copies)
	}
	if len(api.texts) != 0 {
		t.Fatalf("media job must not send plain text")
	}
}

func TestRunAudienceLookupFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	s := NewSender(users, &fakeMessenger{}, 0)

	if _, err := s.Run(context.Background(), Job{Audience: repository.AudienceFree}); err == nil {
		t.Fatalf("expected audience lookup error")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	users := &fakeUsers{byAudience: map[repository.Audience][]int64{
		repository.AudienceAll: {1, 2, 3},
	}}
	api := &fakeMessenger{}
	s := NewSender(users, api, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := s.Run(ctx, Job{Audience: repository.AudienceAll, Text: "x"})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if sum.Success != 0 {
		t.Fatalf("no sends expected after cancellation, got %+v", sum)
	}
}
