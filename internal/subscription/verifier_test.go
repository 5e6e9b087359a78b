package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

type stubChannels struct {
	channels    []model.MandatoryChannel
	listErr     error
	memberBumps map[string]int
	pendingBump map[string]int
}

func (s *stubChannels) ListMandatoryActive(context.Context) ([]model.MandatoryChannel, error) {
	return s.channels, s.listErr
}

func (s *stubChannels) BumpMembers(_ context.Context, channelID string, delta int) error {
	if s.memberBumps == nil {
		s.memberBumps = map[string]int{}
	}
	s.memberBumps[channelID] += delta
	return nil
}

func (s *stubChannels) BumpPending(_ context.Context, channelID string, delta int) error {
	if s.pendingBump == nil {
		s.pendingBump = map[string]int{}
	}
	s.pendingBump[channelID] += delta
	return nil
}

type stubLookup struct {
	statuses map[string]string
	errs     map[string]error
}

func (s *stubLookup) MemberStatus(chat telegram.ChatRef, _ int64) (string, error) {
	key := chat.String()
	if err := s.errs[key]; err != nil {
		return "", err
	}
	if st, ok := s.statuses[key]; ok {
		return st, nil
	}
	return telegram.StatusLeft, nil
}

func mandatory(id, kind string, pending int) model.MandatoryChannel {
	return model.MandatoryChannel{
		ChannelID:       id,
		ChannelName:     "ch " + id,
		Kind:            model.ChannelKind(kind),
		PendingRequests: pending,
		IsActive:        true,
	}
}

func TestCheckAllMixedKinds(t *testing.T) {
	// A: public, member.  B: private, left but one pending request.
	// C: external, never checked.  All three must pass.
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-100100", "PUBLIC", 0),
		mandatory("-100200", "PRIVATE", 1),
		mandatory("insta", "EXTERNAL", 0),
	}}
	lookup := &stubLookup{statuses: map[string]string{
		"-100100": telegram.StatusMember,
		"-100200": telegram.StatusLeft,
	}}
	v := NewVerifier(chans, lookup, nil)

	res := v.CheckAll(context.Background(), 1)
	if !res.Satisfied {
		t.Fatalf("expected satisfied, unsatisfied = %v", res.Unsatisfied)
	}
	if len(res.Unsatisfied) != 0 {
		t.Fatalf("unsatisfied should be empty, got %v", res.Unsatisfied)
	}
	if chans.memberBumps["-100100"] != 1 {
		t.Fatalf("expected member counter bump for public channel")
	}
}

func TestCheckAllAdminAndCreatorSatisfy(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PUBLIC", 0),
		mandatory("-2", "PUBLIC", 0),
	}}
	lookup := &stubLookup{statuses: map[string]string{
		"-1": telegram.StatusAdministrator,
		"-2": telegram.StatusCreator,
	}}
	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if !res.Satisfied {
		t.Fatalf("administrator and creator must satisfy the gate")
	}
}

func TestCheckAllLookupFailureUnsatisfied(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PUBLIC", 0),
	}}
	lookup := &stubLookup{errs: map[string]error{"-1": errors.New("chat not found")}}

	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if res.Satisfied {
		t.Fatalf("lookup failure must count as not satisfied")
	}
	if len(res.Unsatisfied) != 1 || res.Unsatisfied[0].ChannelID != "-1" {
		t.Fatalf("unsatisfied = %v", res.Unsatisfied)
	}
}

func TestCheckAllKickedUnsatisfied(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PUBLIC", 0),
	}}
	lookup := &stubLookup{statuses: map[string]string{"-1": telegram.StatusKicked}}

	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if res.Satisfied {
		t.Fatalf("kicked must count as not satisfied")
	}
}

func TestPrivateWithoutPendingUnsatisfied(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PRIVATE", 0),
	}}
	lookup := &stubLookup{statuses: map[string]string{"-1": telegram.StatusLeft}}

	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if res.Satisfied {
		t.Fatalf("private channel with no pending requests must not pass")
	}
}

func TestPrivateMemberConsumesPending(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PRIVATE", 2),
	}}
	lookup := &stubLookup{statuses: map[string]string{"-1": telegram.StatusMember}}

	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if !res.Satisfied {
		t.Fatalf("member of private channel must pass")
	}
	if chans.pendingBump["-1"] != -1 {
		t.Fatalf("approved join must decrement the pending counter, got %d", chans.pendingBump["-1"])
	}
}

func TestUnsatisfiedPreservesOrder(t *testing.T) {
	chans := &stubChannels{channels: []model.MandatoryChannel{
		mandatory("-1", "PUBLIC", 0),
		mandatory("-2", "PUBLIC", 0),
		mandatory("-3", "PUBLIC", 0),
	}}
	lookup := &stubLookup{statuses: map[string]string{
		"-2": telegram.StatusMember,
	}}

	res := NewVerifier(chans, lookup, nil).CheckAll(context.Background(), 1)
	if res.Satisfied {
		t.Fatalf("expected unsatisfied")
	}
	if len(res.Unsatisfied) != 2 ||
		res.Unsatisfied[0].ChannelID != "-1" ||
		res.Unsatisfied[1].ChannelID != "-3" {
		t.Fatalf("unsatisfied order wrong: %v", res.Unsatisfied)
	}
}

func TestListFailureFailsClosed(t *testing.T) {
	chans := &stubChannels{listErr: errors.New("db down")}
	res := NewVerifier(chans, &stubLookup{}, nil).CheckAll(context.Background(), 1)
	if res.Satisfied {
		t.Fatalf("channel enumeration failure must fail closed")
	}
}
