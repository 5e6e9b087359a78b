package session

import (
	"sync"
	"testing"
)

func TestStartReplacesExistingSession(t *testing.T) {
	st := NewStore()

	st.Start(42, WorkflowAddMovie, &MovieDraft{Step: MovieStepPoster, Code: 7})
	st.Start(42, WorkflowAddSeries, &SeriesDraft{})

	got := st.Get(42)
	if got == nil {
		t.Fatalf("expected a live session")
	}
	if got.Kind != WorkflowAddSeries {
		t.Fatalf("kind = %s, want %s", got.Kind, WorkflowAddSeries)
	}
	draft, ok := got.Data.(*SeriesDraft)
	if !ok {
		t.Fatalf("data = %T, want *SeriesDraft", got.Data)
	}
	if draft.Step != SeriesStepCode {
		t.Fatalf("fresh session must start at step 0, got %d", draft.Step)
	}
}

func TestGetAbsent(t *testing.T) {
	st := NewStore()
	if got := st.Get(99); got != nil {
		t.Fatalf("expected nil for unknown owner, got %+v", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	st := NewStore()
	st.Start(7, WorkflowBroadcast, &BroadcastDraft{})

	st.Clear(7)
	if st.Get(7) != nil {
		t.Fatalf("session should be gone after Clear")
	}
	// clearing again must not panic or resurrect anything
	st.Clear(7)
	if st.Get(7) != nil {
		t.Fatalf("session reappeared after second Clear")
	}
}

func TestOnePerOwner(t *testing.T) {
	st := NewStore()
	st.Start(1, WorkflowAddMovie, &MovieDraft{})
	st.Start(2, WorkflowAddField, &FieldDraft{})
	st.Start(1, WorkflowAddAdmin, &AdminDraft{})

	if got := st.Get(1); got.Kind != WorkflowAddAdmin {
		t.Fatalf("owner 1 kind = %s, want %s", got.Kind, WorkflowAddAdmin)
	}
	if got := st.Get(2); got.Kind != WorkflowAddField {
		t.Fatalf("owner 2 kind = %s, want %s", got.Kind, WorkflowAddField)
	}
}

func TestLockOwnerSerializesUpdates(t *testing.T) {
	st := NewStore()
	st.Start(5, WorkflowAppendEpisodes, &AppendDraft{NextNumber: 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := st.LockOwner(5)
			defer unlock()
			draft := st.Get(5).Data.(*AppendDraft)
			draft.Episodes = append(draft.Episodes, EpisodeDraft{
				Number:      draft.NextNumber,
				VideoFileID: "vid",
			})
			draft.NextNumber++
		}()
	}
	wg.Wait()

	draft := st.Get(5).Data.(*AppendDraft)
	if len(draft.Episodes) != 50 {
		t.Fatalf("episodes = %d, want 50", len(draft.Episodes))
	}
	for i, ep := range draft.Episodes {
		if ep.Number != i+1 {
			t.Fatalf("episode %d numbered %d, want %d", i, ep.Number, i+1)
		}
	}
}
