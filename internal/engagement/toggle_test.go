package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vidtube/backend/internal/apperr"
)

type relationKey struct {
	kind   Kind
	target string
	actor  string
}

type inMemoryRelations struct {
	mu        sync.Mutex
	rows      map[relationKey]struct{}
	targets   map[string]bool
	conflicts int
}

func newInMemoryRelations(targets ...string) *inMemoryRelations {
	s := &inMemoryRelations{
		rows:    make(map[relationKey]struct{}),
		targets: make(map[string]bool),
	}
	for _, t := range targets {
		s.targets[t] = true
	}
	return s
}

func (s *inMemoryRelations) CreateRelation(_ context.Context, kind Kind, targetID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := relationKey{kind: kind, target: targetID, actor: actorID}
	if _, exists := s.rows[key]; exists {
		s.conflicts++
		return apperr.ErrConflict
	}
	s.rows[key] = struct{}{}
	return nil
}

func (s *inMemoryRelations) DeleteRelation(_ context.Context, kind Kind, targetID, actorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := relationKey{kind: kind, target: targetID, actor: actorID}
	if _, exists := s.rows[key]; !exists {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

func (s *inMemoryRelations) TargetExists(_ context.Context, _ Kind, targetID string) (bool, error) {
	return s.targets[targetID], nil
}

func (s *inMemoryRelations) active(kind Kind, targetID, actorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[relationKey{kind: kind, target: targetID, actor: actorID}]
	return ok
}

func TestToggleCreatesThenRemoves(t *testing.T) {
	store := newInMemoryRelations("video-1")
	toggler := NewToggler(store, store)
	ctx := context.Background()

	active, err := toggler.Toggle(ctx, KindVideoLike, "video-1", "user-1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !active {
		t.Fatal("expected first toggle to activate the relation")
	}
	if !store.active(KindVideoLike, "video-1", "user-1") {
		t.Fatal("expected relation row to exist after activation")
	}

	active, err = toggler.Toggle(ctx, KindVideoLike, "video-1", "user-1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if active {
		t.Fatal("expected second toggle to deactivate the relation")
	}
	if store.active(KindVideoLike, "video-1", "user-1") {
		t.Fatal("expected relation row to be gone after deactivation")
	}
}

func TestToggleRequiresActor(t *testing.T) {
	store := newInMemoryRelations("video-1")
	toggler := NewToggler(store, store)

	_, err := toggler.Toggle(context.Background(), KindVideoLike, "video-1", "")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestToggleMissingTarget(t *testing.T) {
	store := newInMemoryRelations()
	toggler := NewToggler(store, store)

	_, err := toggler.Toggle(context.Background(), KindCommentLike, "comment-404", "user-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.active(KindCommentLike, "comment-404", "user-1") {
		t.Fatal("no relation row may be written for a missing target")
	}
}

func TestToggleRejectsSelfSubscription(t *testing.T) {
	store := newInMemoryRelations("user-1")
	toggler := NewToggler(store, store)

	_, err := toggler.Toggle(context.Background(), KindSubscription, "user-1", "user-1")
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

// raceyRelations simulates a concurrent toggle sneaking its row in between the
// delete probe and the create.
type raceyRelations struct {
	*inMemoryRelations
	raced bool
}

func (s *raceyRelations) DeleteRelation(ctx context.Context, kind Kind, targetID, actorID string) (bool, error) {
	deleted, err := s.inMemoryRelations.DeleteRelation(ctx, kind, targetID, actorID)
	if !deleted && err == nil && !s.raced {
		s.raced = true
		// Another request wins the creation race right after our probe.
		if err := s.inMemoryRelations.CreateRelation(ctx, kind, targetID, actorID); err != nil {
			return false, err
		}
	}
	return deleted, err
}

func TestToggleRetriesDeleteAfterLostRace(t *testing.T) {
	store := &raceyRelations{inMemoryRelations: newInMemoryRelations("video-1")}
	toggler := NewToggler(store, store)

	active, err := toggler.Toggle(context.Background(), KindVideoLike, "video-1", "user-1")
	if err != nil {
		t.Fatalf("toggle after lost race: %v", err)
	}
	if active {
		t.Fatal("expected the retried delete path to report the relation inactive")
	}
	if store.conflicts != 1 {
		t.Fatalf("expected exactly one create conflict, got %d", store.conflicts)
	}
}

func TestToggleConcurrentSameUser(t *testing.T) {
	store := newInMemoryRelations("video-1")
	toggler := NewToggler(store, store)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := toggler.Toggle(context.Background(), KindVideoLike, "video-1", "user-1"); err != nil && !errors.Is(err, apperr.ErrConflict) {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected toggle error: %v", err)
	}
}
