// Package engagement implements the toggle relations (likes, subscriptions)
// and the deduplicated view counter with its watch-history bookkeeping.
package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/logging"
)

// Kind identifies which toggle relation a row belongs to.
type Kind string

const (
	KindVideoLike    Kind = "video_like"
	KindCommentLike  Kind = "comment_like"
	KindTweetLike    Kind = "tweet_like"
	KindSubscription Kind = "subscription"
)

// RelationStore persists toggle relations. Create must be backed by a store
// uniqueness constraint on (actor, target) per kind and report violations as
// apperr.ErrConflict. Delete reports whether a row was removed.
type RelationStore interface {
	CreateRelation(ctx context.Context, kind Kind, targetID, actorID string) error
	DeleteRelation(ctx context.Context, kind Kind, targetID, actorID string) (bool, error)
}

// TargetChecker verifies the toggle target exists before a relation row is
// written, so dangling relations cannot be created through the API.
type TargetChecker interface {
	TargetExists(ctx context.Context, kind Kind, targetID string) (bool, error)
}

// Toggler flips boolean-presence relations: a relation is "on" iff its row
// exists. Both toggle directions are safe under concurrency because the store
// enforces at most one row per (actor, target) pair.
type Toggler struct {
	relations RelationStore
	targets   TargetChecker
}

// NewToggler constructs a Toggler over the provided stores.
func NewToggler(relations RelationStore, targets TargetChecker) *Toggler {
	if relations == nil || targets == nil {
		panic("engagement: relation store and target checker must not be nil")
	}
	return &Toggler{relations: relations, targets: targets}
}

// Toggle flips the relation for (actorID, targetID) and reports the resulting
// state: true when the relation is now active. A subscription where the actor
// and target are the same user is rejected before any store call.
func (t *Toggler) Toggle(ctx context.Context, kind Kind, targetID, actorID string) (bool, error) {
	if actorID == "" {
		return false, fmt.Errorf("toggle %s: missing actor: %w", kind, apperr.ErrUnauthorized)
	}
	if kind == KindSubscription && targetID == actorID {
		return false, fmt.Errorf("cannot subscribe to own channel: %w", apperr.ErrInvalidArgument)
	}

	ctx, span := logging.StartSpan(ctx, "engagement.toggle")
	defer span.End()

	exists, err := t.targets.TargetExists(ctx, kind, targetID)
	if err != nil {
		return false, fmt.Errorf("check toggle target %s: %w", kind, err)
	}
	if !exists {
		return false, fmt.Errorf("toggle target %s %s: %w", kind, targetID, apperr.ErrNotFound)
	}

	deleted, err := t.relations.DeleteRelation(ctx, kind, targetID, actorID)
	if err != nil {
		return false, fmt.Errorf("delete %s relation: %w", kind, err)
	}
	if deleted {
		return false, nil
	}

	err = t.relations.CreateRelation(ctx, kind, targetID, actorID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, apperr.ErrConflict) {
		return false, fmt.Errorf("create %s relation: %w", kind, err)
	}

	// A concurrent toggle created the row first. Take the delete path once;
	// if that also finds nothing, give up and report the conflict.
	logging.FromContext(ctx).Warn("toggle lost creation race, retrying delete",
		"kind", string(kind), "target", targetID)

	deleted, err = t.relations.DeleteRelation(ctx, kind, targetID, actorID)
	if err != nil {
		return false, fmt.Errorf("retry delete %s relation: %w", kind, err)
	}
	if deleted {
		return false, nil
	}

	return false, fmt.Errorf("toggle %s relation: %w", kind, apperr.ErrConflict)
}
