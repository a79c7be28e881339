package service

import (
	"context"
	"fmt"

	"github.com/sumire/market/internal/domain"
)

// Exister reports whether an entity with the given id exists.
type Exister interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// JoinToggler flips the join row between an actor and a target.
type JoinToggler interface {
	Toggle(ctx context.Context, actorID, targetID int64) (domain.ToggleResult, error)
}

// ToggleEngine creates a join row when it is absent and deletes it when it
// is present. Both ends must exist before anything is written.
type ToggleEngine struct {
	actorName  string
	actors     Exister
	targetName string
	targets    Exister
	rows       JoinToggler
}

// NewToggleEngine creates a ToggleEngine over the given actor and target sets.
func NewToggleEngine(actorName string, actors Exister, targetName string, targets Exister, rows JoinToggler) *ToggleEngine {
	return &ToggleEngine{
		actorName:  actorName,
		actors:     actors,
		targetName: targetName,
		targets:    targets,
		rows:       rows,
	}
}

// Toggle flips the (actor, target) row and reports the resulting state.
func (e *ToggleEngine) Toggle(ctx context.Context, actorID, targetID int64) (domain.ToggleResult, error) {
	if err := mustExist(ctx, e.actors, e.actorName, actorID); err != nil {
		return "", err
	}
	if err := mustExist(ctx, e.targets, e.targetName, targetID); err != nil {
		return "", err
	}
	return e.rows.Toggle(ctx, actorID, targetID)
}

func mustExist(ctx context.Context, set Exister, name string, id int64) error {
	ok, err := set.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", name, id, err)
	}
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "%s %d not found", name, id)
	}
	return nil
}
