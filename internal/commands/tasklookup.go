package commands

import (
	"context"
	"fmt"

	"taskdash/internal/aggregate"
	"taskdash/internal/gateway"
	"taskdash/internal/session"
	"taskdash/internal/store"
	"taskdash/internal/task"
)

// errRefNotFound marks references that match nothing in a fresh snapshot.
type errRefNotFound struct {
	ref TaskRef
}

func (e errRefNotFound) Error() string {
	if e.ref.IsLiteral() {
		return fmt.Sprintf("task not found: %s", e.ref.ID)
	}
	return fmt.Sprintf("task number out of range: %s", e.ref)
}

// resolveTask re-fetches the user's tasks and returns the one ref points at.
// Positions follow the listing order of the list command.
func resolveTask(ctx context.Context, gw gateway.Gateway, tok session.Token, ref TaskRef) (task.Task, error) {
	st := store.New()
	if err := st.Refresh(ctx, gw, tok); err != nil {
		return task.Task{}, err
	}

	if ref.IsLiteral() {
		t, ok := st.Find(ref.ID)
		if !ok {
			return task.Task{}, errRefNotFound{ref}
		}
		return t, nil
	}

	todo, completed := aggregate.Flatten(aggregate.GroupByDeadline(st.Snapshot()))
	pool := todo
	if ref.Completed {
		pool = completed
	}
	if ref.Num > len(pool) {
		return task.Task{}, errRefNotFound{ref}
	}
	return pool[ref.Num-1], nil
}
