package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/apperr"
	"taskdash/internal/store"
	"taskdash/internal/task"
	"taskdash/internal/testutil"
)

func sample(id string) task.Task {
	return task.Task{
		ID:       id,
		Heading:  "h-" + id,
		Content:  "c",
		Priority: task.PriorityLow,
		Deadline: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_Replace(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Replace([]task.Task{sample("a"), sample("b")}))
	assert.Equal(t, 2, s.Len())

	got, ok := s.Find("b")
	require.True(t, ok)
	assert.Equal(t, "h-b", got.Heading)

	_, ok = s.Find("zzz")
	assert.False(t, ok)
}

func TestStore_ReplaceRejectsDuplicates(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Replace([]task.Task{sample("a")}))

	err := s.Replace([]task.Task{sample("x"), sample("x")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, []task.Task{sample("a")}, s.Snapshot())

	err = s.Replace([]task.Task{sample("")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := store.New()
	in := []task.Task{sample("a")}
	require.NoError(t, s.Replace(in))

	in[0].Heading = "mutated"
	snap := s.Snapshot()
	snap[0].Heading = "mutated again"

	got, _ := s.Find("a")
	assert.Equal(t, "h-a", got.Heading)
}

func TestStore_Refresh(t *testing.T) {
	fake := testutil.NewFakeGateway()
	tok := fake.IssueToken("Ada")
	fake.Seed(sample("a"))
	fake.Seed(sample("b"))

	s := store.New()
	require.NoError(t, s.Refresh(context.Background(), fake, tok))
	assert.Equal(t, 2, s.Len())

	fake.FetchErr = apperr.Network("fetch tasks", errors.New("connection refused"))
	err := s.Refresh(context.Background(), fake, tok)
	assert.ErrorIs(t, err, apperr.ErrNetwork)
	assert.Equal(t, 2, s.Len(), "failed refresh must keep the previous snapshot")
}

func TestStore_DeleteTwiceLeavesStoreIntact(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeGateway()
	tok := fake.IssueToken("Ada")
	a := fake.Seed(sample("a"))
	fake.Seed(sample("b"))

	s := store.New()
	require.NoError(t, s.Refresh(ctx, fake, tok))

	require.NoError(t, fake.DeleteTask(ctx, tok, a.ID))
	require.NoError(t, s.Refresh(ctx, fake, tok))
	before := s.Snapshot()

	err := fake.DeleteTask(ctx, tok, a.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, before, s.Snapshot())

	require.NoError(t, s.Refresh(ctx, fake, tok))
	assert.Equal(t, before, s.Snapshot())
}
