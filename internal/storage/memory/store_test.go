package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"notie/internal/models"
	"notie/internal/storage"
)

func TestStore_CreateTask(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTask(ctx, models.Task{Title: "buy milk", Description: "2%", Owner: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "alice", created.Owner)
	require.False(t, created.Status)
	require.True(t, created.CreatedAt.Equal(created.UpdatedAt))
}

func TestStore_ListTasks_OwnerScoped(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateTask(ctx, models.Task{Title: "first", Owner: "alice"})
	require.NoError(t, err)
	second, err := s.CreateTask(ctx, models.Task{Title: "second", Owner: "alice"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, models.Task{Title: "other", Owner: "bob"})
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.Equal(t, "alice", task.Owner)
	}
	// Newest-created first.
	require.Equal(t, second.ID, tasks[0].ID)

	empty, err := s.ListTasks(ctx, "carol")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestStore_UpdateTask_Patch(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTask(ctx, models.Task{Title: "title", Description: "desc", Owner: "alice"})
	require.NoError(t, err)

	done := true
	updated, err := s.UpdateTask(ctx, created.ID, "alice", storage.TaskPatch{Status: &done})
	require.NoError(t, err)
	require.True(t, updated.Status)
	require.Equal(t, "title", updated.Title)
	require.Equal(t, "desc", updated.Description)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// A present empty description clears the field.
	empty := ""
	updated, err = s.UpdateTask(ctx, created.ID, "alice", storage.TaskPatch{Description: &empty})
	require.NoError(t, err)
	require.Equal(t, "", updated.Description)
	require.True(t, updated.Status)
}

func TestStore_UpdateTask_WrongOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTask(ctx, models.Task{Title: "title", Owner: "alice"})
	require.NoError(t, err)

	done := true
	_, err = s.UpdateTask(ctx, created.ID, "bob", storage.TaskPatch{Status: &done})
	require.True(t, errors.Is(err, storage.ErrNotFound), "err = %v, want ErrNotFound", err)
}

func TestStore_DeleteTask(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTask(ctx, models.Task{Title: "title", Owner: "alice"})
	require.NoError(t, err)

	_, err = s.DeleteTask(ctx, created.ID, "bob")
	require.True(t, errors.Is(err, storage.ErrNotFound), "err = %v, want ErrNotFound", err)

	deleted, err := s.DeleteTask(ctx, created.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	// Deleting twice is not idempotent.
	_, err = s.DeleteTask(ctx, created.ID, "alice")
	require.True(t, errors.Is(err, storage.ErrNotFound), "err = %v, want ErrNotFound", err)
}

func TestStore_Users(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "alice@example.com", Password: "hash"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = s.CreateUser(ctx, models.User{Username: "alice2", Email: "Alice@Example.com", Password: "hash"})
	require.True(t, errors.Is(err, storage.ErrDuplicateEmail), "err = %v, want ErrDuplicateEmail", err)

	byEmail, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := s.UserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = s.UserByID(ctx, "missing")
	require.True(t, errors.Is(err, storage.ErrNotFound), "err = %v, want ErrNotFound", err)
}
