package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"notie/internal/models"
)

var (
	// ErrNotFound is returned when no record matches both the identifier and
	// the owner. Callers cannot distinguish "does not exist" from "owned by
	// someone else".
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// TaskPatch describes a partial task update. Nil fields are left untouched;
// a non-nil empty Description clears the stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *bool
}

// Empty reports whether the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Store is the persistence contract shared by the mongo, sqlite and memory
// implementations. Every operation is atomic at the single-record level; task
// reads and mutations are always scoped to an owner.
type Store interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)

	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	// ListTasks returns every task owned by owner, newest-created first.
	ListTasks(ctx context.Context, owner string) ([]models.Task, error)
	UpdateTask(ctx context.Context, id, owner string, patch TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id, owner string) (models.Task, error)

	Close(ctx context.Context) error
}

// NewID mints a record identifier. ObjectID hex is used by every store so the
// identifier format does not depend on the configured backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
