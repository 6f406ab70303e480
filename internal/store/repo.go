package store

import (
	"context"
	"errors"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Repo is the dispatch journal.
type Repo interface {
	RecordRun(ctx context.Context, run *domain.DispatchRun) error
	LastRun(ctx context.Context) (*domain.DispatchRun, error)
	HasLiveSend(ctx context.Context, day string) (bool, error)
	Close() error
}
