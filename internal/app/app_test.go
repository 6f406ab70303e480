package app

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
	"github.com/KatrinTsesko/birthday-bot/internal/roster"
	"github.com/KatrinTsesko/birthday-bot/internal/scheduler"
)

type idleDispatcher struct{}

func (idleDispatcher) Live(context.Context, time.Time) (dispatch.Result, error) {
	return dispatch.Result{}, nil
}

func TestStopAll_StopsRunningScheduler(t *testing.T) {
	dir := t.TempDir()
	rs, err := roster.Open(filepath.Join(dir, "birthdays.json"), filepath.Join(dir, "export.csv"), zap.NewNop())
	require.NoError(t, err)

	a := &App{log: zap.NewNop(), roster: rs, httpSrv: &http.Server{}}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sched := scheduler.New(idleDispatcher{}, nil, domain.Resolver{Location: time.UTC}, scheduler.Options{AtMinutes: 9 * 60}, zap.NewNop())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	done := make(chan struct{})
	go func() {
		a.stopAll(stop, &wg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on the scheduler")
	}
}
