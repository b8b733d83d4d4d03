// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

type countingAdvancer struct {
	calls atomic.Int32
	err   error
}

func (a *countingAdvancer) AdvanceSchedule(context.Context, time.Time) (int64, int64, error) {
	a.calls.Add(1)
	return 0, 0, a.err
}

func TestRunTicksUntilCancelled(t *testing.T) {
	adv := &countingAdvancer{}
	s := New(adv, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return adv.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestRunDisabled(t *testing.T) {
	adv := &countingAdvancer{}
	New(adv, 0).Run(context.Background())
	assert.Zero(t, adv.calls.Load())
}

func TestTickSurvivesErrors(t *testing.T) {
	adv := &countingAdvancer{err: errors.New("storage failure")}
	s := New(adv, time.Hour)

	s.Tick(context.Background())
	s.Tick(context.Background())
	assert.Equal(t, int32(2), adv.calls.Load())
}

func TestTickTransitionsElections(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cat := catalog.New(conn)
	ctx := context.Background()

	// Test elections span one day either side of now.
	due := testutil.CreateTestElection(t, conn, models.StatusNotStarted)
	cancelled := testutil.CreateTestElection(t, conn, models.StatusCancelled)

	s := New(cat, time.Minute)
	s.Tick(ctx)

	e, err := cat.GetElection(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, e.Status)

	e, err = cat.GetElection(ctx, cancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, e.Status)

	// Two days later the election has ended.
	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	s.Tick(ctx)

	e, err = cat.GetElection(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, e.Status)
}
