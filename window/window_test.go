// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

func TestIsOpenForVoting(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	a := New(conn)
	ctx := context.Background()

	// Every test election's dates enclose now; only the status matters.
	tests := []struct {
		status string
		open   bool
	}{
		{models.StatusNotStarted, false},
		{models.StatusOngoing, true},
		{models.StatusCompleted, false},
		{models.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			electionID := testutil.CreateTestElection(t, conn, tt.status)
			open, err := a.IsOpenForVoting(ctx, electionID)
			require.NoError(t, err)
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestIsOpenForVotingUnknownElection(t *testing.T) {
	a := New(testutil.SetupTestDB(t))

	_, err := a.IsOpenForVoting(context.Background(), "missing")
	assert.True(t, errors.Is(err, voteerr.ErrUnknownElection))
}

func TestIsOpenForVotingStorageFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT status FROM election").
		WithArgs("E1").
		WillReturnError(errors.New("connection reset by peer"))

	_, err = New(conn).IsOpenForVoting(context.Background(), "E1")
	assert.True(t, errors.Is(err, voteerr.ErrStorageFailure))
	assert.NoError(t, mock.ExpectationsWereMet())
}
