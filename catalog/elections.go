// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

const electionColumns = `id, title, description, start_date, end_date, status, max_voters, created_at, updated_at`

// CreateElection validates req and stores a new election in NOT_STARTED.
func (c *Catalog) CreateElection(ctx context.Context, req models.CreateElectionRequest) (models.Election, error) {
	return c.AddElection(ctx, models.Election{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.StatusNotStarted,
		MaxVoters:   req.MaxVoters,
	})
}

// AddElection inserts e. An empty ID is generated and an empty status
// defaults to NOT_STARTED.
func (c *Catalog) AddElection(ctx context.Context, e models.Election) (models.Election, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return models.Election{}, voteerr.Invalid("title is required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return models.Election{}, voteerr.Invalid("start_date and end_date are required")
	}
	if !e.EndDate.After(e.StartDate) {
		return models.Election{}, voteerr.Invalid("end_date must be after start_date")
	}
	if e.MaxVoters != nil && *e.MaxVoters < 1 {
		return models.Election{}, voteerr.Invalid("max_voters must be positive")
	}
	if e.Status == "" {
		e.Status = models.StatusNotStarted
	}
	if !models.ValidStatus(e.Status) {
		return models.Election{}, voteerr.Invalid("unknown status %q", e.Status)
	}

	if e.ID == "" {
		id, err := c.newID("create election")
		if err != nil {
			return models.Election{}, err
		}
		e.ID = id
	}

	now := c.now().UTC().Truncate(time.Second)
	e.StartDate = e.StartDate.UTC().Truncate(time.Second)
	e.EndDate = e.EndDate.UTC().Truncate(time.Second)
	e.CreatedAt = now
	e.UpdatedAt = now

	var maxVoters sql.NullInt64
	if e.MaxVoters != nil {
		maxVoters = sql.NullInt64{Int64: int64(*e.MaxVoters), Valid: true}
	}

	_, err := c.q.ExecContext(ctx, `
		INSERT INTO election (`+electionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Status, maxVoters, e.CreatedAt, e.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return models.Election{}, voteerr.Duplicate(voteerr.EntityElection)
	}
	if err != nil {
		return models.Election{}, voteerr.Storage("create election", err)
	}

	slog.Info("election created", "election_id", e.ID, "title", e.Title)
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanElection(row scanner) (models.Election, error) {
	var (
		e         models.Election
		maxVoters sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Status, &maxVoters, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Election{}, err
	}
	if maxVoters.Valid {
		n := int(maxVoters.Int64)
		e.MaxVoters = &n
	}
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	return e, nil
}

func (c *Catalog) GetElection(ctx context.Context, electionID string) (models.Election, error) {
	e, err := scanElection(c.q.QueryRowContext(ctx, `
		SELECT `+electionColumns+` FROM election WHERE id = $1
	`, electionID))

	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, voteerr.NotFound(voteerr.EntityElection)
	}
	if err != nil {
		return models.Election{}, voteerr.Storage("get election", err)
	}
	return e, nil
}

// ListElections returns elections in ID order. An empty status lists all of
// them.
func (c *Catalog) ListElections(ctx context.Context, status string) ([]models.Election, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case status == "":
		rows, err = c.q.QueryContext(ctx, `
			SELECT `+electionColumns+` FROM election ORDER BY id
		`)
	case models.ValidStatus(status):
		rows, err = c.q.QueryContext(ctx, `
			SELECT `+electionColumns+` FROM election WHERE status = $1 ORDER BY id
		`, status)
	default:
		return nil, voteerr.Invalid("unknown status %q", status)
	}
	if err != nil {
		return nil, voteerr.Storage("list elections", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, voteerr.Storage("list elections", err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage("list elections", err)
	}
	return elections, nil
}

// SetStatus moves an election to status. Any valid status may follow any
// other; the caller is the administrative authority.
func (c *Catalog) SetStatus(ctx context.Context, electionID, status string) (models.Election, error) {
	if !models.ValidStatus(status) {
		return models.Election{}, voteerr.Invalid("unknown status %q", status)
	}

	res, err := c.q.ExecContext(ctx, `
		UPDATE election SET status = $1, updated_at = $2 WHERE id = $3
	`, status, c.now().UTC().Truncate(time.Second), electionID)
	if err != nil {
		return models.Election{}, voteerr.Storage("set election status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Election{}, voteerr.Storage("set election status", err)
	}
	if n == 0 {
		return models.Election{}, voteerr.NotFound(voteerr.EntityElection)
	}

	slog.Info("election status changed", "election_id", electionID, "status", status)
	return c.GetElection(ctx, electionID)
}

// DeleteElection removes an election together with its candidates and
// allowed voters. Elections with recorded votes cannot be deleted.
func (c *Catalog) DeleteElection(ctx context.Context, electionID string) error {
	return c.withTx(ctx, "delete election", func(q db.Querier) error {
		// Recording a vote locks the same row, so no vote can commit between
		// the count below and the deletes.
		found, err := db.LockElection(ctx, q, electionID, "")
		if err != nil {
			return voteerr.Storage("delete election", err)
		}
		if !found {
			return voteerr.NotFound(voteerr.EntityElection)
		}

		var votes int64
		err = q.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM vote WHERE election_id = $1
		`, electionID).Scan(&votes)
		if err != nil {
			return voteerr.Storage("delete election", err)
		}
		if votes > 0 {
			return voteerr.New(voteerr.KindElectionHasRecordedVotes)
		}

		for _, stmt := range []string{
			`DELETE FROM allowed_voter WHERE election_id = $1`,
			`DELETE FROM candidate WHERE election_id = $1`,
			`DELETE FROM election WHERE id = $1`,
		} {
			_, err := q.ExecContext(ctx, stmt, electionID)
			if db.IsForeignKeyViolation(err) {
				return voteerr.New(voteerr.KindElectionHasRecordedVotes)
			}
			if err != nil {
				return voteerr.Storage("delete election", err)
			}
		}
		return nil
	})
}

// AdvanceSchedule applies the window boundaries at now: NOT_STARTED elections
// whose window contains now open, ONGOING elections whose end has passed
// complete. Each transition is a conditional UPDATE on the current status, so
// a concurrent administrative change is never overwritten.
func (c *Catalog) AdvanceSchedule(ctx context.Context, now time.Time) (opened, closed int64, err error) {
	now = now.UTC().Truncate(time.Second)

	res, err := c.q.ExecContext(ctx, `
		UPDATE election SET status = $1, updated_at = $2
		WHERE status = $3 AND start_date <= $4 AND end_date > $5
	`, models.StatusOngoing, now, models.StatusNotStarted, now, now)
	if err != nil {
		return 0, 0, voteerr.Storage("open elections", err)
	}
	if opened, err = res.RowsAffected(); err != nil {
		return 0, 0, voteerr.Storage("open elections", err)
	}

	res, err = c.q.ExecContext(ctx, `
		UPDATE election SET status = $1, updated_at = $2
		WHERE status = $3 AND end_date <= $4
	`, models.StatusCompleted, now, models.StatusOngoing, now)
	if err != nil {
		return opened, 0, voteerr.Storage("close elections", err)
	}
	if closed, err = res.RowsAffected(); err != nil {
		return opened, 0, voteerr.Storage("close elections", err)
	}

	if opened > 0 || closed > 0 {
		slog.Info("election schedule advanced", "opened", opened, "closed", closed)
	}
	return opened, closed, nil
}

// withTx runs fn in one transaction. Errors that are not already rejections
// are reported as storage failures.
func (c *Catalog) withTx(ctx context.Context, op string, fn func(q db.Querier) error) error {
	err := db.WithTx(ctx, c.q, fn)
	var verr *voteerr.Error
	if err != nil && !errors.As(err, &verr) {
		return voteerr.Storage(op, err)
	}
	return err
}
