package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// ErrMembershipNotFound is returned when the target belongs row does not
// exist on the given team.
var ErrMembershipNotFound = errors.New("team membership not found")

// TeamWorkflows keeps the "at most one responsible member per team"
// convention.
type TeamWorkflows struct {
	db    store.Querier
	cache store.Cache
	log   *logger.Logger
}

func NewTeamWorkflows(db store.Querier, cache store.Cache, log *logger.Logger) *TeamWorkflows {
	return &TeamWorkflows{db: db, cache: cache, log: log}
}

// AssignResponsible moves the responsible flag to the given membership:
// first every currently flagged member of the team is cleared, then the
// target is set. Run as a saga so a failure on the second write restores the
// previous holder instead of leaving the team with nobody responsible.
func (w *TeamWorkflows) AssignResponsible(ctx context.Context, teamID, belongsID int) error {
	var previous []int
	saga := NewSaga("assign_responsible", w.log)

	saga.AddStep(Step{
		Name: "clear_current",
		Action: func(ctx context.Context) error {
			rows, err := w.db.Query(ctx,
				"SELECT id FROM belongs WHERE team_id = $1 AND is_responsible = true", teamID)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var id int
				if err := rows.Scan(&id); err != nil {
					return err
				}
				previous = append(previous, id)
			}
			if err := rows.Err(); err != nil {
				return err
			}

			_, err = w.db.Exec(ctx,
				"UPDATE belongs SET is_responsible = false WHERE team_id = $1 AND is_responsible = true", teamID)
			return err
		},
		Compensate: func(ctx context.Context) error {
			for _, id := range previous {
				if _, err := w.db.Exec(ctx,
					"UPDATE belongs SET is_responsible = true WHERE id = $1", id); err != nil {
					return err
				}
			}
			return nil
		},
	})

	saga.AddStep(Step{
		Name: "set_target",
		Action: func(ctx context.Context) error {
			tag, err := w.db.Exec(ctx,
				"UPDATE belongs SET is_responsible = true WHERE id = $1 AND team_id = $2", belongsID, teamID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrMembershipNotFound
			}
			return nil
		},
	})

	if err := saga.Run(ctx); err != nil {
		return err
	}

	w.cache.Invalidate("belongs")
	w.log.Info("responsible reassigned", "team_id", teamID, "belongs_id", belongsID)
	return nil
}

// ResponsibleOf returns the id of the belongs row currently flagged
// responsible for the team, or zero when the team has none.
func (w *TeamWorkflows) ResponsibleOf(ctx context.Context, teamID int) (int, error) {
	var id int
	err := w.db.QueryRow(ctx,
		"SELECT id FROM belongs WHERE team_id = $1 AND is_responsible = true LIMIT 1", teamID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query responsible of team %d: %w", teamID, err)
	}
	return id, nil
}
