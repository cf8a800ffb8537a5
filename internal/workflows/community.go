package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// ErrCommunityNotFound is returned when the target community does not exist.
var ErrCommunityNotFound = errors.New("community not found")

// MergeResult carries the counts reported by the merge_communities stored
// procedure.
type MergeResult struct {
	Success                bool `json:"success"`
	BrothersMoved          int  `json:"brothers_moved"`
	MembersMoved           int  `json:"members_moved"`
	RemovedCommunityNumber int  `json:"removed_community_number"`
}

// CommunityWorkflows runs the multi-table community operations that the
// generic adapter cannot express.
type CommunityWorkflows struct {
	db    store.Querier
	cache store.Cache
	log   *logger.Logger
}

func NewCommunityWorkflows(db store.Querier, cache store.Cache, log *logger.Logger) *CommunityWorkflows {
	return &CommunityWorkflows{db: db, cache: cache, log: log}
}

// Tables a community merge or deletion can touch; all of their cached pages
// go stale at once.
var communityTables = []string{"belongs", "parish_teams", "teams", "brothers", "community_step_logs", "communities"}

func (w *CommunityWorkflows) invalidateAll() {
	for _, t := range communityTables {
		w.cache.Invalidate(t)
	}
}

// Merge folds removeID into keepID through the merge_communities stored
// procedure, the one genuinely atomic operation of the system. The procedure
// reassigns brothers and team members and deletes the removed community.
func (w *CommunityWorkflows) Merge(ctx context.Context, keepID, removeID int) (*MergeResult, error) {
	if keepID == removeID {
		return nil, fmt.Errorf("cannot merge a community into itself")
	}

	var res MergeResult
	err := w.db.QueryRow(ctx,
		"SELECT success, brothers_moved, members_moved, removed_community_number FROM merge_communities($1, $2)",
		keepID, removeID,
	).Scan(&res.Success, &res.BrothersMoved, &res.MembersMoved, &res.RemovedCommunityNumber)
	if err != nil {
		return nil, fmt.Errorf("merge_communities(%d, %d): %w", keepID, removeID, err)
	}

	w.invalidateAll()
	w.log.Info("communities merged",
		"keep_id", keepID,
		"remove_id", removeID,
		"brothers_moved", res.BrothersMoved,
		"members_moved", res.MembersMoved)
	return &res, nil
}

// Delete removes a community and its dependents in foreign-key-safe order:
// team memberships, parish-team links, teams, brothers, step logs, then the
// community row. Each destructive step captures what it removes so a failure
// later in the sequence restores everything already deleted.
func (w *CommunityWorkflows) Delete(ctx context.Context, communityID int) error {
	var exists bool
	err := w.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM communities WHERE id = $1)", communityID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check community %d: %w", communityID, err)
	}
	if !exists {
		return ErrCommunityNotFound
	}

	saga := NewSaga("delete_community", w.log)
	saga.AddStep(w.deleteDependents("belongs",
		"community_id = $1 OR team_id IN (SELECT id FROM teams WHERE community_id = $1)", communityID))
	saga.AddStep(w.deleteDependents("parish_teams",
		"team_id IN (SELECT id FROM teams WHERE community_id = $1)", communityID))
	saga.AddStep(w.clearCatechistTeamRefs(communityID))
	saga.AddStep(w.deleteDependents("teams", "community_id = $1", communityID))
	saga.AddStep(w.deleteDependents("brothers", "community_id = $1", communityID))
	saga.AddStep(w.deleteDependents("community_step_logs", "community_id = $1", communityID))
	saga.AddStep(w.deleteDependents("communities", "id = $1", communityID))

	if err := saga.Run(ctx); err != nil {
		return err
	}

	w.invalidateAll()
	w.log.Info("community deleted", "community_id", communityID)
	return nil
}

// deleteDependents builds a capture-then-delete step whose compensation
// reinserts the captured rows.
func (w *CommunityWorkflows) deleteDependents(table, where string, communityID int) Step {
	var captured []store.Row
	return Step{
		Name: "delete_" + table,
		Action: func(ctx context.Context) error {
			rows, err := captureRows(ctx, w.db, table, where, communityID)
			if err != nil {
				return err
			}
			captured = rows
			sql := fmt.Sprintf("DELETE FROM %s WHERE %s", table, where)
			if _, err := w.db.Exec(ctx, sql, communityID); err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return reinsertRows(ctx, w.db, table, captured)
		},
	}
}

// clearCatechistTeamRefs detaches other communities from any catechist team
// owned by the community being deleted, so the team rows can go.
func (w *CommunityWorkflows) clearCatechistTeamRefs(communityID int) Step {
	var detached []store.Row
	return Step{
		Name: "clear_catechist_team_refs",
		Action: func(ctx context.Context) error {
			rows, err := captureRows(ctx, w.db, "communities",
				"catechist_team_id IN (SELECT id FROM teams WHERE community_id = $1)", communityID)
			if err != nil {
				return err
			}
			detached = rows
			_, err = w.db.Exec(ctx, `
				UPDATE communities SET catechist_team_id = NULL
				WHERE catechist_team_id IN (SELECT id FROM teams WHERE community_id = $1)
			`, communityID)
			return err
		},
		Compensate: func(ctx context.Context) error {
			for _, r := range detached {
				if _, err := w.db.Exec(ctx,
					"UPDATE communities SET catechist_team_id = $1 WHERE id = $2",
					r["catechist_team_id"], r["id"],
				); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
