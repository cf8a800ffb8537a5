package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/models"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// ErrNotMarriageable is returned when a spouse is requested for a person
// type that cannot be married.
var ErrNotMarriageable = errors.New("person type cannot carry a spouse")

// SpousePayload is one half of a marriage.
type SpousePayload struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Gender    string  `json:"gender" binding:"required"`
	Birthdate *string `json:"birthdate,omitempty"`
}

// MarriageWorkflow creates the two mutually referencing person rows of a
// married couple.
type MarriageWorkflow struct {
	db    store.Querier
	cache store.Cache
	log   *logger.Logger
}

func NewMarriageWorkflow(db store.Querier, cache store.Cache, log *logger.Logger) *MarriageWorkflow {
	return &MarriageWorkflow{db: db, cache: cache, log: log}
}

// Create inserts the husband, then the wife referencing him, then links the
// husband back, as a saga: if any insert or the final link fails, the
// already-inserted rows are removed again.
func (w *MarriageWorkflow) Create(ctx context.Context, husband, wife SpousePayload) (husbandID, wifeID int, err error) {
	saga := NewSaga("create_marriage", w.log)

	saga.AddStep(Step{
		Name: "insert_husband",
		Action: func(ctx context.Context) error {
			husbandID, err = w.insertSpouse(ctx, husband, nil)
			return err
		},
		Compensate: func(ctx context.Context) error {
			_, err := w.db.Exec(ctx, "DELETE FROM people WHERE id = $1", husbandID)
			return err
		},
	})

	saga.AddStep(Step{
		Name: "insert_wife",
		Action: func(ctx context.Context) error {
			wifeID, err = w.insertSpouse(ctx, wife, &husbandID)
			return err
		},
		Compensate: func(ctx context.Context) error {
			_, err := w.db.Exec(ctx, "DELETE FROM people WHERE id = $1", wifeID)
			return err
		},
	})

	saga.AddStep(Step{
		Name: "link_husband",
		Action: func(ctx context.Context) error {
			tag, err := w.db.Exec(ctx,
				"UPDATE people SET spouse_id = $1, updated_at = NOW() WHERE id = $2",
				wifeID, husbandID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("husband row %d disappeared", husbandID)
			}
			return nil
		},
	})

	if err := saga.Run(ctx); err != nil {
		return 0, 0, err
	}

	w.cache.Invalidate("people")
	w.log.Info("marriage created", "husband_id", husbandID, "wife_id", wifeID)
	return husbandID, wifeID, nil
}

func (w *MarriageWorkflow) insertSpouse(ctx context.Context, p SpousePayload, spouseID *int) (int, error) {
	var id int
	err := w.db.QueryRow(ctx, `
		INSERT INTO people (first_name, last_name, phone, email, gender, person_type_id, spouse_id, birthdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date)
		RETURNING id
	`, p.FirstName, p.LastName, p.Phone, p.Email, p.Gender, models.PersonTypeMarried, spouseID, p.Birthdate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s %s: %w", p.FirstName, p.LastName, err)
	}
	return id, nil
}

// LinkSpouses marries two existing people, writing both back-references.
// Both must be of a marriageable type and currently unmarried.
func (w *MarriageWorkflow) LinkSpouses(ctx context.Context, personID, spouseID int) error {
	for _, id := range []int{personID, spouseID} {
		var typeID int
		var existing *int
		err := w.db.QueryRow(ctx,
			"SELECT person_type_id, spouse_id FROM people WHERE id = $1", id,
		).Scan(&typeID, &existing)
		if err != nil {
			return fmt.Errorf("failed to load person %d: %w", id, err)
		}
		if !models.MarriageablePersonTypes[typeID] {
			return ErrNotMarriageable
		}
		if existing != nil {
			return fmt.Errorf("person %d already has a spouse", id)
		}
	}

	saga := NewSaga("link_spouses", w.log)
	saga.AddStep(Step{
		Name: "link_first",
		Action: func(ctx context.Context) error {
			_, err := w.db.Exec(ctx,
				"UPDATE people SET spouse_id = $1, updated_at = NOW() WHERE id = $2", spouseID, personID)
			return err
		},
		Compensate: func(ctx context.Context) error {
			_, err := w.db.Exec(ctx,
				"UPDATE people SET spouse_id = NULL, updated_at = NOW() WHERE id = $1", personID)
			return err
		},
	})
	saga.AddStep(Step{
		Name: "link_second",
		Action: func(ctx context.Context) error {
			_, err := w.db.Exec(ctx,
				"UPDATE people SET spouse_id = $1, updated_at = NOW() WHERE id = $2", personID, spouseID)
			return err
		},
	})

	if err := saga.Run(ctx); err != nil {
		return err
	}
	w.cache.Invalidate("people")
	return nil
}
