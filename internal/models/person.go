package models

import "time"

// Person type ("carisma") identifiers. These mirror the seeded person_types
// table, which the schema treats as fixed vocabulary.
const (
	PersonTypeMarried    = 1
	PersonTypeSingle     = 2
	PersonTypePresbyter  = 3
	PersonTypeSeminarian = 4
	PersonTypeDeacon     = 5
	PersonTypeNun        = 6
	PersonTypeWidowed    = 7
)

// MarriageablePersonTypes lists the person types that may carry a spouse
// reference. Listings must never pair an unmarriageable person with a spouse,
// even when a stale spouse_id is present on the row.
var MarriageablePersonTypes = map[int]bool{
	PersonTypeMarried: true,
	PersonTypeWidowed: true,
}

// Person is an individual tracked by the system.
type Person struct {
	ID           int        `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Email        *string    `json:"email,omitempty" db:"email"`
	Gender       string     `json:"gender" db:"gender"`
	PersonTypeID int        `json:"person_type_id" db:"person_type_id"`
	SpouseID     *int       `json:"spouse_id,omitempty" db:"spouse_id"`
	Birthdate    *time.Time `json:"birthdate,omitempty" db:"birthdate"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CanHaveSpouse reports whether this person's type admits a spouse at all.
func (p *Person) CanHaveSpouse() bool {
	return MarriageablePersonTypes[p.PersonTypeID]
}

// EffectiveSpouseID returns the spouse reference, masking it for types that
// cannot be married regardless of what the row says.
func (p *Person) EffectiveSpouseID() *int {
	if !p.CanHaveSpouse() {
		return nil
	}
	return p.SpouseID
}

// PersonType is a row of the fixed carisma vocabulary.
type PersonType struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Marriageable bool   `json:"marriageable" db:"marriageable"`
}

// Brother links a person to a community (community membership).
type Brother struct {
	ID          int       `json:"id" db:"id"`
	PersonID    int       `json:"person_id" db:"person_id"`
	CommunityID int       `json:"community_id" db:"community_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Belongs links a person to a team. CommunityID is denormalized from the team
// so membership lists can filter without the extra join.
type Belongs struct {
	ID            int       `json:"id" db:"id"`
	PersonID      int       `json:"person_id" db:"person_id"`
	TeamID        int       `json:"team_id" db:"team_id"`
	CommunityID   *int      `json:"community_id,omitempty" db:"community_id"`
	IsResponsible bool      `json:"is_responsible" db:"is_responsible"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
