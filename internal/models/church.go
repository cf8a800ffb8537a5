package models

import "time"

// Diocese types
const (
	DioceseTypeDiocese     = "diocese"
	DioceseTypeArchdiocese = "archdiocese"
)

// Diocese is an ecclesiastical territory a parish belongs to.
type Diocese struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"diocese_type" db:"diocese_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Parish belongs to a city and a diocese.
type Parish struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CityID    int       `json:"city_id" db:"city_id"`
	DioceseID int       `json:"diocese_id" db:"diocese_id"`
	ZoneID    *int      `json:"zone_id,omitempty" db:"zone_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Community is a local group inside a parish, walking through formation steps.
type Community struct {
	ID              int        `json:"id" db:"id"`
	Number          int        `json:"number" db:"number"`
	ParishID        int        `json:"parish_id" db:"parish_id"`
	StepWayID       *int       `json:"step_way_id,omitempty" db:"step_way_id"`
	BrothersCount   int        `json:"brothers_count" db:"brothers_count"`
	FoundedAt       *time.Time `json:"founded_at,omitempty" db:"founded_at"`
	CatechistTeamID *int       `json:"catechist_team_id,omitempty" db:"catechist_team_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// StepWay is an ordered formation stage a community progresses through.
type StepWay struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
}

// Team types
const (
	TeamTypeResponsables = "responsables"
	TeamTypeCatechists   = "catechists"
	TeamTypeItinerants   = "itinerants"
	TeamTypeCantors      = "cantors"
)

// Team is a role-based group of people. A nil CommunityID marks the single
// national team.
type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	TeamType    string    `json:"team_type" db:"team_type"`
	CommunityID *int      `json:"community_id,omitempty" db:"community_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ParishTeam links a catechist team to the parish it serves.
type ParishTeam struct {
	ID        int       `json:"id" db:"id"`
	ParishID  int       `json:"parish_id" db:"parish_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommunityStepLog is an append-only record of a community passing a step.
type CommunityStepLog struct {
	ID          int        `json:"id" db:"id"`
	CommunityID int        `json:"community_id" db:"community_id"`
	StepWayID   int        `json:"step_way_id" db:"step_way_id"`
	HeldAt      *time.Time `json:"held_at,omitempty" db:"held_at"`
	Outcome     *string    `json:"outcome,omitempty" db:"outcome"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ParishCatechesis is an append-only record of a catechesis held in a parish.
type ParishCatechesis struct {
	ID        int        `json:"id" db:"id"`
	ParishID  int        `json:"parish_id" db:"parish_id"`
	StartedAt *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	Outcome   *string    `json:"outcome,omitempty" db:"outcome"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
