package models

import "time"

// Country is the root of the geographic hierarchy.
type Country struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// State is a department/province inside a country.
type State struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountryID int       `json:"country_id" db:"country_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// City belongs to a state.
type City struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StateID   int       `json:"state_id" db:"state_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Zone is a sector of a city used to group parishes.
type Zone struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CityID    int       `json:"city_id" db:"city_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
