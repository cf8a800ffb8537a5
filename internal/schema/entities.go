package schema

import (
	"fmt"
	"strings"
)

// countryCode enforces the two-letter country code before any SQL runs.
// Coerce later upper-cases it.
func countryCode(raw any) error {
	str, _ := raw.(string)
	str = strings.TrimSpace(str)
	if len(str) != 2 {
		return fmt.Errorf("el código del país debe tener exactamente 2 letras")
	}
	for _, r := range str {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return fmt.Errorf("el código del país solo admite letras")
		}
	}
	return nil
}

var genderOptions = []Option{
	{Value: "M", Label: "Hombre"},
	{Value: "F", Label: "Mujer"},
}

var dioceseTypeOptions = []Option{
	{Value: "diocese", Label: "Diócesis"},
	{Value: "archdiocese", Label: "Arquidiócesis"},
}

var teamTypeOptions = []Option{
	{Value: "responsables", Label: "Responsables"},
	{Value: "catechists", Label: "Catequistas"},
	{Value: "itinerants", Label: "Itinerantes"},
	{Value: "cantors", Label: "Cantores"},
}

// Entity schemas, consumed by the form renderer on the client and by the
// create/update handlers on the server.
var (
	Country = New("countries",
		Text("name", "Nombre", Required(), MaxLen(100), Placeholder("Nombre del país")),
		Text("code", "Código", Required(), Uppercase(), Validator(countryCode), Placeholder("CO")),
	)

	State = New("states",
		Text("name", "Nombre", Required(), MaxLen(100)),
		Select("country_id", "País", Required(), WithLoader("countries")),
	)

	City = New("cities",
		Text("name", "Nombre", Required(), MaxLen(100)),
		Select("state_id", "Departamento", Required(), WithLoader("states")),
	)

	Zone = New("zones",
		Text("name", "Nombre", Required(), MaxLen(100)),
		Select("city_id", "Ciudad", Required(), WithLoader("cities")),
	)

	Diocese = New("dioceses",
		Text("name", "Nombre", Required(), MaxLen(150)),
		Select("diocese_type", "Tipo", Required(), WithOptions(dioceseTypeOptions...)),
	)

	Parish = New("parishes",
		Text("name", "Nombre", Required(), MaxLen(150)),
		TextArea("address", "Dirección", MaxLen(250)),
		Text("phone", "Teléfono", MaxLen(20)),
		Email("email", "Correo", MaxLen(150)),
		Select("city_id", "Ciudad", Required(), WithLoader("cities")),
		Select("diocese_id", "Diócesis", Required(), WithLoader("dioceses")),
		Select("zone_id", "Zona", WithLoader("zones"), DependsOn("city_id")),
	)

	Community = New("communities",
		Number("number", "Número", Required()),
		Select("parish_id", "Parroquia", Required(), WithLoader("parishes")),
		Select("step_way_id", "Paso", WithLoader("step_ways")),
		Number("brothers_count", "Número de hermanos"),
		Date("founded_at", "Fecha de nacimiento"),
		Select("catechist_team_id", "Equipo de catequistas", WithLoader("catechist_teams")),
	)

	Person = New("people",
		Text("first_name", "Nombres", Required(), MaxLen(100)),
		Text("last_name", "Apellidos", Required(), MaxLen(100)),
		Text("phone", "Teléfono", MaxLen(20)),
		Email("email", "Correo", MaxLen(150)),
		Select("gender", "Género", Required(), WithOptions(genderOptions...)),
		Select("person_type_id", "Carisma", Required(), WithLoader("person_types")),
		Select("spouse_id", "Cónyuge", WithLoader("spouse_candidates")),
		Date("birthdate", "Fecha de nacimiento"),
	)

	Team = New("teams",
		Text("name", "Nombre", Required(), MaxLen(150)),
		Select("team_type", "Tipo de equipo", Required(), WithOptions(teamTypeOptions...)),
		Select("community_id", "Comunidad", WithLoader("communities")),
	)

	Brother = New("brothers",
		Select("person_id", "Persona", Required(), WithLoader("people")),
		Select("community_id", "Comunidad", Required(), WithLoader("communities")),
	)

	Belongs = New("belongs",
		Select("person_id", "Persona", Required(), WithLoader("people")),
		Select("team_id", "Equipo", Required(), WithLoader("teams")),
		Select("community_id", "Comunidad", WithLoader("communities")),
	)

	CommunityStepLog = New("community_step_logs",
		Select("community_id", "Comunidad", Required(), WithLoader("communities")),
		Select("step_way_id", "Paso", Required(), WithLoader("step_ways")),
		Date("held_at", "Fecha"),
		Text("outcome", "Resultado", MaxLen(100)),
		TextArea("notes", "Notas", MaxLen(1000)),
	)

	StepWay = New("step_ways",
		Text("name", "Nombre", Required(), MaxLen(100)),
		Number("position", "Orden", Required()),
	)

	ParishTeam = New("parish_teams",
		Select("parish_id", "Parroquia", Required(), WithLoader("parishes")),
		Select("team_id", "Equipo", Required(), WithLoader("catechist_teams")),
	)

	ParishCatechesis = New("parish_catechesis",
		Select("parish_id", "Parroquia", Required(), WithLoader("parishes")),
		Date("started_at", "Fecha de inicio"),
		Date("ended_at", "Fecha de fin"),
		Text("outcome", "Resultado", MaxLen(100)),
		TextArea("notes", "Notas", MaxLen(1000)),
	)
)

// ByEntity indexes every schema by its entity (table) name.
var ByEntity = map[string]Schema{
	Country.Entity:          Country,
	State.Entity:            State,
	City.Entity:             City,
	Zone.Entity:             Zone,
	Diocese.Entity:          Diocese,
	Parish.Entity:           Parish,
	Community.Entity:        Community,
	Person.Entity:           Person,
	Team.Entity:             Team,
	Brother.Entity:          Brother,
	Belongs.Entity:          Belongs,
	CommunityStepLog.Entity: CommunityStepLog,
	ParishCatechesis.Entity: ParishCatechesis,
	StepWay.Entity:          StepWay,
	ParishTeam.Entity:       ParishTeam,
}
