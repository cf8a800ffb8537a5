package handlers

import (
	"fmt"

	"github.com/caminoadmin/comunidades-go/internal/export"
	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/models"
	"github.com/caminoadmin/comunidades-go/internal/schema"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// Entity wires one table's adapter, form schema and export layout under its
// URL slug.
type Entity struct {
	Slug          string
	Adapter       *store.Adapter
	Schema        schema.Schema
	ExportName    string
	ExportColumns []export.Column
	// PostProcess adjusts listed rows before they leave the server.
	PostProcess func([]store.Row)
}

// Registry holds every entity by slug.
type Registry struct {
	entities map[string]*Entity
	order    []string
}

func (r *Registry) Get(slug string) (*Entity, bool) {
	e, ok := r.entities[slug]
	return e, ok
}

func (r *Registry) Slugs() []string {
	return r.order
}

func (r *Registry) add(e *Entity) {
	r.entities[e.Slug] = e
	r.order = append(r.order, e.Slug)
}

// maskUnmarriageableSpouses hides spouse data on person rows whose type
// cannot be married, even if a stale spouse_id survives on the row.
func maskUnmarriageableSpouses(rows []store.Row) {
	for _, r := range rows {
		typeID, ok := asInt(r["person_type_id"])
		if !ok || models.MarriageablePersonTypes[typeID] {
			continue
		}
		if _, present := r["spouse_id"]; present {
			r["spouse_id"] = nil
		}
		if _, present := r["spouse_name"]; present {
			r["spouse_name"] = nil
		}
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// NewRegistry builds the adapters and entity wiring for every table the API
// serves. Slugs are the Spanish route segments.
func NewRegistry(db store.Querier, cache store.Cache, pageSize int, log *logger.Logger) *Registry {
	r := &Registry{entities: make(map[string]*Entity)}

	adapter := func(t store.Table) *store.Adapter {
		if t.PageSize == 0 {
			t.PageSize = pageSize
		}
		return store.NewAdapter(t, db, cache, log)
	}
	nameSort := store.Sort{Field: "name", Ascending: true}

	r.add(&Entity{
		Slug: "paises",
		Adapter: adapter(store.Table{
			Name:         "countries",
			Columns:      []string{"id", "name", "code", "created_at", "updated_at"},
			SearchFields: []string{"name", "code"},
			DefaultSort:  nameSort,
		}),
		Schema:     schema.Country,
		ExportName: "paises",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "code", Header: "Código"},
		},
	})

	r.add(&Entity{
		Slug: "departamentos",
		Adapter: adapter(store.Table{
			Name:         "states",
			Columns:      []string{"id", "name", "country_id", "created_at", "updated_at"},
			SearchFields: []string{"name", "country_name"},
			DefaultSort:  nameSort,
			Relations: []store.Relation{
				{Column: "country_id", RefTable: "countries", Display: "name", Alias: "country_name"},
			},
		}),
		Schema:     schema.State,
		ExportName: "departamentos",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "country_name", Header: "País"},
		},
	})

	r.add(&Entity{
		Slug: "ciudades",
		Adapter: adapter(store.Table{
			Name:         "cities",
			Columns:      []string{"id", "name", "state_id", "created_at", "updated_at"},
			SearchFields: []string{"name", "state_name"},
			DefaultSort:  nameSort,
			Relations: []store.Relation{
				{Column: "state_id", RefTable: "states", Display: "name", Alias: "state_name"},
			},
		}),
		Schema:     schema.City,
		ExportName: "ciudades",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "state_name", Header: "Departamento"},
		},
	})

	r.add(&Entity{
		Slug: "zonas",
		Adapter: adapter(store.Table{
			Name:         "zones",
			Columns:      []string{"id", "name", "city_id", "created_at", "updated_at"},
			SearchFields: []string{"name", "city_name"},
			DefaultSort:  nameSort,
			Relations: []store.Relation{
				{Column: "city_id", RefTable: "cities", Display: "name", Alias: "city_name"},
			},
		}),
		Schema:     schema.Zone,
		ExportName: "zonas",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "city_name", Header: "Ciudad"},
		},
	})

	r.add(&Entity{
		Slug: "diocesis",
		Adapter: adapter(store.Table{
			Name:         "dioceses",
			Columns:      []string{"id", "name", "diocese_type", "created_at", "updated_at"},
			SearchFields: []string{"name"},
			DefaultSort:  nameSort,
		}),
		Schema:     schema.Diocese,
		ExportName: "diocesis",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "diocese_type", Header: "Tipo"},
		},
	})

	r.add(&Entity{
		Slug: "parroquias",
		Adapter: adapter(store.Table{
			Name:         "parishes",
			Columns:      []string{"id", "name", "address", "phone", "email", "city_id", "diocese_id", "zone_id", "created_at", "updated_at"},
			SearchFields: []string{"name", "city_name", "diocese_name"},
			DefaultSort:  nameSort,
			Relations: []store.Relation{
				{Column: "city_id", RefTable: "cities", Display: "name", Alias: "city_name"},
				{Column: "diocese_id", RefTable: "dioceses", Display: "name", Alias: "diocese_name"},
				{Column: "zone_id", RefTable: "zones", Display: "name", Alias: "zone_name"},
			},
		}),
		Schema:     schema.Parish,
		ExportName: "parroquias",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "address", Header: "Dirección"},
			{Key: "phone", Header: "Teléfono"},
			{Key: "email", Header: "Correo"},
			{Key: "city_name", Header: "Ciudad"},
			{Key: "diocese_name", Header: "Diócesis"},
			{Key: "zone_name", Header: "Zona"},
		},
	})

	r.add(&Entity{
		Slug: "comunidades",
		Adapter: adapter(store.Table{
			Name:         "communities",
			Columns:      []string{"id", "number", "parish_id", "step_way_id", "brothers_count", "founded_at", "catechist_team_id", "created_at", "updated_at"},
			SearchFields: []string{"parish_name"},
			DefaultSort:  store.Sort{Field: "number", Ascending: true},
			Relations: []store.Relation{
				{Column: "parish_id", RefTable: "parishes", Display: "name", Alias: "parish_name"},
				{Column: "step_way_id", RefTable: "step_ways", Display: "name", Alias: "step_name"},
				{Column: "catechist_team_id", RefTable: "teams", Display: "name", Alias: "catechist_team_name"},
			},
		}),
		Schema:     schema.Community,
		ExportName: "comunidades",
		ExportColumns: []export.Column{
			{Key: "number", Header: "Número"},
			{Key: "parish_name", Header: "Parroquia"},
			{Key: "step_name", Header: "Paso"},
			{Key: "brothers_count", Header: "Hermanos"},
			{Key: "founded_at", Header: "Fecha de nacimiento"},
			{Key: "catechist_team_name", Header: "Equipo de catequistas"},
		},
	})

	r.add(&Entity{
		Slug: "personas",
		Adapter: adapter(store.Table{
			Name:         "people",
			Columns:      []string{"id", "first_name", "last_name", "phone", "email", "gender", "person_type_id", "spouse_id", "birthdate", "created_at", "updated_at"},
			SearchFields: []string{"first_name", "last_name", "person_type_name"},
			DefaultSort:  store.Sort{Field: "last_name", Ascending: true},
			Relations: []store.Relation{
				{Column: "person_type_id", RefTable: "person_types", Display: "name", Alias: "person_type_name"},
				{Column: "spouse_id", RefTable: "people", Display: "first_name", Alias: "spouse_name"},
			},
		}),
		Schema:      schema.Person,
		ExportName:  "personas",
		PostProcess: maskUnmarriageableSpouses,
		ExportColumns: []export.Column{
			{Key: "first_name", Header: "Nombres"},
			{Key: "last_name", Header: "Apellidos"},
			{Key: "phone", Header: "Teléfono"},
			{Key: "email", Header: "Correo"},
			{Key: "gender", Header: "Género"},
			{Key: "person_type_name", Header: "Carisma"},
			{Key: "spouse_name", Header: "Cónyuge"},
		},
	})

	r.add(&Entity{
		Slug: "equipos",
		Adapter: adapter(store.Table{
			Name:         "teams",
			Columns:      []string{"id", "name", "team_type", "community_id", "created_at", "updated_at"},
			SearchFields: []string{"name"},
			DefaultSort:  nameSort,
			Relations: []store.Relation{
				{Column: "community_id", RefTable: "communities", Display: "number", Alias: "community_number"},
			},
		}),
		Schema:     schema.Team,
		ExportName: "equipos",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "team_type", Header: "Tipo"},
			{Key: "community_number", Header: "Comunidad"},
		},
	})

	r.add(&Entity{
		Slug: "hermanos",
		Adapter: adapter(store.Table{
			Name:         "brothers",
			Columns:      []string{"id", "person_id", "community_id", "created_at"},
			SearchFields: []string{"person_name"},
			DefaultSort:  store.Sort{Field: "person_name", Ascending: true},
			Relations: []store.Relation{
				{Column: "person_id", RefTable: "people", Display: "last_name", Alias: "person_name"},
				{Column: "community_id", RefTable: "communities", Display: "number", Alias: "community_number"},
			},
		}),
		Schema:     schema.Brother,
		ExportName: "hermanos",
		ExportColumns: []export.Column{
			{Key: "person_name", Header: "Persona"},
			{Key: "community_number", Header: "Comunidad"},
		},
	})

	r.add(&Entity{
		Slug: "miembros",
		Adapter: adapter(store.Table{
			Name:         "belongs",
			Columns:      []string{"id", "person_id", "team_id", "community_id", "is_responsible", "created_at"},
			SearchFields: []string{"person_name", "team_name"},
			DefaultSort:  store.Sort{Field: "person_name", Ascending: true},
			Relations: []store.Relation{
				{Column: "person_id", RefTable: "people", Display: "last_name", Alias: "person_name"},
				{Column: "team_id", RefTable: "teams", Display: "name", Alias: "team_name"},
			},
		}),
		Schema:     schema.Belongs,
		ExportName: "miembros",
		ExportColumns: []export.Column{
			{Key: "person_name", Header: "Persona"},
			{Key: "team_name", Header: "Equipo"},
			{Key: "is_responsible", Header: "Responsable"},
		},
	})

	r.add(&Entity{
		Slug: "equipos-parroquia",
		Adapter: adapter(store.Table{
			Name:         "parish_teams",
			Columns:      []string{"id", "parish_id", "team_id", "created_at"},
			SearchFields: []string{"parish_name", "team_name"},
			DefaultSort:  store.Sort{Field: "parish_name", Ascending: true},
			Relations: []store.Relation{
				{Column: "parish_id", RefTable: "parishes", Display: "name", Alias: "parish_name"},
				{Column: "team_id", RefTable: "teams", Display: "name", Alias: "team_name"},
			},
		}),
		Schema:     schema.ParishTeam,
		ExportName: "equipos_parroquia",
		ExportColumns: []export.Column{
			{Key: "parish_name", Header: "Parroquia"},
			{Key: "team_name", Header: "Equipo"},
		},
	})

	r.add(&Entity{
		Slug: "pasos",
		Adapter: adapter(store.Table{
			Name:         "step_ways",
			Columns:      []string{"id", "name", "position"},
			SearchFields: []string{"name"},
			DefaultSort:  store.Sort{Field: "position", Ascending: true},
		}),
		Schema:     schema.StepWay,
		ExportName: "pasos",
		ExportColumns: []export.Column{
			{Key: "name", Header: "Nombre"},
			{Key: "position", Header: "Orden"},
		},
	})

	r.add(&Entity{
		Slug: "historial-pasos",
		Adapter: adapter(store.Table{
			Name:         "community_step_logs",
			Columns:      []string{"id", "community_id", "step_way_id", "held_at", "outcome", "notes", "created_at"},
			SearchFields: []string{"step_name", "outcome"},
			DefaultSort:  store.Sort{Field: "held_at", Ascending: false},
			Relations: []store.Relation{
				{Column: "community_id", RefTable: "communities", Display: "number", Alias: "community_number"},
				{Column: "step_way_id", RefTable: "step_ways", Display: "name", Alias: "step_name"},
			},
		}),
		Schema:     schema.CommunityStepLog,
		ExportName: "historial_pasos",
		ExportColumns: []export.Column{
			{Key: "community_number", Header: "Comunidad"},
			{Key: "step_name", Header: "Paso"},
			{Key: "held_at", Header: "Fecha"},
			{Key: "outcome", Header: "Resultado"},
			{Key: "notes", Header: "Notas"},
		},
	})

	r.add(&Entity{
		Slug: "catequesis",
		Adapter: adapter(store.Table{
			Name:         "parish_catechesis",
			Columns:      []string{"id", "parish_id", "started_at", "ended_at", "outcome", "notes", "created_at"},
			SearchFields: []string{"parish_name", "outcome"},
			DefaultSort:  store.Sort{Field: "started_at", Ascending: false},
			Relations: []store.Relation{
				{Column: "parish_id", RefTable: "parishes", Display: "name", Alias: "parish_name"},
			},
		}),
		Schema:     schema.ParishCatechesis,
		ExportName: "catequesis",
		ExportColumns: []export.Column{
			{Key: "parish_name", Header: "Parroquia"},
			{Key: "started_at", Header: "Inicio"},
			{Key: "ended_at", Header: "Fin"},
			{Key: "outcome", Header: "Resultado"},
			{Key: "notes", Header: "Notas"},
		},
	})

	return r
}

// LegacyRoutes maps the old English route slugs to their Spanish
// equivalents, served as permanent redirects.
var LegacyRoutes = map[string]string{
	"countries":   "paises",
	"states":      "departamentos",
	"cities":      "ciudades",
	"zones":       "zonas",
	"dioceses":    "diocesis",
	"parishes":    "parroquias",
	"communities": "comunidades",
	"people":      "personas",
	"teams":       "equipos",
	"brothers":    "hermanos",
	"members":     "miembros",
	"steps":       "pasos",
	"step-logs":   "historial-pasos",
	"catechesis":  "catequesis",
}

// Validate sanity-checks the registry wiring at startup.
func (r *Registry) Validate() error {
	for slug, e := range r.entities {
		if e.Adapter == nil {
			return fmt.Errorf("entity %s has no adapter", slug)
		}
		if e.Schema.Entity != e.Adapter.Table().Name {
			return fmt.Errorf("entity %s: schema %s does not match table %s",
				slug, e.Schema.Entity, e.Adapter.Table().Name)
		}
	}
	return nil
}
