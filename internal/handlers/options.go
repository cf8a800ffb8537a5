package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminoadmin/comunidades-go/internal/options"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// OptionsHandler serves dropdown option lists by loader name, with an
// optional parent value for dependent dropdowns.
type OptionsHandler struct {
	loaders *options.Registry
}

func NewOptionsHandler(loaders *options.Registry) *OptionsHandler {
	return &OptionsHandler{loaders: loaders}
}

// Load returns the {value,label} options of one loader. Dependent loaders
// take ?parent=<id>.
func (h *OptionsHandler) Load(c *gin.Context) {
	loader, ok := h.loaders.Get(c.Param("loader"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lista de opciones no encontrada"})
		return
	}

	var parent *int
	if raw := c.Query("parent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El valor de parent debe ser numérico"})
			return
		}
		parent = &n
	}

	opts, err := loader.Load(c.Request.Context(), parent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar las opciones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": opts})
}

// BuildLoaders wires every option loader the entity schemas reference. The
// geographic cascade (country → state → city → zone) chains through parent
// columns; the rest are either plain lookups or custom queries.
func BuildLoaders(r *Registry, db store.Querier) *options.Registry {
	reg := options.NewRegistry()

	byName := func(slug string) *store.Adapter {
		e, ok := r.Get(slug)
		if !ok {
			panic(fmt.Sprintf("options: unknown entity slug %q", slug))
		}
		return e.Adapter
	}

	nameSort := store.Sort{Field: "name", Ascending: true}
	name := options.FieldLabel("name")

	reg.Register(options.New("countries", byName("paises"), name, "", nameSort))
	reg.Register(options.New("states", byName("departamentos"), name, "country_id", nameSort))
	reg.Register(options.New("cities", byName("ciudades"), name, "state_id", nameSort))
	reg.Register(options.New("zones", byName("zonas"), name, "city_id", nameSort))
	reg.Register(options.New("dioceses", byName("diocesis"), name, "", nameSort))
	reg.Register(options.New("parishes", byName("parroquias"), name, "", nameSort))
	reg.Register(options.New("step_ways", byName("pasos"), name, "", store.Sort{Field: "position", Ascending: true}))
	reg.Register(options.New("teams", byName("equipos"), name, "", nameSort))
	reg.Register(options.New("people", byName("personas"),
		options.FieldLabel("last_name", "first_name"), "",
		store.Sort{Field: "last_name", Ascending: true}))

	reg.Register(options.New("communities", byName("comunidades"),
		func(row store.Row) string {
			return fmt.Sprintf("Comunidad %v - %v", row["number"], row["parish_name"])
		}, "parish_id", store.Sort{Field: "number", Ascending: true}))

	// Catechist teams only.
	reg.Register(options.NewCustom("catechist_teams", func(ctx context.Context, parent *int) ([]options.Option, error) {
		rows, err := byName("equipos").ListAll(ctx, store.ListParams{
			Sort:    nameSort,
			Filters: map[string]any{"team_type": "catechists"},
		})
		if err != nil {
			return nil, err
		}
		opts := make([]options.Option, 0, len(rows))
		for _, row := range rows {
			opts = append(opts, options.Option{Value: row["id"], Label: fmt.Sprint(row["name"])})
		}
		return opts, nil
	}))

	// Person types come from the fixed vocabulary table; the people entity
	// does not manage it, so query it directly.
	reg.Register(options.NewCustom("person_types", func(ctx context.Context, parent *int) ([]options.Option, error) {
		rows, err := db.Query(ctx, "SELECT id, name FROM person_types ORDER BY id")
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		opts := []options.Option{}
		for rows.Next() {
			var id int
			var label string
			if err := rows.Scan(&id, &label); err != nil {
				return nil, err
			}
			opts = append(opts, options.Option{Value: id, Label: label})
		}
		return opts, rows.Err()
	}))

	// Spouse candidates: marriageable person types without a spouse. The
	// generic exact-match filter model cannot express the IS NULL.
	reg.Register(options.NewCustom("spouse_candidates", func(ctx context.Context, parent *int) ([]options.Option, error) {
		rows, err := db.Query(ctx, `
			SELECT p.id, p.last_name || ' ' || p.first_name
			FROM people p
			JOIN person_types pt ON pt.id = p.person_type_id
			WHERE pt.marriageable = true AND p.spouse_id IS NULL
			ORDER BY p.last_name, p.first_name
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		opts := []options.Option{}
		for rows.Next() {
			var id int
			var label string
			if err := rows.Scan(&id, &label); err != nil {
				return nil, err
			}
			opts = append(opts, options.Option{Value: id, Label: label})
		}
		return opts, rows.Err()
	}))

	return reg
}
