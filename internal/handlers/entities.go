package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminoadmin/comunidades-go/internal/apperrors"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// EntityHandler serves the generic CRUD routes for every registered entity.
type EntityHandler struct {
	registry *Registry
}

func NewEntityHandler(registry *Registry) *EntityHandler {
	return &EntityHandler{registry: registry}
}

func (h *EntityHandler) entity(c *gin.Context) (*Entity, bool) {
	e, ok := h.registry.Get(c.Param("entity"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recurso no encontrado"})
		return nil, false
	}
	return e, true
}

// parseListParams reads search/sort/page/filter query parameters.
// Filters arrive as f.<column>=<value> pairs.
func parseListParams(c *gin.Context) store.ListParams {
	p := store.ListParams{
		Search: c.Query("q"),
		Page:   1,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		p.Page = page
	}
	if field := c.Query("sort"); field != "" {
		p.Sort = store.Sort{Field: field, Ascending: c.DefaultQuery("dir", "asc") != "desc"}
	}

	for key, values := range c.Request.URL.Query() {
		if len(key) <= 2 || key[:2] != "f." || len(values) == 0 {
			continue
		}
		if p.Filters == nil {
			p.Filters = map[string]any{}
		}
		column := key[2:]
		if n, err := strconv.Atoi(values[0]); err == nil {
			p.Filters[column] = n
		} else {
			p.Filters[column] = values[0]
		}
	}
	return p
}

// List returns one page of rows with total count for pagination.
func (h *EntityHandler) List(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}

	params := parseListParams(c)
	page, err := e.Adapter.List(c.Request.Context(), params)
	if err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	if e.PostProcess != nil {
		e.PostProcess(page.Rows)
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  page.Rows,
		"total": page.Total,
		"page":  page.Page,
	})
}

// Describe returns the entity's form schema so the client can render the
// create/edit modal.
func (h *EntityHandler) Describe(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e.Schema)
}

// Create validates, coerces and inserts a new row.
func (h *EntityHandler) Create(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido"})
		return
	}

	if err := e.Schema.Validate(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := e.Schema.Coerce(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := e.Adapter.Create(c.Request.Context(), row)
	if err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update patches an existing row by primary key.
func (h *EntityHandler) Update(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido"})
		return
	}

	// Partial payloads skip required-field checks for absent fields, so
	// validate only what was sent.
	partial := map[string]any{}
	for _, f := range e.Schema.Fields {
		if v, present := payload[f.Name]; present {
			partial[f.Name] = v
		}
	}
	if len(partial) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nada que actualizar"})
		return
	}
	if err := e.Schema.ValidatePartial(partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch, err := e.Schema.Coerce(partial)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := e.Adapter.Update(c.Request.Context(), id, patch); err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Registro actualizado"})
}

// Delete removes a row by primary key.
func (h *EntityHandler) Delete(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	if err := e.Adapter.Delete(c.Request.Context(), id); err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Registro eliminado"})
}
