package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caminoadmin/comunidades-go/internal/apperrors"
	"github.com/caminoadmin/comunidades-go/internal/export"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// ExportHandler streams an entity's rows as a CSV download, honoring the
// same search and filter parameters as the list route.
type ExportHandler struct {
	registry *Registry
}

func NewExportHandler(registry *Registry) *ExportHandler {
	return &ExportHandler{registry: registry}
}

func (h *ExportHandler) Export(c *gin.Context) {
	e, ok := h.registry.Get(c.Param("entity"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recurso no encontrado"})
		return
	}

	params := parseListParams(c)
	rows, err := e.Adapter.ListAll(c.Request.Context(), store.ListParams{
		Search:  params.Search,
		Sort:    params.Sort,
		Filters: params.Filters,
	})
	if err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	if e.PostProcess != nil {
		e.PostProcess(rows)
	}

	filename := export.Filename(e.ExportName, time.Now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := export.WriteCSV(c.Writer, e.ExportColumns, rows); err != nil {
		// Headers are already out; nothing sane to send but a log entry.
		_ = c.Error(err)
	}
}
