package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminoadmin/comunidades-go/internal/apperrors"
	"github.com/caminoadmin/comunidades-go/internal/workflows"
)

// WorkflowHandler serves the multi-table operations: community merge and
// deletion, marriage creation, and responsible reassignment.
type WorkflowHandler struct {
	communities *workflows.CommunityWorkflows
	marriages   *workflows.MarriageWorkflow
	teams       *workflows.TeamWorkflows
}

func NewWorkflowHandler(
	communities *workflows.CommunityWorkflows,
	marriages *workflows.MarriageWorkflow,
	teams *workflows.TeamWorkflows,
) *WorkflowHandler {
	return &WorkflowHandler{communities: communities, marriages: marriages, teams: teams}
}

type MergeRequest struct {
	KeepID   int `json:"keep_community_id" binding:"required"`
	RemoveID int `json:"remove_community_id" binding:"required"`
}

// MergeCommunities folds one community into another via the stored
// procedure and reports its counts.
func (h *WorkflowHandler) MergeCommunities(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	result, err := h.communities.Merge(c.Request.Context(), req.KeepID, req.RemoveID)
	if err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCommunity removes a community and its dependents in FK-safe order.
func (h *WorkflowHandler) DeleteCommunity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	if err := h.communities.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, workflows.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comunidad no encontrada"})
			return
		}
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Comunidad eliminada"})
}

type MarriageRequest struct {
	Husband workflows.SpousePayload `json:"husband" binding:"required"`
	Wife    workflows.SpousePayload `json:"wife" binding:"required"`
}

// CreateMarriage inserts the two mutually referencing person rows.
func (h *WorkflowHandler) CreateMarriage(c *gin.Context) {
	var req MarriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	husbandID, wifeID, err := h.marriages.Create(c.Request.Context(), req.Husband, req.Wife)
	if err != nil {
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"husband_id": husbandID,
		"wife_id":    wifeID,
		"message":    "Matrimonio creado",
	})
}

type LinkSpousesRequest struct {
	PersonID int `json:"person_id" binding:"required"`
	SpouseID int `json:"spouse_id" binding:"required"`
}

// LinkSpouses marries two existing people.
func (h *WorkflowHandler) LinkSpouses(c *gin.Context) {
	var req LinkSpousesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	if err := h.marriages.LinkSpouses(c.Request.Context(), req.PersonID, req.SpouseID); err != nil {
		if errors.Is(err, workflows.ErrNotMarriageable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El carisma de la persona no admite cónyuge"})
			return
		}
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cónyuges vinculados"})
}

type ResponsibleRequest struct {
	BelongsID int `json:"belongs_id" binding:"required"`
}

// AssignResponsible moves the team's responsible flag to the given member.
func (h *WorkflowHandler) AssignResponsible(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var req ResponsibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	if err := h.teams.AssignResponsible(c.Request.Context(), teamID, req.BelongsID); err != nil {
		if errors.Is(err, workflows.ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "El miembro no pertenece al equipo"})
			return
		}
		appErr := apperrors.Translate(err)
		c.JSON(appErr.Status, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team_id": teamID, "belongs_id": req.BelongsID, "message": "Responsable asignado"})
}
