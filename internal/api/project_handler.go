// internal/api/project_handler.go
package api

import (
	"net/http"
	"time"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	projectService   service.ProjectService
	analyticsService service.AnalyticsService
}

func NewProjectHandler(projectService service.ProjectService, analyticsService service.AnalyticsService) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		analyticsService: analyticsService,
	}
}

// --- DTOs ---

type CreateProjectRequest struct {
	Title        string        `json:"title" binding:"required"`
	Description  string        `json:"description"`
	Campus       domain.Campus `json:"campus" binding:"required"`
	Categories   []string      `json:"categories"`
	Requirements []string      `json:"requirements"`
	Positions    int           `json:"positions" binding:"required,min=1"`
	Deadline     *time.Time    `json:"deadline"`
	Visible      bool          `json:"visible"`
}

// ProjectResponse carries both the stored status and the read-time effective
// status accounting for deadline expiry.
type ProjectResponse struct {
	ID              string               `json:"id"`
	ProfessorID     string               `json:"professorId"`
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	Campus          domain.Campus        `json:"campus"`
	Categories      []string             `json:"categories,omitempty"`
	Requirements    []string             `json:"requirements,omitempty"`
	Status          domain.ProjectStatus `json:"status"`
	EffectiveStatus domain.ProjectStatus `json:"effectiveStatus"`
	Positions       int                  `json:"positions"`
	Deadline        *time.Time           `json:"deadline,omitempty"`
	Visible         bool                 `json:"visible"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func MapProjectToResponse(p *domain.Project, now time.Time) ProjectResponse {
	return ProjectResponse{
		ID:              p.ID.Hex(),
		ProfessorID:     p.ProfessorID.Hex(),
		Title:           p.Title,
		Description:     p.Description,
		Campus:          p.Campus,
		Categories:      p.Categories,
		Requirements:    p.Requirements,
		Status:          p.Status,
		EffectiveStatus: p.EffectiveStatus(now),
		Positions:       p.Positions,
		Deadline:        p.Deadline,
		Visible:         p.Visible,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func mapProjectsToResponse(projects []domain.Project) []ProjectResponse {
	now := time.Now().UTC()
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = MapProjectToResponse(&projects[i], now)
	}
	return out
}

// --- Public handlers ---

// ListOpenProjects returns the publicly browsable listings.
func (h *ProjectHandler) ListOpenProjects(c *gin.Context) {
	projects, err := h.projectService.ListOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProjectsToResponse(projects))
}

// GetProject returns a single project with its effective status.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectToResponse(project, time.Now().UTC()))
}

// --- Professor handlers ---

// CreateProject creates a new DRAFT listing owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), professorID, service.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Campus:       req.Campus,
		Categories:   req.Categories,
		Requirements: req.Requirements,
		Positions:    req.Positions,
		Deadline:     req.Deadline,
		Visible:      req.Visible,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapProjectToResponse(project, time.Now().UTC()))
}

// GetMyProjects lists the caller's own listings regardless of status.
func (h *ProjectHandler) GetMyProjects(c *gin.Context) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projects, err := h.projectService.GetByProfessor(c.Request.Context(), professorID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := mapProjectsToResponse(projects)
	if resp == nil {
		resp = []ProjectResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// PublishProject transitions a DRAFT listing to PUBLISHED.
func (h *ProjectHandler) PublishProject(c *gin.Context) {
	h.transition(c, domain.ProjectStatusPublished)
}

// DelistProject transitions a PUBLISHED listing to CLOSED.
func (h *ProjectHandler) DelistProject(c *gin.Context) {
	h.transition(c, domain.ProjectStatusClosed)
}

func (h *ProjectHandler) transition(c *gin.Context, target domain.ProjectStatus) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}

	project, err := h.projectService.Transition(c.Request.Context(), professorID, projectID, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectToResponse(project, time.Now().UTC()))
}

// DeleteProject removes a listing. Published listings must be delisted first;
// closed ones require ?force=true.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}

	force := c.Query("force") == "true"
	if err := h.projectService.Delete(c.Request.Context(), professorID, projectID, force); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAnalytics returns the application snapshot, optionally scoped by the
// projectId query parameter.
func (h *ProjectHandler) GetAnalytics(c *gin.Context) {
	var projectID *primitive.ObjectID
	if raw := c.Query("projectId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
			return
		}
		projectID = &id
	}

	snapshot, err := h.analyticsService.ComputeAnalytics(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// userIDFromContext extracts and parses the caller's ID, writing the
// error response itself on failure.
func userIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
