// internal/api/application_handler.go
package api

import (
	"net/http"
	"time"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationHandler struct {
	intakeService      service.IntakeService
	applicationService service.ApplicationService
	resumeService      service.ResumeService
}

func NewApplicationHandler(
	intakeService service.IntakeService,
	applicationService service.ApplicationService,
	resumeService service.ResumeService,
) *ApplicationHandler {
	return &ApplicationHandler{
		intakeService:      intakeService,
		applicationService: applicationService,
		resumeService:      resumeService,
	}
}

// --- DTOs ---

type ApplicationResponse struct {
	ID         string                   `json:"id"`
	ProjectID  string                   `json:"projectId"`
	StudentID  string                   `json:"studentId"`
	Student    domain.StudentInfo       `json:"student"`
	Schedule   domain.Availability      `json:"schedule"`
	Additional domain.AdditionalInfo    `json:"additional"`
	Status     domain.ApplicationStatus `json:"status"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

type ResumeURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

func MapApplicationToResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:         a.ID.Hex(),
		ProjectID:  a.ProjectID.Hex(),
		StudentID:  a.StudentID.Hex(),
		Student:    a.Student,
		Schedule:   a.Schedule,
		Additional: a.Additional,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func mapApplicationsToResponse(apps []domain.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i := range apps {
		out[i] = MapApplicationToResponse(&apps[i])
	}
	return out
}

// --- Student handlers ---

// SubmitApplication accepts the multipart submission: one JSON field
// ("application") and one binary resume file ("resume"). The handler only
// unpacks the multipart envelope; the pipeline in IntakeService owns parsing,
// validation, the project guard, and both writes.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}

	rawApplication := []byte(c.PostForm("application"))

	var resume *service.ResumeFile
	fileHeader, err := c.FormFile("resume")
	if err == nil && fileHeader != nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			abortWithError(c, http.StatusBadRequest, "Unable to read resume file.")
			return
		}
		defer file.Close()
		resume = &service.ResumeFile{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Content:     file,
		}
	}

	app, err := h.intakeService.Submit(c.Request.Context(), studentID, projectID, rawApplication, resume)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapApplicationToResponse(app))
}

// GetMyApplications lists the caller's submitted applications.
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := mapApplicationsToResponse(apps)
	if resp == nil {
		resp = []ApplicationResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// --- Professor handlers ---

// GetProjectApplications lists applications for one of the caller's projects.
func (h *ApplicationHandler) GetProjectApplications(c *gin.Context) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}

	apps, err := h.applicationService.ListByProject(c.Request.Context(), professorID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := mapApplicationsToResponse(apps)
	if resp == nil {
		resp = []ApplicationResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// CloseApplication moves an application to its terminal CLOSED status.
func (h *ApplicationHandler) CloseApplication(c *gin.Context) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	applicationID, err := primitive.ObjectIDFromHex(c.Param("applicationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid application ID format.")
		return
	}

	app, err := h.applicationService.Close(c.Request.Context(), professorID, applicationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapApplicationToResponse(app))
}

// GetResumeURL returns a time-limited signed URL for an application's resume.
func (h *ApplicationHandler) GetResumeURL(c *gin.Context) {
	professorID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid project ID format.")
		return
	}
	applicationID, err := primitive.ObjectIDFromHex(c.Param("applicationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid application ID format.")
		return
	}

	url, err := h.resumeService.GetResumeDownloadURL(c.Request.Context(), professorID, projectID, applicationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ResumeURLResponse{DownloadURL: url})
}
