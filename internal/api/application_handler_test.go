package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubIntakeService records the arguments Submit receives and returns a
// scripted result.
type stubIntakeService struct {
	gotRaw    []byte
	gotResume *service.ResumeFile
	app       *domain.Application
	err       error
}

func (s *stubIntakeService) Submit(ctx context.Context, studentID, projectID primitive.ObjectID, rawApplication []byte, resume *service.ResumeFile) (*domain.Application, error) {
	s.gotRaw = rawApplication
	s.gotResume = resume
	if s.err != nil {
		return nil, s.err
	}
	return s.app, nil
}

type stubResumeService struct {
	url string
	err error
}

func (s *stubResumeService) GetResumeDownloadURL(ctx context.Context, professorID, projectID, applicationID primitive.ObjectID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubApplicationService struct {
	apps []domain.Application
	app  *domain.Application
	err  error
}

func (s *stubApplicationService) ListByProject(ctx context.Context, professorID, projectID primitive.ObjectID) ([]domain.Application, error) {
	return s.apps, s.err
}

func (s *stubApplicationService) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.Application, error) {
	return s.apps, s.err
}

func (s *stubApplicationService) Close(ctx context.Context, professorID, applicationID primitive.ObjectID) (*domain.Application, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.app, nil
}

// identityMiddleware plants the authenticated user the way AuthMiddleware
// would, without a real token.
func identityMiddleware(userID primitive.ObjectID, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Set(ContextUserRoleKey, role)
		c.Next()
	}
}

func newSubmitRouter(userID primitive.ObjectID, intake *stubIntakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewApplicationHandler(intake, &stubApplicationService{}, &stubResumeService{})
	router := gin.New()
	router.POST("/api/v1/projects/:projectId/applications",
		identityMiddleware(userID, domain.RoleStudent), handler.SubmitApplication)
	return router
}

func multipartSubmission(t *testing.T, application string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if application != "" {
		if err := writer.WriteField("application", application); err != nil {
			t.Fatal(err)
		}
	}
	if resume != nil {
		part, err := writer.CreateFormFile("resume", "resume.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(resume); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func TestSubmitApplicationUnpacksMultipart(t *testing.T) {
	studentID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	intake := &stubIntakeService{app: &domain.Application{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		StudentID: studentID,
		Status:    domain.ApplicationStatusPending,
	}}
	router := newSubmitRouter(studentID, intake)

	applicationJSON := `{"student":{"name":"Dana"}}`
	body, contentType := multipartSubmission(t, applicationJSON, []byte("%PDF-1.4 data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+projectID.Hex()+"/applications", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if string(intake.gotRaw) != applicationJSON {
		t.Fatalf("application field not passed through: %q", intake.gotRaw)
	}
	if intake.gotResume == nil || intake.gotResume.FileName != "resume.pdf" {
		t.Fatalf("resume part not passed through: %+v", intake.gotResume)
	}

	var resp ApplicationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != domain.ApplicationStatusPending {
		t.Fatalf("expected pending in response, got %s", resp.Status)
	}
}

func TestSubmitApplicationMissingResumeStillReachesService(t *testing.T) {
	studentID := primitive.NewObjectID()
	intake := &stubIntakeService{err: apperror.New(apperror.KindValidation, "resume file is required")}
	router := newSubmitRouter(studentID, intake)

	body, contentType := multipartSubmission(t, `{}`, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+primitive.NewObjectID().Hex()+"/applications", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if intake.gotResume != nil {
		t.Fatalf("expected nil resume passed to service, got %+v", intake.gotResume)
	}
}

func TestSubmitApplicationValidationResponseCarriesFields(t *testing.T) {
	studentID := primitive.NewObjectID()
	intake := &stubIntakeService{err: apperror.Validation("invalid application data", map[string]string{
		"student.gpa": "must be between 0.0 and 4.0",
	})}
	router := newSubmitRouter(studentID, intake)

	body, contentType := multipartSubmission(t, `{"student":{"gpa":9.9}}`, []byte("pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+primitive.NewObjectID().Hex()+"/applications", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "invalid application data" {
		t.Fatalf("unexpected error message %q", resp.Error)
	}
	if resp.Fields["student.gpa"] == "" {
		t.Fatalf("field detail missing from response: %v", resp.Fields)
	}
}

func TestSubmitApplicationInvalidProjectID(t *testing.T) {
	router := newSubmitRouter(primitive.NewObjectID(), &stubIntakeService{})

	body, contentType := multipartSubmission(t, `{}`, []byte("pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/not-an-id/applications", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed project ID, got %d", w.Code)
	}
}

func TestGetResumeURLResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	professorID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	applicationID := primitive.NewObjectID()

	newRouter := func(resume *stubResumeService) *gin.Engine {
		handler := NewApplicationHandler(&stubIntakeService{}, &stubApplicationService{}, resume)
		router := gin.New()
		router.GET("/api/v1/professor/projects/:projectId/applications/:applicationId/resume",
			identityMiddleware(professorID, domain.RoleProfessor), handler.GetResumeURL)
		return router
	}
	path := "/api/v1/professor/projects/" + projectID.Hex() + "/applications/" + applicationID.Hex() + "/resume"

	router := newRouter(&stubResumeService{url: "https://store.example/applications/x/cv/a.pdf?sig=abc"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ResumeURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DownloadURL == "" {
		t.Fatal("downloadUrl missing from response")
	}

	router = newRouter(&stubResumeService{err: apperror.NotFound("no resume file found for application " + applicationID.Hex())})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperror.New(apperror.KindValidation, "bad input"), http.StatusBadRequest},
		{"not found", apperror.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperror.Conflict("already closed"), http.StatusConflict},
		{"auth", apperror.New(apperror.KindAuth, "denied"), http.StatusUnauthorized},
		{"auth expired", apperror.New(apperror.KindAuthExpired, "token has expired"), http.StatusUnauthorized},
		{"infrastructure", apperror.Infrastructure("db down", errors.New("dial tcp")), http.StatusInternalServerError},
		{"untyped error", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/boom", func(c *gin.Context) { respondError(c, tt.err) })
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			switch tt.wantStatus {
			case http.StatusInternalServerError:
				if body["error"] != "internal server error" {
					t.Fatalf("internal details leaked: %v", body)
				}
				if id, _ := body["correlationId"].(string); id == "" {
					t.Fatalf("correlationId missing: %v", body)
				}
			default:
				if body["error"] == "" || body["error"] == "internal server error" {
					t.Fatalf("message not passed through: %v", body)
				}
			}
			if tt.name == "auth expired" && body["code"] != "token_expired" {
				t.Fatalf("expired token not distinguishable: %v", body)
			}
		})
	}
}
