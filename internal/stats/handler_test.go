package stats

import (
	"collaborative-annotation-server/internal/domain"
	apiError "collaborative-annotation-server/internal/errors"
	"collaborative-annotation-server/internal/middleware"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Compute(ctx context.Context, project *domain.Project, userID uint64, include []string) (map[string]any, error) {
	args := m.Called(ctx, project, userID, include)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockService) InvalidateProject(projectID uint64) {
	m.Called(projectID)
}

// MockProjects is a mock implementation of ProjectProvider
type MockProjects struct {
	mock.Mock
}

func (m *MockProjects) GetProjectByID(ctx context.Context, id uint64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint64(7))
	})
	router.GET("/projects/:project_id/statistics", handler.Show)
	return router
}

func TestShowStatistics(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	handler := NewHandler(service, projects)
	router := setupRouter(handler)

	project := testProject()
	projects.On("GetProjectByID", mock.Anything, uint64(1)).Return(project, nil)
	service.On("Compute", mock.Anything, project, uint64(7), []string{"total", "remaining"}).
		Return(map[string]any{"total": 3, "remaining": 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/projects/1/statistics?include=total&include=remaining", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, float64(3), response["total"])
	assert.Equal(t, float64(1), response["remaining"])
	service.AssertExpectations(t)
}

func TestShowStatisticsUnknownProject(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	handler := NewHandler(service, projects)
	router := setupRouter(handler)

	projects.On("GetProjectByID", mock.Anything, uint64(9)).
		Return(nil, apiError.NotFound("Project not found", nil))

	req := httptest.NewRequest(http.MethodGet, "/projects/9/statistics", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	service.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
