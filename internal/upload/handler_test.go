package upload

import (
	"bytes"
	"collaborative-annotation-server/internal/domain"
	apiError "collaborative-annotation-server/internal/errors"
	"collaborative-annotation-server/internal/middleware"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *MockService) ImportFile(ctx context.Context, project *domain.Project, format string, file io.Reader, userID uint64, opts ImportOptions) (int, error) {
	args := m.Called(ctx, project, format, file, userID, opts)
	return args.Int(0), args.Error(1)
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

// MockBlobs is a mock implementation of blobstore.Client
type MockBlobs struct {
	mock.Mock
}

func (m *MockBlobs) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobs) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	args := m.Called(ctx, bucket, key, body)
	return args.Error(0)
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint64(7))
	})
	router.POST("/projects/:project_id/docs/upload", handler.Upload)
	router.POST("/projects/:project_id/docs/cloud-upload", handler.CloudUpload)
	return router
}

func multipartBody(t *testing.T, format, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("format", format))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	handler := NewHandler(service, projects, nil)
	router := setupRouter(handler)

	project := &domain.Project{ID: 1, ProjectType: domain.ProjectTypeClassification}
	projects.On("GetProjectByID", mock.Anything, uint64(1)).Return(project, nil)
	service.On("ImportFile", mock.Anything, project, FormatCSV, mock.Anything, uint64(7), ImportOptions{}).
		Return(3, nil)

	body, contentType := multipartBody(t, FormatCSV, "docs.csv", "a,positive\nb,negative\nc,positive\n")
	req := httptest.NewRequest(http.MethodPost, "/projects/1/docs/upload", body)
	req.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response map[string]int
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 3, response["count"])
	service.AssertExpectations(t)
}

func TestUploadHandlerUnsupportedFormat(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	handler := NewHandler(service, projects, nil)
	router := setupRouter(handler)

	body, contentType := multipartBody(t, "xml", "docs.xml", "<docs/>")
	req := httptest.NewRequest(http.MethodPost, "/projects/1/docs/upload", body)
	req.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, string(apiError.KindUnsupportedFormat), response["kind"])

	service.AssertNotCalled(t, "ImportFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	projects.AssertNotCalled(t, "GetProjectByID", mock.Anything, mock.Anything)
}

func TestUploadHandlerFormatErrorCarriesRecordIndex(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	handler := NewHandler(service, projects, nil)
	router := setupRouter(handler)

	project := &domain.Project{ID: 1, ProjectType: domain.ProjectTypeSequenceLabeling}
	projects.On("GetProjectByID", mock.Anything, uint64(1)).Return(project, nil)
	service.On("ImportFile", mock.Anything, project, FormatCoNLL, mock.Anything, uint64(7), ImportOptions{}).
		Return(0, apiError.Format(2, "expected token and tag", nil))

	body, contentType := multipartBody(t, FormatCoNLL, "docs.conll", "bad")
	req := httptest.NewRequest(http.MethodPost, "/projects/1/docs/upload", body)
	req.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, string(apiError.KindFormat), response["kind"])
	assert.Equal(t, float64(2), response["record"])
}

func TestCloudUploadHandler(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	blobs := new(MockBlobs)
	handler := NewHandler(service, projects, blobs)
	router := setupRouter(handler)

	project := &domain.Project{ID: 1, ProjectType: domain.ProjectTypeClassification}
	projects.On("GetProjectByID", mock.Anything, uint64(1)).Return(project, nil)
	blobs.On("Download", mock.Anything, "imports", "batch.csv").
		Return(io.NopCloser(strings.NewReader("a,positive\n")), nil)
	service.On("ImportFile", mock.Anything, project, FormatCSV, mock.Anything, uint64(7), ImportOptions{}).
		Return(1, nil)

	payload := `{"bucket": "imports", "key": "batch.csv", "format": "csv"}`
	req := httptest.NewRequest(http.MethodPost, "/projects/1/docs/cloud-upload", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	blobs.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestCloudUploadHandlerTransferError(t *testing.T) {
	service := new(MockService)
	projects := new(MockProjects)
	blobs := new(MockBlobs)
	handler := NewHandler(service, projects, blobs)
	router := setupRouter(handler)

	project := &domain.Project{ID: 1, ProjectType: domain.ProjectTypeClassification}
	projects.On("GetProjectByID", mock.Anything, uint64(1)).Return(project, nil)
	blobs.On("Download", mock.Anything, "imports", "missing.csv").
		Return(nil, apiError.Transfer("Can't open remote object", nil))

	payload := `{"bucket": "imports", "key": "missing.csv", "format": "csv"}`
	req := httptest.NewRequest(http.MethodPost, "/projects/1/docs/cloud-upload", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	service.AssertNotCalled(t, "ImportFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
