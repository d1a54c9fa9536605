package stats

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/redis"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of StatsRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CountDocuments(ctx context.Context, projectID uint64) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountAnnotatedDocuments(ctx context.Context, projectID uint64, projectType string, userID *uint64) (int64, error) {
	args := m.Called(ctx, projectID, projectType, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) PerUserDocumentCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, error) {
	args := m.Called(ctx, projectID, projectType)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockRepository) LabelCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, map[string]map[string]int64, error) {
	args := m.Called(ctx, projectID, projectType)
	return args.Get(0).(map[string]int64), args.Get(1).(map[string]map[string]int64), args.Error(2)
}

func testProject() *domain.Project {
	return &domain.Project{ID: 1, ProjectType: domain.ProjectTypeClassification}
}

// 3 documents, the requester annotated two of them, project is per-user:
// remaining counts only the requester's progress while perUser stays global.
func TestComputeProgressPerUserProject(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, redis.NewCache(nil), nil)
	project := testProject()
	userID := uint64(7)

	repo.On("CountDocuments", mock.Anything, uint64(1)).Return(int64(3), nil)
	repo.On("PerUserDocumentCounts", mock.Anything, uint64(1), project.ProjectType).
		Return(map[string]int64{"alice": 2}, nil)
	repo.On("CountAnnotatedDocuments", mock.Anything, uint64(1), project.ProjectType, &userID).
		Return(int64(2), nil)

	response, err := service.Compute(context.Background(), project, userID, []string{"total", "remaining", "user"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), response[KeyTotal])
	assert.Equal(t, int64(1), response[KeyRemaining])
	assert.Equal(t, map[string]int64{"alice": 2}, response[KeyUser])
	repo.AssertNotCalled(t, "LabelCounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestComputeProgressCollaborativeProject(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, redis.NewCache(nil), nil)
	project := testProject()
	project.CollaborativeAnnotation = true

	repo.On("CountDocuments", mock.Anything, uint64(1)).Return(int64(3), nil)
	repo.On("PerUserDocumentCounts", mock.Anything, uint64(1), project.ProjectType).
		Return(map[string]int64{"alice": 2, "bob": 1}, nil)
	// nil scope: anyone's annotation marks a document done
	repo.On("CountAnnotatedDocuments", mock.Anything, uint64(1), project.ProjectType, (*uint64)(nil)).
		Return(int64(3), nil)

	response, err := service.Compute(context.Background(), project, 7, []string{"remaining"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), response[KeyRemaining])
}

func TestComputeIncludeSubsetting(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, redis.NewCache(nil), nil)
	project := testProject()

	repo.On("LabelCounts", mock.Anything, uint64(1), project.ProjectType).
		Return(map[string]int64{"positive": 4}, map[string]map[string]int64{"alice": {"positive": 4}}, nil)

	response, err := service.Compute(context.Background(), project, 7, []string{"label"})

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"positive": 4}, response[KeyLabel])
	assert.NotContains(t, response, KeyUserLabel)
	assert.NotContains(t, response, KeyTotal)
	repo.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}

func TestComputeAllKeys(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, redis.NewCache(nil), nil)
	project := testProject()
	userID := uint64(7)

	repo.On("CountDocuments", mock.Anything, uint64(1)).Return(int64(2), nil)
	repo.On("PerUserDocumentCounts", mock.Anything, uint64(1), project.ProjectType).
		Return(map[string]int64{}, nil)
	repo.On("CountAnnotatedDocuments", mock.Anything, uint64(1), project.ProjectType, &userID).
		Return(int64(0), nil)
	repo.On("LabelCounts", mock.Anything, uint64(1), project.ProjectType).
		Return(map[string]int64{}, map[string]map[string]int64{}, nil)

	response, err := service.Compute(context.Background(), project, userID, nil)

	require.NoError(t, err)
	for _, key := range []string{KeyLabel, KeyUserLabel, KeyTotal, KeyRemaining, KeyUser} {
		assert.Contains(t, response, key)
	}
}

func TestInvalidateProjectBumpsVersion(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redisLib.NewClient(&redisLib.Options{Addr: mini.Addr()})
	cache := redis.NewCache(client)
	service := NewService(new(MockRepository), cache, nil)

	before := cache.GetVersion(context.Background(), "stats:p:1:version")
	service.InvalidateProject(1)
	after := cache.GetVersion(context.Background(), "stats:p:1:version")

	assert.Equal(t, before+1, after)
}

func TestCanonicalInclude(t *testing.T) {
	assert.Equal(t, "all", canonicalInclude(nil))
	assert.Equal(t, "label,total", canonicalInclude([]string{"total", "label"}))
}
