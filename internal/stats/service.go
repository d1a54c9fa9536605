package stats

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/worker"
	"collaborative-annotation-server/redis"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Statistic keys clients may request through the include parameter
const (
	KeyLabel     = "label"
	KeyUserLabel = "user_label"
	KeyTotal     = "total"
	KeyRemaining = "remaining"
	KeyUser      = "user"
)

type Service interface {
	Compute(ctx context.Context, project *domain.Project, userID uint64, include []string) (map[string]any, error)
	InvalidateProject(projectID uint64)
}

type DefaultService struct {
	repository StatsRepository
	cache      *redis.Cache
	pool       *worker.Pool
}

func NewService(repository StatsRepository, cache *redis.Cache, pool *worker.Pool) Service {
	return &DefaultService{repository: repository, cache: cache, pool: pool}
}

// Compute returns the requested statistics for a project. An empty include
// list means everything. The label block and the progress block are only
// computed when a requested key needs them.
//
// remaining depends on who is asking in non-collaborative projects, so the
// cache key carries the requesting user as well as the project version.
func (s *DefaultService) Compute(ctx context.Context, project *domain.Project, userID uint64, include []string) (map[string]any, error) {
	versionKey := fmt.Sprintf("stats:p:%d:version", project.ID)
	v := s.cache.GetVersion(ctx, versionKey)

	cacheKey := fmt.Sprintf("stats:p:%d:v:%d:u:%d:inc:%s", project.ID, v, userID, canonicalInclude(include))

	var cached map[string]any
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	requested := make(map[string]bool, len(include))
	for _, key := range include {
		requested[key] = true
	}
	all := len(requested) == 0

	response := map[string]any{}

	if all || requested[KeyLabel] || requested[KeyUserLabel] {
		labelTotals, perUser, err := s.repository.LabelCounts(ctx, project.ID, project.ProjectType)
		if err != nil {
			return nil, err
		}
		response[KeyLabel] = labelTotals
		response[KeyUserLabel] = perUser
	}

	if all || requested[KeyTotal] || requested[KeyRemaining] || requested[KeyUser] {
		progress, err := s.progress(ctx, project, userID)
		if err != nil {
			return nil, err
		}
		for key, value := range progress {
			response[key] = value
		}
	}

	if !all {
		for key := range response {
			if !requested[key] {
				delete(response, key)
			}
		}
	}

	go s.cache.Set(context.Background(), cacheKey, response, 24*time.Hour)

	return response, nil
}

// progress computes total, remaining and the per-user completion tallies.
// perUser is always global; done is scoped to the requesting user unless
// the project is collaborative.
func (s *DefaultService) progress(ctx context.Context, project *domain.Project, userID uint64) (map[string]any, error) {
	total, err := s.repository.CountDocuments(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	perUser, err := s.repository.PerUserDocumentCounts(ctx, project.ID, project.ProjectType)
	if err != nil {
		return nil, err
	}

	scope := &userID
	if project.CollaborativeAnnotation {
		scope = nil
	}
	done, err := s.repository.CountAnnotatedDocuments(ctx, project.ID, project.ProjectType, scope)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		KeyTotal:     total,
		KeyRemaining: total - done,
		KeyUser:      perUser,
	}, nil
}

// InvalidateProject bumps the project's stats version so the next request
// recomputes. The bump runs on the worker pool to stay off the request path.
func (s *DefaultService) InvalidateProject(projectID uint64) {
	versionKey := fmt.Sprintf("stats:p:%d:version", projectID)

	if s.pool == nil {
		s.cache.IncrementVersion(context.Background(), versionKey)
		return
	}

	s.pool.Submit(func(ctx context.Context) error {
		s.cache.IncrementVersion(ctx, versionKey)
		return nil
	})
}

func canonicalInclude(include []string) string {
	if len(include) == 0 {
		return "all"
	}
	sorted := append([]string(nil), include...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
