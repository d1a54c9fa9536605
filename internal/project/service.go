package project

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateProject(ctx context.Context, project *domain.Project, creatorID uint64) error
	GetProjectByID(ctx context.Context, id uint64) (*domain.Project, error)
	GetUserProjects(ctx context.Context, userID uint64) ([]domain.Project, error)
	UpdateProject(ctx context.Context, id uint64, name, description, guideline string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id uint64) error
	GetUserRole(ctx context.Context, projectID, userID uint64) (string, error)
	ListMembers(ctx context.Context, projectID uint64) ([]domain.RoleMapping, error)
	AddMember(ctx context.Context, projectID, userID uint64, role string) (*domain.RoleMapping, error)
	ChangeMemberRole(ctx context.Context, projectID, mappingID uint64, role string) error
	RemoveMember(ctx context.Context, projectID, mappingID uint64) error
}

type DefaultService struct {
	repository ProjectRepository
}

func NewService(repository ProjectRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) CreateProject(ctx context.Context, project *domain.Project, creatorID uint64) error {
	if !domain.ValidProjectType(project.ProjectType) {
		return errors.BadRequest("Unknown project type", nil)
	}
	return s.repository.Create(ctx, project, creatorID)
}

func (s *DefaultService) GetProjectByID(ctx context.Context, id uint64) (*domain.Project, error) {
	project, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}
	return project, nil
}

func (s *DefaultService) GetUserProjects(ctx context.Context, userID uint64) ([]domain.Project, error) {
	return s.repository.ListByUserID(ctx, userID)
}

// UpdateProject updates mutable project fields. The annotation type is
// immutable after creation so it is not accepted here.
func (s *DefaultService) UpdateProject(ctx context.Context, id uint64, name, description, guideline string) (*domain.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = name
	project.Description = description
	project.GuidelineText = guideline

	if err := s.repository.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *DefaultService) DeleteProject(ctx context.Context, id uint64) error {
	if _, err := s.GetProjectByID(ctx, id); err != nil {
		return err
	}
	return s.repository.Delete(ctx, id)
}

func (s *DefaultService) GetUserRole(ctx context.Context, projectID, userID uint64) (string, error) {
	role, err := s.repository.GetUserRole(ctx, projectID, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.Forbidden("You're not a member of this project", err)
		}
		return "", err
	}
	return role, nil
}

func (s *DefaultService) ListMembers(ctx context.Context, projectID uint64) ([]domain.RoleMapping, error) {
	return s.repository.ListRoleMappings(ctx, projectID)
}

func (s *DefaultService) AddMember(ctx context.Context, projectID, userID uint64, role string) (*domain.RoleMapping, error) {
	mapping := &domain.RoleMapping{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}

	if err := s.repository.CreateRoleMapping(ctx, mapping); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("User is already a member of this project", err)
		}
		return nil, err
	}
	return mapping, nil
}

func (s *DefaultService) ChangeMemberRole(ctx context.Context, projectID, mappingID uint64, role string) error {
	return s.repository.UpdateRoleMapping(ctx, &domain.RoleMapping{
		ID:        mappingID,
		ProjectID: projectID,
		Role:      role,
	})
}

func (s *DefaultService) RemoveMember(ctx context.Context, projectID, mappingID uint64) error {
	return s.repository.DeleteRoleMapping(ctx, projectID, mappingID)
}
