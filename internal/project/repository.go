package project

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project, creatorID uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Project, error)
	ListByUserID(ctx context.Context, userID uint64) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uint64) error
	GetUserRole(ctx context.Context, projectID, userID uint64) (string, error)
	ListRoleMappings(ctx context.Context, projectID uint64) ([]domain.RoleMapping, error)
	CreateRoleMapping(ctx context.Context, mapping *domain.RoleMapping) error
	UpdateRoleMapping(ctx context.Context, mapping *domain.RoleMapping) error
	DeleteRoleMapping(ctx context.Context, projectID, mappingID uint64) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new project repository
func NewRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// Create creates a project and makes the creator its admin in one transaction
func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *domain.Project, creatorID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		project.CreatedAt = now
		project.UpdatedAt = now
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		mapping := &domain.RoleMapping{
			UserID:    creatorID,
			ProjectID: project.ID,
			Role:      domain.RoleProjectAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(mapping).Error
	})
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUserID returns the projects the user is a member of
func (r *ProjectRepositoryImpl) ListByUserID(ctx context.Context, userID uint64) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN role_mappings ON role_mappings.project_id = projects.id").
		Where("role_mappings.user_id = ?", userID).
		Order("projects.id").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	project.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes the project and everything it owns
func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subquery := tx.Model(&domain.Document{}).Select("id").Where("project_id = ?", id)

		if err := tx.Where("document_id IN (?)", subquery).Delete(&domain.DocumentAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id IN (?)", subquery).Delete(&domain.SequenceAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id IN (?)", subquery).Delete(&domain.Seq2seqAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Label{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.RoleMapping{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, id).Error
	})
}

func (r *ProjectRepositoryImpl) GetUserRole(ctx context.Context, projectID, userID uint64) (string, error) {
	var role string
	err := r.db.WithContext(ctx).Model(&domain.RoleMapping{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Select("role").
		First(&role).Error
	if err != nil {
		return "", err
	}
	return role, nil
}

func (r *ProjectRepositoryImpl) ListRoleMappings(ctx context.Context, projectID uint64) ([]domain.RoleMapping, error) {
	var mappings []domain.RoleMapping
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&mappings).Error
	return mappings, err
}

func (r *ProjectRepositoryImpl) CreateRoleMapping(ctx context.Context, mapping *domain.RoleMapping) error {
	now := time.Now().UTC()
	mapping.CreatedAt = now
	mapping.UpdatedAt = now
	return r.db.WithContext(ctx).Create(mapping).Error
}

func (r *ProjectRepositoryImpl) UpdateRoleMapping(ctx context.Context, mapping *domain.RoleMapping) error {
	mapping.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.RoleMapping{}).
		Where("id = ? AND project_id = ?", mapping.ID, mapping.ProjectID).
		Update("role", mapping.Role).Error
}

func (r *ProjectRepositoryImpl) DeleteRoleMapping(ctx context.Context, projectID, mappingID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", mappingID, projectID).
		Delete(&domain.RoleMapping{}).Error
}
