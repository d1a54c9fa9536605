package domain

import (
	"time"
)

// Project annotation types. The type is fixed at creation and decides which
// annotation variant, parser and painter apply to the project's documents.
const (
	ProjectTypeClassification   = "classification"
	ProjectTypeSequenceLabeling = "sequence_labeling"
	ProjectTypeSeq2seq          = "seq2seq"
)

// ValidProjectType reports whether t is one of the known annotation types.
func ValidProjectType(t string) bool {
	switch t {
	case ProjectTypeClassification, ProjectTypeSequenceLabeling, ProjectTypeSeq2seq:
		return true
	}
	return false
}

// Project member roles
const (
	RoleProjectAdmin       = "project_admin"
	RoleAnnotator          = "annotator"
	RoleAnnotationApprover = "annotation_approver"
)

type Project struct {
	ID                        uint64
	Name                      string
	Description               string
	GuidelineText             string
	ProjectType               string `gorm:"index"`
	RandomizeDocumentOrder    bool   `gorm:"default:false"`
	CollaborativeAnnotation   bool   `gorm:"default:false"`
	SingleClassClassification bool   `gorm:"default:false"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// RoleMapping assigns a user a role inside a project
type RoleMapping struct {
	ID        uint64
	UserID    uint64 `gorm:"uniqueIndex:idx_role_mapping_user_project"`
	ProjectID uint64 `gorm:"uniqueIndex:idx_role_mapping_user_project"`
	Project   Project
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
