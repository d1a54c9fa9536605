package domain

import (
	"time"
)

type Document struct {
	ID                      uint64
	ProjectID               uint64 `gorm:"index"`
	Project                 Project
	Text                    string
	Meta                    string `gorm:"default:'{}'"`
	AnnotationsApprovedByID *uint64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Label belongs to a project. Annotations reference labels by ID only;
// names are resolved at export time. Shortcut is nullable: most labels have
// no shortkey, and NULLs never collide under the unique index.
type Label struct {
	ID              uint64
	ProjectID       uint64  `gorm:"uniqueIndex:idx_label_project_text;uniqueIndex:idx_label_project_shortcut"`
	Project         Project
	Text            string  `gorm:"uniqueIndex:idx_label_project_text"`
	Shortcut        *string `gorm:"uniqueIndex:idx_label_project_shortcut"`
	BackgroundColor string  `gorm:"default:'#209cee'"`
	TextColor       string  `gorm:"default:'#ffffff'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
