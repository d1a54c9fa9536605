package stats

import (
	"collaborative-annotation-server/internal/domain"
	"context"

	"gorm.io/gorm"
)

// StatsRepository aggregates annotation activity. The annotation table is
// picked once from the project type; no per-row type inspection happens.
type StatsRepository interface {
	CountDocuments(ctx context.Context, projectID uint64) (int64, error)
	CountAnnotatedDocuments(ctx context.Context, projectID uint64, projectType string, userID *uint64) (int64, error)
	PerUserDocumentCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, error)
	LabelCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, map[string]map[string]int64, error)
}

type StatsRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new statistics repository
func NewRepository(db *gorm.DB) StatsRepository {
	return &StatsRepositoryImpl{db: db}
}

func (r *StatsRepositoryImpl) CountDocuments(ctx context.Context, projectID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// CountAnnotatedDocuments counts distinct documents carrying at least one
// annotation. A nil userID counts annotations from everyone (collaborative
// projects); otherwise only the given user's annotations count.
func (r *StatsRepositoryImpl) CountAnnotatedDocuments(ctx context.Context, projectID uint64, projectType string, userID *uint64) (int64, error) {
	query := r.db.WithContext(ctx).
		Table(domain.AnnotationTable(projectType)+" AS a").
		Joins("JOIN documents d ON d.id = a.document_id").
		Where("d.project_id = ?", projectID)
	if userID != nil {
		query = query.Where("a.user_id = ?", *userID)
	}

	var count int64
	err := query.Distinct("a.document_id").Count(&count).Error
	return count, err
}

// PerUserDocumentCounts maps each contributor to the number of distinct
// documents they annotated. Always global, regardless of the collaborative
// flag.
func (r *StatsRepositoryImpl) PerUserDocumentCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Count int64
	}

	err := r.db.WithContext(ctx).
		Table(domain.AnnotationTable(projectType)+" AS a").
		Select("u.name AS name, COUNT(DISTINCT a.document_id) AS count").
		Joins("JOIN documents d ON d.id = a.document_id").
		Joins("JOIN users u ON u.id = a.user_id").
		Where("d.project_id = ?", projectID).
		Group("u.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}

// LabelCounts returns annotation counts grouped by label, total and broken
// down per user. Seq2seq annotations carry no label so both maps are empty.
func (r *StatsRepositoryImpl) LabelCounts(ctx context.Context, projectID uint64, projectType string) (map[string]int64, map[string]map[string]int64, error) {
	labelTotals := map[string]int64{}
	perUser := map[string]map[string]int64{}

	if projectType == domain.ProjectTypeSeq2seq {
		return labelTotals, perUser, nil
	}

	var rows []struct {
		Label string
		Name  string
		Count int64
	}

	err := r.db.WithContext(ctx).
		Table(domain.AnnotationTable(projectType)+" AS a").
		Select("l.text AS label, u.name AS name, COUNT(*) AS count").
		Joins("JOIN documents d ON d.id = a.document_id").
		Joins("JOIN labels l ON l.id = a.label_id").
		Joins("JOIN users u ON u.id = a.user_id").
		Where("d.project_id = ?", projectID).
		Group("l.text, u.name").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	for _, row := range rows {
		labelTotals[row.Label] += row.Count
		if perUser[row.Name] == nil {
			perUser[row.Name] = map[string]int64{}
		}
		perUser[row.Name][row.Label] += row.Count
	}
	return labelTotals, perUser, nil
}
