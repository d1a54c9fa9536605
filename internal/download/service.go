package download

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"io"
)

type Service interface {
	Export(ctx context.Context, project *domain.Project, format string, w io.Writer) error
}

type DefaultService struct {
	repository ExportRepository
}

func NewService(repository ExportRepository) Service {
	return &DefaultService{repository: repository}
}

// Export paints the whole project into w in the requested format
func (s *DefaultService) Export(ctx context.Context, project *domain.Project, format string, w io.Writer) error {
	labels, err := s.repository.LabelNames(ctx, project.ID)
	if err != nil {
		return err
	}

	painter, err := SelectPainter(format, labels)
	if err != nil {
		return err
	}

	return painter.Paint(w, s.repository.Stream(ctx, project))
}
