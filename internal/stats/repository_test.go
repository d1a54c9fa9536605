package stats

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestCountDocuments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "documents"`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountDocuments(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAnnotatedDocumentsScopedToUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT\(.?a.?\..?document_id.?\)\) FROM document_annotations AS a JOIN documents d`).
		WithArgs(uint64(1), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	userID := uint64(7)
	count, err := repo.CountAnnotatedDocuments(context.Background(), 1, domain.ProjectTypeClassification, &userID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerUserDocumentCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT u\.name AS name, COUNT\(DISTINCT a\.document_id\) AS count FROM sequence_annotations AS a`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}).
			AddRow("alice", 2).
			AddRow("bob", 1))

	counts, err := repo.PerUserDocumentCounts(context.Background(), 1, domain.ProjectTypeSequenceLabeling)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"alice": 2, "bob": 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT l\.text AS label, u\.name AS name, COUNT\(\*\) AS count FROM document_annotations AS a`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "name", "count"}).
			AddRow("positive", "alice", 3).
			AddRow("positive", "bob", 1).
			AddRow("negative", "alice", 2))

	totals, perUser, err := repo.LabelCounts(context.Background(), 1, domain.ProjectTypeClassification)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"positive": 4, "negative": 2}, totals)
	assert.Equal(t, map[string]int64{"positive": 3, "negative": 2}, perUser["alice"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// seq2seq annotations carry no labels, so no query runs at all
func TestLabelCountsSeq2seq(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	totals, perUser, err := repo.LabelCounts(context.Background(), 1, domain.ProjectTypeSeq2seq)

	require.NoError(t, err)
	assert.Empty(t, totals)
	assert.Empty(t, perUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}
