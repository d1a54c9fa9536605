package label

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

func expectLabelInsert(mock sqlmock.Sqlmock, id int64, shortcut any) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "labels"`).
		WithArgs(uint64(1), "positive", shortcut, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()
}

// Labels without a shortkey store NULL, not the empty string, so two of
// them never collide on the (project, shortcut) unique index.
func TestCreateTwoLabelsWithoutShortcut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	expectLabelInsert(mock, 1, nil)
	expectLabelInsert(mock, 2, nil)

	first := &domain.Label{ProjectID: 1, Text: "positive"}
	require.NoError(t, repo.Create(context.Background(), first))

	second := &domain.Label{ProjectID: 1, Text: "positive"}
	require.NoError(t, repo.Create(context.Background(), second))

	assert.Nil(t, first.Shortcut)
	assert.Nil(t, second.Shortcut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLabelWithShortcut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	expectLabelInsert(mock, 1, "p")

	shortcut := "p"
	label := &domain.Label{ProjectID: 1, Text: "positive", Shortcut: &shortcut}
	require.NoError(t, repo.Create(context.Background(), label))

	assert.NoError(t, mock.ExpectationsWereMet())
}
