package document

import (
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

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "text"}).
		AddRow(1, 1, "first").
		AddRow(2, 1, "second")
}

// A zero seed lists in insertion (id) order.
func TestListInsertionOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE project_id = \$1 ORDER BY id LIMIT`).
		WillReturnRows(documentRows())

	docs, meta, err := repo.List(context.Background(), 1, 0, 1, 10)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, int64(2), meta.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A non-zero seed must reach the SQL as an ORDER BY expression, not get
// silently dropped: each annotator sees a shuffled but stable sequence.
func TestListRandomizedOrderReachesSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE project_id = \$1 ORDER BY id % \$2, id LIMIT`).
		WillReturnRows(documentRows())

	docs, _, err := repo.List(context.Background(), 1, 7, 1, 10)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
