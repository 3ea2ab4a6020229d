package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"leasehub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"0001_init.sql":  {Data: []byte("CREATE TABLE users (id SERIAL PRIMARY KEY);")},
		"0002_extra.sql": {Data: []byte("ALTER TABLE users ADD COLUMN nickname TEXT;")},
		"README.md":      {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ADD COLUMN nickname TEXT;")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_extra").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ran, err := postgres.Migrate(context.Background(), db, fsys)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0002_extra"}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RollsBackFailedFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("CREATE TABLE broken (")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken (")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	ran, err := postgres.Migrate(context.Background(), db, fsys)
	assert.Error(t, err)
	assert.Empty(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}
